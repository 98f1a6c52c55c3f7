package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/Behyna/whatsapp-relay/pkg/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newMetrics() *metrics.Metrics {
	return metrics.NewMetricsWith(prometheus.NewRegistry())
}

func testConfig() *config.Config {
	return &config.Config{
		Gateway: config.Gateway{
			MaxRetry:           3,
			Timeout:            time.Second,
			RetryBackoff:       time.Millisecond,
			ConnectionCacheTTL: time.Minute,
		},
		History: config.History{DefaultLimit: 100, MaxLimit: 1000, MarkActiveOnReceive: true},
		Sync:    config.Sync{PageSize: 2, MaxPages: 5},
		Bulk:    config.Bulk{RatePerSecond: 0, Burst: 1},
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := database.Config{Driver: database.DriverSQLite, Path: ":memory:", LogLevel: "silent"}
	db, err := database.NewConnection(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &model.Contact{}, &model.MessageHistory{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()

	var serviceErr service.Error
	require.True(t, errors.As(err, &serviceErr), "expected service.Error, got %v", err)
	assert.Equal(t, code, serviceErr.Code)
}
