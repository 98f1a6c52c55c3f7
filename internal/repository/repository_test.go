package repository_test

import (
	"context"
	"testing"

	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/pkg/database"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

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

func strPtr(s string) *string {
	return &s
}
