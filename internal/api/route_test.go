package api_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/Behyna/whatsapp-relay/internal/api"
	"github.com/Behyna/whatsapp-relay/internal/api/contract"
	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewApp(t *testing.T) {
	cfg := &config.Config{API: config.API{ServiceName: "relay-test"}}
	app := api.NewApp(zap.NewNop(), metrics.NewMetricsWith(prometheus.NewRegistry()), cfg)
	api.SetupMetricsRoute(app)

	t.Run("answers health checks", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "relay-test", body["service"])
	})

	t.Run("exposes prometheus metrics", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
		require.NoError(t, err)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Contains(t, string(raw), "go_goroutines")
	})

	t.Run("unknown routes use the error contract", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/nowhere", nil))
		require.NoError(t, err)

		var res contract.Response
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, 404, resp.StatusCode)
		assert.Equal(t, constants.ErrCodeNotFound, res.Code)
		assert.NotEmpty(t, res.TrackID)
	})
}
