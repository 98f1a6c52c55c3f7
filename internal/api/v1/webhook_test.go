package v1_test

import (
	"encoding/json"
	"testing"

	"github.com/Behyna/whatsapp-relay/internal/api"
	v1 "github.com/Behyna/whatsapp-relay/internal/api/v1"
	"github.com/Behyna/whatsapp-relay/internal/api/validator"
	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/inbound"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/internal/mocks"
	"github.com/Behyna/whatsapp-relay/internal/service"
	playground "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func webhook(t *testing.T, raw []byte) v1.WebhookResponse {
	t.Helper()

	var res v1.WebhookResponse
	require.NoError(t, json.Unmarshal(raw, &res), string(raw))
	return res
}

func TestHandler_WebhookAuth(t *testing.T) {
	t.Run("rejects a missing token", func(t *testing.T) {
		app, d := newTestApp(t)

		status, res := do(t, app, "POST", "/webhooks/zapi/on-receive", `{"phone":"5521999998888"}`)

		assert.Equal(t, 401, status)
		assert.Equal(t, constants.ErrCodeUnauthorized, res.Code)
		d.webhook.AssertNotCalled(t, "MessageReceived", mock.Anything, mock.Anything)
	})

	t.Run("rejects a wrong token", func(t *testing.T) {
		app, _ := newTestApp(t)

		status, _ := do(t, app, "POST", "/webhooks/zapi/on-connect", "", "Client-Token", "nope")

		assert.Equal(t, 401, status)
	})
}

func TestHandler_WebhookWithoutToken(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core)

	m := metrics.NewMetricsWith(prometheus.NewRegistry())
	xValidator, err := validator.NewXValidator(playground.New(), m)
	require.NoError(t, err)

	webhookService := new(mocks.WebhookService)
	cfg := &config.Config{API: config.API{ServiceName: "relay-test"}}

	handler := v1.NewHandler(logger, new(mocks.SendService), new(mocks.BulkService), new(mocks.HistoryService),
		new(mocks.ContactService), new(mocks.SyncService), new(mocks.GatewayService), webhookService,
		nil, xValidator, m, cfg)

	warnings := logs.FilterMessageSnippet("webhook_token").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, zapcore.WarnLevel, warnings[0].Level)

	app := api.NewApp(logger, m, cfg)
	api.SetupRoutes(app, handler)

	webhookService.On("ChatPresence", mock.Anything, mock.Anything).Return(inbound.PresenceEvent{}, false).Once()

	status, _ := request(t, app, "POST", "/webhooks/zapi/chat-presence", `{"phone":"5521999998888"}`)

	assert.Equal(t, 200, status)
	webhookService.AssertExpectations(t)
}

func TestHandler_OnReceive(t *testing.T) {
	t.Run("stores the message", func(t *testing.T) {
		app, d := newTestApp(t)

		d.webhook.On("MessageReceived", mock.Anything, mock.MatchedBy(func(p inbound.Payload) bool {
			return p["phone"] == "5521999998888"
		})).Return(&model.MessageHistory{ID: 11}, nil).Once()

		status, raw := request(t, app, "POST", "/webhooks/zapi/on-receive",
			`{"phone":"5521999998888","text":{"message":"oi"}}`, "Client-Token", webhookToken)

		assert.Equal(t, 200, status)
		res := webhook(t, raw)
		assert.Equal(t, constants.WebhookReceived, res.Status)
		assert.Equal(t, int64(11), res.HistoryID)
		d.assertExpectations(t)
	})

	t.Run("acknowledges an empty payload", func(t *testing.T) {
		app, d := newTestApp(t)

		d.webhook.On("MessageReceived", mock.Anything, inbound.Payload{}).Return(nil, nil).Once()

		status, raw := request(t, app, "POST", "/webhooks/zapi/on-receive", "", "Client-Token", webhookToken)

		assert.Equal(t, 200, status)
		assert.Equal(t, constants.WebhookIgnored, webhook(t, raw).Status)
		d.assertExpectations(t)
	})

	t.Run("rejects a body that is not json", func(t *testing.T) {
		app, d := newTestApp(t)

		status, res := do(t, app, "POST", "/webhooks/zapi/on-receive", "phone=1", "Client-Token", webhookToken)

		assert.Equal(t, 400, status)
		assert.Equal(t, constants.ErrCodeInvalidRequestBody, res.Code)
		d.webhook.AssertNotCalled(t, "MessageReceived", mock.Anything, mock.Anything)
	})

	t.Run("persistence failures ask for a retry", func(t *testing.T) {
		app, d := newTestApp(t)

		d.webhook.On("MessageReceived", mock.Anything, mock.Anything).
			Return(nil, service.NewServiceError(constants.ErrCodePersistenceError, assert.AnError)).Once()

		status, res := do(t, app, "POST", "/webhooks/zapi/on-receive", `{"phone":"21999998888","text":"x"}`,
			"Client-Token", webhookToken)

		assert.Equal(t, 500, status)
		assert.Equal(t, constants.ErrCodePersistenceError, res.Code)
	})
}

func TestHandler_StatusCallbacks(t *testing.T) {
	t.Run("message status reports updated records", func(t *testing.T) {
		app, d := newTestApp(t)

		d.webhook.On("MessageStatus", mock.Anything, mock.MatchedBy(func(p inbound.Payload) bool {
			return p["status"] == "READ"
		})).Return(2, nil).Once()

		status, raw := request(t, app, "POST", "/webhooks/zapi/message-status",
			`{"status":"READ","ids":["a","b"]}`, "Client-Token", webhookToken)

		assert.Equal(t, 200, status)
		assert.Equal(t, 2, webhook(t, raw).Updated)
		d.assertExpectations(t)
	})

	t.Run("invalid status event", func(t *testing.T) {
		app, d := newTestApp(t)

		d.webhook.On("MessageStatus", mock.Anything, mock.Anything).
			Return(0, service.NewServiceError(constants.ErrCodeValidationFailed, service.ErrInvalidStatusEvent)).Once()

		status, res := do(t, app, "POST", "/webhooks/zapi/message-status", `{}`, "Client-Token", webhookToken)

		assert.Equal(t, 400, status)
		assert.Equal(t, constants.ErrCodeValidationFailed, res.Code)
	})

	t.Run("on send records failures", func(t *testing.T) {
		app, d := newTestApp(t)

		d.webhook.On("MessageSent", mock.Anything, mock.Anything).Return(1, nil).Once()

		status, raw := request(t, app, "POST", "/webhooks/zapi/on-send",
			`{"messageId":"m1","error":"blocked"}`, "Client-Token", webhookToken)

		assert.Equal(t, 200, status)
		assert.Equal(t, 1, webhook(t, raw).Updated)
		d.assertExpectations(t)
	})
}

func TestHandler_ConnectionCallbacks(t *testing.T) {
	t.Run("on connect defaults to connected", func(t *testing.T) {
		app, d := newTestApp(t)

		d.webhook.On("ConnectionChanged", mock.Anything, inbound.Payload{}, true).Return(true).Once()

		status, raw := request(t, app, "POST", "/webhooks/zapi/on-connect", "", "Client-Token", webhookToken)

		assert.Equal(t, 200, status)
		res := webhook(t, raw)
		require.NotNil(t, res.Connected)
		assert.True(t, *res.Connected)
		d.assertExpectations(t)
	})

	t.Run("on disconnect defaults to disconnected", func(t *testing.T) {
		app, d := newTestApp(t)

		d.webhook.On("ConnectionChanged", mock.Anything, mock.Anything, false).Return(false).Once()

		status, raw := request(t, app, "POST", "/webhooks/zapi/on-disconnect", `{"connected":false}`,
			"Client-Token", webhookToken)

		assert.Equal(t, 200, status)
		res := webhook(t, raw)
		require.NotNil(t, res.Connected)
		assert.False(t, *res.Connected)
		d.assertExpectations(t)
	})

	t.Run("chat presence", func(t *testing.T) {
		app, d := newTestApp(t)

		d.webhook.On("ChatPresence", mock.Anything, mock.Anything).
			Return(inbound.PresenceEvent{Phone: "21999998888", Online: true}, true).Once()

		status, raw := request(t, app, "POST", "/webhooks/zapi/chat-presence",
			`{"phone":"5521999998888","status":"AVAILABLE"}`, "Client-Token", webhookToken)

		assert.Equal(t, 200, status)
		assert.Equal(t, constants.WebhookReceived, webhook(t, raw).Status)
		d.assertExpectations(t)
	})
}
