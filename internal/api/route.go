package api

import (
	"github.com/Behyna/whatsapp-relay/internal/api/middleware"
	v1 "github.com/Behyna/whatsapp-relay/internal/api/v1"
	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	prefixV1       = "api/v1/"
	prefixWebhooks = "webhooks/zapi/"
)

func NewApp(logger *zap.Logger, m *metrics.Metrics, config *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      config.API.ServiceName,
		ErrorHandler: middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))
	app.Use(metrics.HealthCheckMiddleware(config.API.ServiceName))
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))

	return app
}

func SetupRoutes(app *fiber.App, handler *v1.Handler) {
	app.Get("/ping", handler.Pong)

	app.Post(prefixV1+"messages", handler.SendMessage)
	app.Post(prefixV1+"messages/media", handler.SendMedia)
	app.Post(prefixV1+"messages/bulk", handler.SendBulk)
	app.Post(prefixV1+"messages/queue", handler.QueueBulk)
	app.Get(prefixV1+"messages/:phone", handler.GetHistory)
	app.Delete(prefixV1+"messages", handler.ClearHistory)
	app.Patch(prefixV1+"messages/:messageID/status", handler.UpdateMessageStatus)

	app.Get(prefixV1+"contacts", handler.ListContacts)
	app.Post(prefixV1+"contacts/sync", handler.SyncContacts)
	app.Get(prefixV1+"contacts/:phone", handler.GetContact)
	app.Patch(prefixV1+"contacts/:phone/status", handler.UpdateContactStatus)

	app.Post(prefixV1+"schedules", handler.CreateSchedule)
	app.Get(prefixV1+"schedules", handler.ListSchedules)
	app.Delete(prefixV1+"schedules/:id", handler.CancelSchedule)

	app.Get(prefixV1+"gateway/status", handler.GatewayStatus)
	app.Post(prefixV1+"gateway/restart", handler.RestartGateway)

	webhooks := app.Group(prefixWebhooks, handler.WebhookAuth)
	webhooks.Post("on-receive", handler.OnReceive)
	webhooks.Post("message-status", handler.OnMessageStatus)
	webhooks.Post("on-send", handler.OnSend)
	webhooks.Post("on-connect", handler.OnConnect)
	webhooks.Post("on-disconnect", handler.OnDisconnect)
	webhooks.Post("chat-presence", handler.OnChatPresence)
}

func SetupMetricsRoute(app *fiber.App) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
