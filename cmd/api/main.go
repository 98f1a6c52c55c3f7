package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/Behyna/whatsapp-relay/internal/api"
	v1 "github.com/Behyna/whatsapp-relay/internal/api/v1"
	"github.com/Behyna/whatsapp-relay/internal/api/validator"
	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/inbound"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/internal/publishers"
	"github.com/Behyna/whatsapp-relay/internal/repository"
	"github.com/Behyna/whatsapp-relay/internal/scheduler"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/Behyna/whatsapp-relay/pkg/clint"
	"github.com/Behyna/whatsapp-relay/pkg/database"
	"github.com/Behyna/whatsapp-relay/pkg/httpclient"
	"github.com/Behyna/whatsapp-relay/pkg/mq"
	"github.com/Behyna/whatsapp-relay/pkg/zapi"
	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			metrics.NewMetrics,
			NewConnectionDB,
			NewCollector,

			repository.NewContactRepository,
			repository.NewMessageHistoryRepository,
			repository.NewTransactionManager,
			inbound.NewNormalizer,

			NewZAPIClient,
			NewCRMClient,
			NewSendQueue,

			service.NewGatewayService,
			service.NewHistoryService,
			service.NewContactService,
			service.NewSendService,
			service.NewBulkService,
			service.NewSyncService,
			service.NewWebhookService,

			scheduler.New,
			NewHandlerScheduler,

			NewValidator,
			v1.NewHandler,
			api.NewApp,
		),
		fx.Invoke(runScheduler, runCollector, startServer),
	).Run()
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) {
	api.SetupRoutes(app, handler)
	if cfg.Metrics.Enabled {
		api.SetupMetricsRoute(app)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := app.Listen(cfg.API.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server stopped", zap.Error(err))
				}
			}()
			logger.Info("HTTP server started", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

func runScheduler(s *scheduler.Scheduler, cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) {
	if !cfg.Scheduler.Enabled {
		logger.Info("Scheduler disabled")
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
}

func runCollector(collector *metrics.Collector, cfg *config.Config, lc fx.Lifecycle) {
	if !cfg.Metrics.Enabled {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			collector.Start(cfg.Metrics.CollectInterval)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			collector.Stop()
			return nil
		},
	})
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	db, err := database.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db, &model.Contact{}, &model.MessageHistory{}); err != nil {
		return nil, err
	}

	return db, nil
}

func NewCollector(m *metrics.Metrics, logger *zap.Logger, db *gorm.DB) *metrics.Collector {
	return metrics.NewCollector(m, logger, db)
}

func NewZAPIClient(cfg *config.Config) zapi.Client {
	client := httpclient.NewHTTPClient(cfg.ZAPI.Timeout)
	return zapi.NewClient(cfg.ZAPI, client)
}

func NewCRMClient(cfg *config.Config) clint.Client {
	client := httpclient.NewHTTPClient(cfg.Clint.Timeout)
	return clint.NewClient(cfg.Clint, client)
}

// NewSendQueue returns a nil queue when no broker is configured; queued
// bulk sends then answer QUEUE_UNAVAILABLE.
func NewSendQueue(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) (service.SendQueue, error) {
	if cfg.RabbitMQ.URL == "" {
		logger.Warn("RabbitMQ not configured, queued sends disabled")
		return nil, nil
	}

	rabbit, err := mq.NewConnection(cfg.RabbitMQ, logger)
	if err != nil {
		return nil, err
	}

	if err := rabbit.DeclareTopology(cfg.Bulk.Queue); err != nil {
		_ = rabbit.Close()
		return nil, err
	}

	publisher, err := rabbit.CreatePublisher()
	if err != nil {
		_ = rabbit.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return rabbit.Close()
		},
	})

	return publishers.NewSendPublisher(publisher, logger, cfg), nil
}

func NewHandlerScheduler(s *scheduler.Scheduler, cfg *config.Config) v1.Scheduler {
	if !cfg.Scheduler.Enabled {
		return nil
	}
	return s
}

func NewValidator(m *metrics.Metrics) (validator.IXValidator, error) {
	return validator.NewXValidator(playground.New(), m)
}
