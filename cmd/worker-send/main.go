package main

import (
	"context"
	"errors"

	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/consumers"
	"github.com/Behyna/whatsapp-relay/internal/inbound"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/internal/repository"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/Behyna/whatsapp-relay/pkg/database"
	"github.com/Behyna/whatsapp-relay/pkg/httpclient"
	"github.com/Behyna/whatsapp-relay/pkg/mq"
	"github.com/Behyna/whatsapp-relay/pkg/zapi"
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
			NewMQConnection,
			NewMQConsumer,

			repository.NewContactRepository,
			repository.NewMessageHistoryRepository,
			repository.NewTransactionManager,
			inbound.NewNormalizer,

			NewZAPIClient,
			service.NewGatewayService,
			service.NewHistoryService,
			service.NewContactService,
			service.NewSendService,

			consumers.NewSendConsumer,
		),
		fx.Invoke(runSendConsumer),
	).Run()
}

func runSendConsumer(cfg *config.Config, sendConsumer consumers.SendConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle,
) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology(cfg.Bulk.Queue); err != nil {
				logger.Error("Declare topology failed", zap.Error(err))
				return err
			}

			go func() {
				if err := sendConsumer.Consume(appCtx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("Send consumer exited", zap.Error(err))
				}
			}()

			logger.Info("Send consumer started", zap.String("queue", cfg.Bulk.Queue))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping send consumer")
			cancel()
			return rabbit.Close()
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

func NewZAPIClient(cfg *config.Config) zapi.Client {
	client := httpclient.NewHTTPClient(cfg.ZAPI.Timeout)
	return zapi.NewClient(cfg.ZAPI, client)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}
