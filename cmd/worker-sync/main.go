package main

import (
	"context"
	"time"

	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/internal/repository"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/Behyna/whatsapp-relay/pkg/clint"
	"github.com/Behyna/whatsapp-relay/pkg/database"
	"github.com/Behyna/whatsapp-relay/pkg/httpclient"
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

			repository.NewContactRepository,
			repository.NewTransactionManager,

			NewCRMClient,
			service.NewContactService,
			service.NewSyncService,
		),
		fx.Invoke(runSync),
	).Run()
}

func runSync(cfg *config.Config, syncer service.SyncService, logger *zap.Logger, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			interval := cfg.Sync.Interval
			if interval <= 0 {
				interval = time.Hour
			}

			go func() {
				defer close(done)

				ticker := time.NewTicker(interval)
				defer ticker.Stop()

				syncOnce(appCtx, syncer, logger)
				for {
					select {
					case <-ticker.C:
						syncOnce(appCtx, syncer, logger)
					case <-appCtx.Done():
						logger.Info("Sync worker context cancelled")
						return
					}
				}
			}()

			logger.Info("Sync worker started", zap.Duration("interval", interval))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping sync worker")
			cancel()

			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func syncOnce(ctx context.Context, syncer service.SyncService, logger *zap.Logger) {
	result, err := syncer.Sync(ctx)
	if err != nil {
		logger.Error("Contact sync failed",
			zap.Int("fetched", result.Fetched),
			zap.Int("created", result.Created),
			zap.Int("updated", result.Updated),
			zap.Error(err))
		return
	}

	logger.Info("Contact sync finished",
		zap.Int("pages", result.Pages),
		zap.Int("fetched", result.Fetched),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	db, err := database.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db, &model.Contact{}); err != nil {
		return nil, err
	}

	return db, nil
}

func NewCRMClient(cfg *config.Config) clint.Client {
	client := httpclient.NewHTTPClient(cfg.Clint.Timeout)
	return clint.NewClient(cfg.Clint, client)
}
