package publishers

import (
	"context"

	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/Behyna/whatsapp-relay/pkg/mq"
	"go.uber.org/zap"
)

type sendPublisher struct {
	publisher mq.Publisher
	queue     string
	logger    *zap.Logger
}

// NewSendPublisher queues send commands for the send worker.
func NewSendPublisher(publisher mq.Publisher, logger *zap.Logger, config *config.Config) service.SendQueue {
	return &sendPublisher{publisher: publisher, queue: config.Bulk.Queue, logger: logger}
}

func (s *sendPublisher) EnqueueSend(ctx context.Context, cmd service.SendTextCommand) error {
	if err := mq.PublishJSON(ctx, s.publisher, s.queue, cmd); err != nil {
		s.logger.Error("Failed to publish send command",
			zap.String("queue", s.queue),
			zap.String("phone", cmd.Phone),
			zap.Error(err))
		return err
	}

	s.logger.Debug("Send command published", zap.String("queue", s.queue), zap.String("phone", cmd.Phone))
	return nil
}
