package consumers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/Behyna/whatsapp-relay/pkg/mq"
	"github.com/Behyna/whatsapp-relay/pkg/zapi"
	"go.uber.org/zap"
)

type SendConsumer interface {
	Consume(ctx context.Context) error
}

type sendConsumer struct {
	service  service.SendService
	consumer mq.Consumer
	queue    string
	logger   *zap.Logger
}

func NewSendConsumer(service service.SendService, consumer mq.Consumer, logger *zap.Logger,
	config *config.Config) SendConsumer {
	return &sendConsumer{
		service:  service,
		consumer: consumer,
		queue:    config.Bulk.Queue,
		logger:   logger,
	}
}

func (s *sendConsumer) Consume(ctx context.Context) error {
	return s.consumer.Consume(ctx, 1, s.queue, s.handleMessage)
}

// handleMessage returns a temporary error for sends that failed before
// reaching the recipient; those come back through the retry queue. Sends
// that can never succeed return a plain error and end up dead-lettered.
func (s *sendConsumer) handleMessage(ctx context.Context, body []byte) error {
	var cmd service.SendTextCommand
	if err := json.Unmarshal(body, &cmd); err != nil {
		s.logger.Warn("Dead-lettering undecodable send command", zap.ByteString("body", body), zap.Error(err))
		return err
	}

	result, err := s.service.SendText(ctx, cmd)
	if err == nil {
		s.logger.Info("Queued message sent",
			zap.String("phone", result.Phone),
			zap.String("externalID", result.ExternalID))
		return nil
	}

	var serviceErr service.Error
	if !errors.As(err, &serviceErr) {
		return mq.Temporary(err)
	}

	switch serviceErr.Code {
	case constants.ErrCodeInvalidPhone, constants.ErrCodeValidationFailed:
		s.logger.Warn("Dead-lettering invalid send command", zap.String("phone", cmd.Phone), zap.Error(err))
		return err
	case constants.ErrCodePersistenceError:
		// delivered already; a retry would send it twice
		s.logger.Error("Queued message sent but not recorded",
			zap.String("phone", cmd.Phone),
			zap.String("externalID", result.ExternalID),
			zap.Error(err))
		return nil
	case constants.ErrCodeRemoteAPIError:
		if !zapi.Retryable(err) {
			s.logger.Warn("Dead-lettering send rejected by gateway", zap.String("phone", cmd.Phone), zap.Error(err))
			return err
		}
	}

	s.logger.Warn("Retrying send command later", zap.String("phone", cmd.Phone), zap.Error(err))
	return mq.Temporary(err)
}
