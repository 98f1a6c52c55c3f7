package service

import (
	"context"
	"strings"

	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/pkg/phone"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SendQueue hands a send to the queue worker instead of running it inline.
type SendQueue interface {
	EnqueueSend(ctx context.Context, cmd SendTextCommand) error
}

type BulkService interface {
	SendToContacts(ctx context.Context, cmd BulkSendCommand) (BulkResult, error)
	Enqueue(ctx context.Context, cmd BulkSendCommand) (BulkResult, error)
}

type bulk struct {
	contacts ContactService
	sender   SendService
	gateway  GatewayService
	queue    SendQueue
	metrics  *metrics.Metrics
	logger   *zap.Logger
	limit    rate.Limit
	burst    int
}

// NewBulkService accepts a nil queue; Enqueue then fails with QUEUE_UNAVAILABLE.
func NewBulkService(contacts ContactService, sender SendService, gateway GatewayService, queue SendQueue,
	metrics *metrics.Metrics, logger *zap.Logger, config *config.Config) BulkService {
	limit := rate.Inf
	if config.Bulk.RatePerSecond > 0 {
		limit = rate.Limit(config.Bulk.RatePerSecond)
	}

	return &bulk{
		contacts: contacts,
		sender:   sender,
		gateway:  gateway,
		queue:    queue,
		metrics:  metrics,
		logger:   logger,
		limit:    limit,
		burst:    max(config.Bulk.Burst, 1),
	}
}

func (b *bulk) SendToContacts(ctx context.Context, cmd BulkSendCommand) (BulkResult, error) {
	recipients, result, err := b.recipients(ctx, cmd)
	if err != nil {
		return result, err
	}

	if !b.gateway.IsConnected(ctx) {
		b.logger.Warn("Bulk send aborted, gateway disconnected", zap.Int("recipients", len(recipients)))
		return result, NewServiceError(constants.ErrCodeGatewayDisconnected, ErrGatewayDisconnected)
	}

	limiter := rate.NewLimiter(b.limit, b.burst)

	for _, recipient := range recipients {
		if err := limiter.Wait(ctx); err != nil {
			b.logger.Warn("Bulk send interrupted",
				zap.Int("sent", result.Sent),
				zap.Int("remaining", result.Total-result.Sent-result.Failed-result.Skipped),
				zap.Error(err))
			return result, err
		}

		sent, err := b.sender.SendText(ctx, SendTextCommand{Phone: recipient.Phone, Body: cmd.Body})
		switch {
		case err == nil, sent.ExternalID != "":
			result.Sent++
			b.metrics.RecordBulkMessage("sent")
		default:
			result.Failed++
			result.Failures = append(result.Failures, BulkFailure{Phone: recipient.Phone, Reason: err.Error()})
			b.metrics.RecordBulkMessage("failed")
			b.logger.Warn("Bulk send to contact failed", zap.String("phone", recipient.Phone), zap.Error(err))
		}
	}

	b.logger.Info("Bulk send finished",
		zap.Int("total", result.Total),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped))

	return result, nil
}

func (b *bulk) Enqueue(ctx context.Context, cmd BulkSendCommand) (BulkResult, error) {
	if b.queue == nil {
		return BulkResult{}, NewServiceError(constants.ErrCodeQueueUnavailable, ErrQueueUnavailable)
	}

	recipients, result, err := b.recipients(ctx, cmd)
	if err != nil {
		return result, err
	}

	for _, recipient := range recipients {
		err := b.queue.EnqueueSend(ctx, SendTextCommand{Phone: recipient.Phone, Body: cmd.Body})
		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, BulkFailure{Phone: recipient.Phone, Reason: err.Error()})
			b.metrics.RecordBulkMessage("enqueue_failed")
			b.logger.Warn("Failed to enqueue send", zap.String("phone", recipient.Phone), zap.Error(err))
			continue
		}

		result.Queued++
		b.metrics.RecordBulkMessage("queued")
	}

	b.logger.Info("Bulk send queued",
		zap.Int("total", result.Total),
		zap.Int("queued", result.Queued),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped))

	return result, nil
}

// recipients lists the contacts matching cmd.Status and drops the ones
// that must not be messaged, counting them as skipped.
func (b *bulk) recipients(ctx context.Context, cmd BulkSendCommand) ([]model.Contact, BulkResult, error) {
	result := BulkResult{Failures: []BulkFailure{}}

	if strings.TrimSpace(cmd.Body) == "" {
		return nil, result, NewServiceError(constants.ErrCodeValidationFailed, ErrEmptyBody)
	}

	contacts, err := b.contacts.List(ctx, cmd.Status)
	if err != nil {
		return nil, result, err
	}

	result.Total = len(contacts)

	recipients := make([]model.Contact, 0, len(contacts))
	for _, c := range contacts {
		if c.Status == model.ContactStatusDoNotDisturb || c.Status == model.ContactStatusRemoved || !phone.IsValid(c.Phone) {
			result.Skipped++
			b.metrics.RecordBulkMessage("skipped")
			continue
		}
		recipients = append(recipients, c)
	}

	return recipients, result, nil
}
