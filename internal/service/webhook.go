package service

import (
	"context"

	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/inbound"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"go.uber.org/zap"
)

const deliveryStatusFailed = "failed"

type WebhookService interface {
	MessageReceived(ctx context.Context, payload inbound.Payload) (*model.MessageHistory, error)
	MessageStatus(ctx context.Context, payload inbound.Payload) (int, error)
	MessageSent(ctx context.Context, payload inbound.Payload) (int, error)
	ConnectionChanged(ctx context.Context, payload inbound.Payload, fallback bool) bool
	ChatPresence(ctx context.Context, payload inbound.Payload) (inbound.PresenceEvent, bool)
}

type webhook struct {
	history             HistoryService
	contacts            ContactService
	gateway             GatewayService
	metrics             *metrics.Metrics
	logger              *zap.Logger
	markActiveOnReceive bool
}

func NewWebhookService(history HistoryService, contacts ContactService, gateway GatewayService,
	metrics *metrics.Metrics, logger *zap.Logger, config *config.Config) WebhookService {
	return &webhook{
		history:             history,
		contacts:            contacts,
		gateway:             gateway,
		metrics:             metrics,
		logger:              logger,
		markActiveOnReceive: config.History.MarkActiveOnReceive,
	}
}

// MessageReceived stores the message. A reply from a contact marks it
// active; echoes of our own messages do not.
func (w *webhook) MessageReceived(ctx context.Context, payload inbound.Payload) (*model.MessageHistory, error) {
	record, err := w.history.AppendReceived(ctx, payload)
	if err != nil || record == nil {
		return nil, err
	}

	if !w.markActiveOnReceive || payload.FromMe() {
		return record, nil
	}

	if _, err := w.contacts.MarkActive(ctx, record.Phone); err != nil {
		w.logger.Error("Failed to mark sender active",
			zap.String("phone", record.Phone),
			zap.Int64("historyID", record.ID),
			zap.Error(err))
	}

	return record, nil
}

// MessageStatus applies a delivery status to every referenced message and
// returns how many records changed. Unknown ids are ignored.
func (w *webhook) MessageStatus(ctx context.Context, payload inbound.Payload) (int, error) {
	event, ok := inbound.ParseStatus(payload)
	if !ok {
		w.logger.Warn("Status callback without status or message id")
		w.metrics.RecordStatusUpdate("invalid")
		return 0, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidStatusEvent)
	}

	return w.applyStatus(ctx, event.ExternalIDs, event.Status), nil
}

// MessageSent only records failures; a successful send already stored
// its record with status sent.
func (w *webhook) MessageSent(ctx context.Context, payload inbound.Payload) (int, error) {
	event, ok := inbound.ParseSent(payload)
	if !ok {
		w.logger.Warn("Send callback without message id")
		return 0, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidStatusEvent)
	}

	if event.Error == "" {
		w.logger.Debug("Gateway confirmed send", zap.String("externalID", event.ExternalID))
		return 0, nil
	}

	w.logger.Warn("Gateway reported send failure",
		zap.String("externalID", event.ExternalID),
		zap.String("phone", event.Phone),
		zap.String("error", event.Error))

	return w.applyStatus(ctx, []string{event.ExternalID}, deliveryStatusFailed), nil
}

func (w *webhook) ConnectionChanged(ctx context.Context, payload inbound.Payload, fallback bool) bool {
	connected := fallback
	if event, ok := inbound.ParseConnection(payload); ok {
		connected = event.Connected
	}

	w.gateway.SetConnected(connected)
	w.logger.Info("Gateway connection changed", zap.Bool("connected", connected))

	return connected
}

func (w *webhook) ChatPresence(ctx context.Context, payload inbound.Payload) (inbound.PresenceEvent, bool) {
	event, ok := inbound.ParsePresence(payload)
	if !ok {
		w.logger.Debug("Presence callback without phone")
		return event, false
	}

	w.logger.Debug("Chat presence",
		zap.String("phone", event.Phone),
		zap.String("status", event.Status),
		zap.Bool("online", event.Online))

	return event, true
}

func (w *webhook) applyStatus(ctx context.Context, externalIDs []string, status string) int {
	updated := 0

	for _, id := range externalIDs {
		record, err := w.history.UpdateStatus(ctx, id, status)
		switch {
		case err != nil:
			w.metrics.RecordStatusUpdate("failed")
			w.logger.Error("Failed to apply delivery status",
				zap.String("externalID", id),
				zap.String("status", status),
				zap.Error(err))
		case record == nil:
			w.metrics.RecordStatusUpdate("unknown")
		default:
			updated++
			w.metrics.RecordStatusUpdate("updated")
		}
	}

	return updated
}
