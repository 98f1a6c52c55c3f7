package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/inbound"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/internal/repository"
	"github.com/Behyna/whatsapp-relay/pkg/phone"
	"go.uber.org/zap"
)

type HistoryService interface {
	AppendSent(ctx context.Context, cmd AppendSentCommand) (*model.MessageHistory, error)
	AppendReceived(ctx context.Context, payload inbound.Payload) (*model.MessageHistory, error)
	ListByPhone(ctx context.Context, phone string, limit int) ([]model.MessageHistory, error)
	UpdateStatus(ctx context.Context, externalID, status string) (*model.MessageHistory, error)
	Clear(ctx context.Context, phone *string) (int64, error)
}

type history struct {
	historyRepo  repository.MessageHistoryRepository
	txManager    repository.TxManager
	normalizer   *inbound.Normalizer
	metrics      *metrics.Metrics
	logger       *zap.Logger
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

func NewHistoryService(historyRepo repository.MessageHistoryRepository, txManager repository.TxManager,
	normalizer *inbound.Normalizer, metrics *metrics.Metrics, logger *zap.Logger, config *config.Config) HistoryService {
	return &history{
		historyRepo:  historyRepo,
		txManager:    txManager,
		normalizer:   normalizer,
		metrics:      metrics,
		logger:       logger,
		defaultLimit: config.History.DefaultLimit,
		maxLimit:     config.History.MaxLimit,
		now:          time.Now,
	}
}

func (h *history) AppendSent(ctx context.Context, cmd AppendSentCommand) (*model.MessageHistory, error) {
	if !phone.IsValid(cmd.Phone) {
		h.logger.Warn("Rejected sent record with invalid phone", zap.String("phone", cmd.Phone))
		return nil, NewServiceError(constants.ErrCodeInvalidPhone, ErrInvalidPhone)
	}

	if strings.TrimSpace(cmd.Body) == "" && cmd.MediaURL == "" {
		h.logger.Warn("Rejected sent record without content", zap.String("phone", cmd.Phone))
		return nil, NewServiceError(constants.ErrCodeValidationFailed, ErrEmptyBody)
	}

	record := &model.MessageHistory{
		ExternalMessageID: optional(cmd.ExternalID),
		Phone:             phone.ToStorage(cmd.Phone),
		Direction:         model.DirectionSent,
		Body:              cmd.Body,
		Kind:              cmd.Kind,
		Status:            cmd.Status,
		MediaURL:          optional(cmd.MediaURL),
		Timestamp:         cmd.Timestamp,
		CreatedAt:         h.now(),
	}

	if record.Kind == "" {
		record.Kind = model.MessageKindText
	}
	if record.Status == "" {
		record.Status = model.DeliveryStatusSent
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = record.CreatedAt
	}

	if err := h.insert(ctx, record); err != nil {
		return nil, err
	}

	h.logger.Info("Sent message recorded",
		zap.Int64("historyID", record.ID),
		zap.String("phone", record.Phone),
		zap.String("externalID", cmd.ExternalID))

	return record, nil
}

func (h *history) AppendReceived(ctx context.Context, payload inbound.Payload) (*model.MessageHistory, error) {
	msg, err := h.normalizer.Normalize(payload)
	if errors.Is(err, inbound.ErrEmptyPayload) {
		h.logger.Warn("Inbound payload carries no content, skipping",
			zap.String("messageID", stringValue(payload["messageId"])))
		h.metrics.RecordMessageRejected("empty_payload")
		return nil, nil
	}

	if err != nil {
		h.logger.Warn("Inbound payload rejected", zap.Error(err))
		h.metrics.RecordMessageRejected("missing_phone")
		return nil, NewServiceError(constants.ErrCodeInvalidPhone, err)
	}

	record := &model.MessageHistory{
		ExternalMessageID: optional(msg.ExternalID),
		Phone:             msg.Phone,
		Direction:         model.DirectionReceived,
		Body:              msg.Body,
		Kind:              msg.Kind,
		Status:            model.DeliveryStatusReceived,
		MediaURL:          optional(msg.MediaURL),
		Timestamp:         msg.Timestamp,
		CreatedAt:         h.now(),
	}

	if err := h.insert(ctx, record); err != nil {
		return nil, err
	}

	h.metrics.RecordMessageReceived(string(record.Kind))
	h.logger.Info("Received message recorded",
		zap.Int64("historyID", record.ID),
		zap.String("phone", record.Phone),
		zap.String("kind", string(record.Kind)),
		zap.String("shape", msg.Shape))

	return record, nil
}

func (h *history) ListByPhone(ctx context.Context, raw string, limit int) ([]model.MessageHistory, error) {
	if limit <= 0 {
		limit = h.defaultLimit
	}
	if h.maxLimit > 0 && limit > h.maxLimit {
		limit = h.maxLimit
	}

	number := phone.ToStorage(raw)
	messages, err := h.historyRepo.ListByPhone(ctx, number, limit)
	if err != nil {
		h.logger.Error("Failed to list message history", zap.String("phone", number), zap.Error(err))
		return nil, NewServiceError(constants.ErrCodePersistenceError, err)
	}

	return messages, nil
}

// UpdateStatus returns nil without error when no record carries externalID.
func (h *history) UpdateStatus(ctx context.Context, externalID, status string) (*model.MessageHistory, error) {
	var updated *model.MessageHistory

	err := h.txManager.WithTx(ctx, func(ctx context.Context) error {
		record, err := h.historyRepo.GetByExternalID(ctx, externalID)
		if errors.Is(err, repository.ErrMessageNotFound) {
			h.logger.Info("Status update for unknown message",
				zap.String("externalID", externalID),
				zap.String("status", status))
			return nil
		}

		if err != nil {
			return err
		}

		if record.Status == status {
			updated = record
			return nil
		}

		err = h.historyRepo.UpdateStatus(ctx, record.ID, status)
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil
		}
		if err != nil {
			return err
		}

		record.Status = status
		updated = record
		return nil
	})

	if err != nil {
		h.logger.Error("Failed to update message status",
			zap.String("externalID", externalID),
			zap.Error(err))
		return nil, NewServiceError(constants.ErrCodePersistenceError, err)
	}

	return updated, nil
}

// Clear removes the history of one phone, or of every phone when raw is nil.
func (h *history) Clear(ctx context.Context, raw *string) (int64, error) {
	var (
		deleted int64
		err     error
	)

	if raw == nil {
		deleted, err = h.historyRepo.DeleteAll(ctx)
	} else {
		deleted, err = h.historyRepo.DeleteByPhone(ctx, phone.ToStorage(*raw))
	}

	if err != nil {
		h.logger.Error("Failed to clear message history", zap.Error(err))
		return 0, NewServiceError(constants.ErrCodePersistenceError, err)
	}

	h.logger.Info("Message history cleared", zap.Int64("deleted", deleted), zap.Bool("global", raw == nil))

	return deleted, nil
}

func (h *history) insert(ctx context.Context, record *model.MessageHistory) error {
	err := h.txManager.WithTx(ctx, func(ctx context.Context) error {
		return h.historyRepo.Create(ctx, record)
	})
	if err != nil {
		h.logger.Error("Failed to insert message history",
			zap.String("phone", record.Phone),
			zap.String("direction", string(record.Direction)),
			zap.Error(err))
		return NewServiceError(constants.ErrCodePersistenceError, err)
	}

	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
