package service

import (
	"context"
	"strings"

	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/pkg/phone"
	"github.com/Behyna/whatsapp-relay/pkg/zapi"
	"go.uber.org/zap"
)

type SendService interface {
	SendText(ctx context.Context, cmd SendTextCommand) (SendResult, error)
	SendMedia(ctx context.Context, cmd SendMediaCommand) (SendResult, error)
}

type send struct {
	gateway  GatewayService
	history  HistoryService
	contacts ContactService
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewSendService(gateway GatewayService, history HistoryService, contacts ContactService,
	metrics *metrics.Metrics, logger *zap.Logger) SendService {
	return &send{gateway: gateway, history: history, contacts: contacts, metrics: metrics, logger: logger}
}

// SendText delivers through the gateway, then records the message and
// marks the recipient active.
func (s *send) SendText(ctx context.Context, cmd SendTextCommand) (SendResult, error) {
	if !phone.IsValid(cmd.Phone) {
		s.logger.Warn("Rejected send to invalid phone", zap.String("phone", cmd.Phone))
		s.metrics.RecordMessageSent("rejected")
		return SendResult{}, NewServiceError(constants.ErrCodeInvalidPhone, ErrInvalidPhone)
	}

	if strings.TrimSpace(cmd.Body) == "" {
		s.logger.Warn("Rejected send with empty body", zap.String("phone", cmd.Phone))
		s.metrics.RecordMessageSent("rejected")
		return SendResult{}, NewServiceError(constants.ErrCodeValidationFailed, ErrEmptyBody)
	}

	number := phone.ToStorage(cmd.Phone)

	response, err := s.gateway.SendText(ctx, zapi.SendTextRequest{
		Phone:        phone.ToGateway(cmd.Phone),
		Message:      cmd.Body,
		DelayMessage: cmd.DelayMessage,
		DelayTyping:  cmd.DelayTyping,
	})
	if err != nil {
		s.metrics.RecordMessageSent("failed")
		s.logger.Warn("Gateway send failed", zap.String("phone", number), zap.Error(err))
		return SendResult{Phone: number}, NewServiceError(constants.ErrCodeRemoteAPIError, err)
	}

	s.metrics.RecordMessageSent("sent")

	return s.record(ctx, response, AppendSentCommand{
		Phone:      cmd.Phone,
		Body:       cmd.Body,
		Kind:       model.MessageKindText,
		ExternalID: response.MessageID,
		Status:     model.DeliveryStatusSent,
	})
}

// SendMedia delivers an image, audio, video or document by URL with the
// same bookkeeping as SendText. The caption becomes the recorded body.
func (s *send) SendMedia(ctx context.Context, cmd SendMediaCommand) (SendResult, error) {
	if !phone.IsValid(cmd.Phone) {
		s.logger.Warn("Rejected media send to invalid phone", zap.String("phone", cmd.Phone))
		s.metrics.RecordMessageSent("rejected")
		return SendResult{}, NewServiceError(constants.ErrCodeInvalidPhone, ErrInvalidPhone)
	}

	kind := zapi.MediaKind(cmd.Kind)
	if !kind.Valid() {
		s.metrics.RecordMessageSent("rejected")
		return SendResult{}, NewServiceError(constants.ErrCodeValidationFailed, ErrUnsupportedMedia)
	}

	if strings.TrimSpace(cmd.URL) == "" {
		s.metrics.RecordMessageSent("rejected")
		return SendResult{}, NewServiceError(constants.ErrCodeValidationFailed, ErrEmptyMedia)
	}

	number := phone.ToStorage(cmd.Phone)

	response, err := s.gateway.SendMedia(ctx, zapi.SendMediaRequest{
		Kind:         kind,
		Phone:        phone.ToGateway(cmd.Phone),
		URL:          cmd.URL,
		Caption:      cmd.Caption,
		FileName:     cmd.FileName,
		DelayMessage: cmd.DelayMessage,
	})
	if err != nil {
		s.metrics.RecordMessageSent("failed")
		s.logger.Warn("Gateway media send failed",
			zap.String("phone", number),
			zap.String("kind", string(cmd.Kind)),
			zap.Error(err))
		return SendResult{Phone: number}, NewServiceError(constants.ErrCodeRemoteAPIError, err)
	}

	s.metrics.RecordMessageSent("sent")

	return s.record(ctx, response, AppendSentCommand{
		Phone:      cmd.Phone,
		Body:       cmd.Caption,
		Kind:       cmd.Kind,
		ExternalID: response.MessageID,
		Status:     model.DeliveryStatusSent,
		MediaURL:   cmd.URL,
	})
}

// record runs the post-delivery bookkeeping. A failure here still
// returns the external id so callers can tell the message went out.
func (s *send) record(ctx context.Context, response zapi.SendResponse, cmd AppendSentCommand) (SendResult, error) {
	number := phone.ToStorage(cmd.Phone)

	result := SendResult{
		Phone:      number,
		ExternalID: response.MessageID,
		ZaapID:     response.ZaapID,
		Status:     model.DeliveryStatusSent,
	}

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	_, err := s.contacts.EnsureContact(ctx, cmd.Phone)
	keep(err)

	record, err := s.history.AppendSent(ctx, cmd)
	keep(err)
	if record != nil {
		result.HistoryID = record.ID
	}

	_, err = s.contacts.MarkActive(ctx, cmd.Phone)
	keep(err)

	if firstErr != nil {
		s.logger.Error("Message sent but bookkeeping failed",
			zap.String("phone", number),
			zap.String("externalID", response.MessageID),
			zap.Error(firstErr))
		return result, NewServiceError(constants.ErrCodePersistenceError, firstErr)
	}

	return result, nil
}
