package v1

import (
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/Behyna/whatsapp-relay/pkg/phone"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (h *Handler) SendMessage(c *fiber.Ctx) error {
	var request SendMessageRequest

	responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}

	cmd := service.SendTextCommand{
		Phone:        request.Phone,
		Body:         request.Body,
		DelayMessage: request.DelayMessage,
		DelayTyping:  request.DelayTyping,
	}

	result, err := h.send.SendText(c.UserContext(), cmd)
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.String("phone", request.Phone),
			zap.String("externalID", result.ExternalID),
			zap.Error(err))
		return err
	}

	h.logger.Info("Message sent",
		zap.String("phone", result.Phone),
		zap.String("externalID", result.ExternalID))

	return success(c, fiber.StatusCreated, constants.MessageSent, result)
}

func (h *Handler) SendMedia(c *fiber.Ctx) error {
	var request MediaMessageRequest

	responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}

	cmd := service.SendMediaCommand{
		Phone:        request.Phone,
		Kind:         model.MessageKind(request.Kind),
		URL:          request.URL,
		Caption:      request.Caption,
		FileName:     request.FileName,
		DelayMessage: request.DelayMessage,
	}

	result, err := h.send.SendMedia(c.UserContext(), cmd)
	if err != nil {
		h.logger.Error("Failed to send media",
			zap.String("phone", request.Phone),
			zap.String("kind", request.Kind),
			zap.Error(err))
		return err
	}

	h.logger.Info("Media sent",
		zap.String("phone", result.Phone),
		zap.String("kind", request.Kind),
		zap.String("externalID", result.ExternalID))

	return success(c, fiber.StatusCreated, constants.MessageSent, result)
}

func (h *Handler) SendBulk(c *fiber.Ctx) error {
	var request BulkMessageRequest

	responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}

	cmd := service.BulkSendCommand{Body: request.Body, Status: statusPtr(request.Status)}

	result, err := h.bulk.SendToContacts(c.UserContext(), cmd)
	if err != nil {
		h.logger.Error("Bulk send failed", zap.String("status", request.Status), zap.Error(err))
		return err
	}

	return success(c, fiber.StatusOK, constants.BulkCompleted, result)
}

func (h *Handler) QueueBulk(c *fiber.Ctx) error {
	var request BulkMessageRequest

	responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}

	cmd := service.BulkSendCommand{Body: request.Body, Status: statusPtr(request.Status)}

	result, err := h.bulk.Enqueue(c.UserContext(), cmd)
	if err != nil {
		h.logger.Error("Failed to queue bulk send", zap.String("status", request.Status), zap.Error(err))
		return err
	}

	return success(c, fiber.StatusAccepted, constants.MessagesQueued, result)
}

func (h *Handler) GetHistory(c *fiber.Ctx) error {
	var request HistoryRequest

	if responseError := h.parseRequest(c, &request); responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}
	if responseError := h.XValidator.Check(&request, constants.MessageErrorFormat, c); responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}

	messages, err := h.history.ListByPhone(c.UserContext(), request.Phone, request.Limit)
	if err != nil {
		return err
	}

	res := HistoryResponse{
		Phone:    phone.ToStorage(request.Phone),
		Messages: make([]MessageResponse, 0, len(messages)),
		Total:    len(messages),
	}
	for _, m := range messages {
		res.Messages = append(res.Messages, newMessageResponse(m))
	}

	return success(c, fiber.StatusOK, constants.HistoryRetrieved, res)
}

func (h *Handler) ClearHistory(c *fiber.Ctx) error {
	var request ClearHistoryRequest

	if responseError := h.parseRequest(c, &request); responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}
	if responseError := h.XValidator.Check(&request, constants.MessageErrorFormat, c); responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}

	var target *string
	res := ClearHistoryResponse{}
	if request.Phone != "" {
		target = &request.Phone
		res.Phone = phone.ToStorage(request.Phone)
	}

	deleted, err := h.history.Clear(c.UserContext(), target)
	if err != nil {
		return err
	}
	res.Deleted = deleted

	h.logger.Info("History cleared", zap.String("phone", res.Phone), zap.Int64("deleted", deleted))

	return success(c, fiber.StatusOK, constants.HistoryCleared, res)
}

func (h *Handler) UpdateMessageStatus(c *fiber.Ctx) error {
	var request MessageStatusRequest

	if responseError := h.parseRequest(c, &request); responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}
	if responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c); responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}

	record, err := h.history.UpdateStatus(c.UserContext(), request.MessageID, request.Status)
	if err != nil {
		return err
	}
	if record == nil {
		return service.NewServiceError(constants.ErrCodeNotFound, errNotFound)
	}

	return success(c, fiber.StatusOK, constants.StatusUpdated, newMessageResponse(*record))
}
