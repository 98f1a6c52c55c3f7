package v1

import (
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (h *Handler) ListContacts(c *fiber.Ctx) error {
	var request ListContactsRequest

	if responseError := h.parseRequest(c, &request); responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}
	if responseError := h.XValidator.Check(&request, constants.MessageErrorFormat, c); responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}

	contacts, err := h.contacts.List(c.UserContext(), statusPtr(request.Status))
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, constants.ContactsRetrieved, newContactsResponse(contacts))
}

func (h *Handler) GetContact(c *fiber.Ctx) error {
	var request ContactRequest

	if responseError := h.parseRequest(c, &request); responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}
	if responseError := h.XValidator.Check(&request, constants.MessageErrorFormat, c); responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}

	contact, err := h.contacts.GetByPhone(c.UserContext(), request.Phone)
	if err != nil {
		return err
	}
	if contact == nil {
		return service.NewServiceError(constants.ErrCodeNotFound, errNotFound)
	}

	return success(c, fiber.StatusOK, constants.ContactRetrieved, newContactResponse(*contact))
}

func (h *Handler) UpdateContactStatus(c *fiber.Ctx) error {
	var request ContactStatusRequest

	if responseError := h.parseRequest(c, &request); responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}
	if responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c); responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}

	contact, err := h.contacts.SetStatus(c.UserContext(), request.Phone, model.ContactStatus(request.Status))
	if err != nil {
		return err
	}
	if contact == nil {
		return service.NewServiceError(constants.ErrCodeNotFound, errNotFound)
	}

	h.logger.Info("Contact status updated",
		zap.String("phone", contact.Phone),
		zap.String("status", request.Status))

	return success(c, fiber.StatusOK, constants.StatusUpdated, newContactResponse(*contact))
}

func (h *Handler) SyncContacts(c *fiber.Ctx) error {
	result, err := h.syncer.Sync(c.UserContext())
	if err != nil {
		h.logger.Error("Contact sync failed",
			zap.Int("fetched", result.Fetched),
			zap.Error(err))
		return err
	}

	return success(c, fiber.StatusOK, constants.SyncCompleted, result)
}
