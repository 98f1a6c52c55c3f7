package v1

import (
	"crypto/subtle"
	"errors"

	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/inbound"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const clientTokenHeader = "Client-Token"

var errInvalidPayload = errors.New("INVALID_WEBHOOK_PAYLOAD")

// WebhookAuth rejects callbacks whose Client-Token does not match the
// configured token. An empty token disables the check.
func (h *Handler) WebhookAuth(c *fiber.Ctx) error {
	if h.webhookToken == "" {
		return c.Next()
	}

	token := c.Get(clientTokenHeader)
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.webhookToken)) != 1 {
		h.logger.Warn("Webhook rejected",
			zap.String("path", c.Path()),
			zap.Bool("tokenPresent", token != ""))
		return service.NewServiceError(constants.ErrCodeUnauthorized, errInvalidClientKey)
	}

	return c.Next()
}

func (h *Handler) OnReceive(c *fiber.Ctx) error {
	payload, err := h.payload(c)
	if err != nil {
		return err
	}

	record, err := h.webhook.MessageReceived(c.UserContext(), payload)
	if err != nil {
		return err
	}
	if record == nil {
		return c.JSON(WebhookResponse{Status: constants.WebhookIgnored})
	}

	return c.JSON(WebhookResponse{Status: constants.WebhookReceived, HistoryID: record.ID})
}

func (h *Handler) OnMessageStatus(c *fiber.Ctx) error {
	payload, err := h.payload(c)
	if err != nil {
		return err
	}

	updated, err := h.webhook.MessageStatus(c.UserContext(), payload)
	if err != nil {
		return err
	}

	return c.JSON(WebhookResponse{Status: constants.WebhookReceived, Updated: updated})
}

func (h *Handler) OnSend(c *fiber.Ctx) error {
	payload, err := h.payload(c)
	if err != nil {
		return err
	}

	updated, err := h.webhook.MessageSent(c.UserContext(), payload)
	if err != nil {
		return err
	}

	return c.JSON(WebhookResponse{Status: constants.WebhookReceived, Updated: updated})
}

func (h *Handler) OnConnect(c *fiber.Ctx) error {
	return h.connection(c, true)
}

func (h *Handler) OnDisconnect(c *fiber.Ctx) error {
	return h.connection(c, false)
}

func (h *Handler) OnChatPresence(c *fiber.Ctx) error {
	payload, err := h.payload(c)
	if err != nil {
		return err
	}

	if _, ok := h.webhook.ChatPresence(c.UserContext(), payload); !ok {
		return c.JSON(WebhookResponse{Status: constants.WebhookIgnored})
	}

	return c.JSON(WebhookResponse{Status: constants.WebhookReceived})
}

func (h *Handler) connection(c *fiber.Ctx, fallback bool) error {
	payload, err := h.payload(c)
	if err != nil {
		return err
	}

	connected := h.webhook.ConnectionChanged(c.UserContext(), payload, fallback)

	return c.JSON(WebhookResponse{Status: constants.WebhookReceived, Connected: &connected})
}

// payload decodes a callback body. An empty body is an empty payload.
func (h *Handler) payload(c *fiber.Ctx) (inbound.Payload, error) {
	body := c.Body()
	if len(body) == 0 {
		return inbound.Payload{}, nil
	}

	var payload inbound.Payload
	if err := c.App().Config().JSONDecoder(body, &payload); err != nil {
		h.logger.Warn("Failed to decode webhook payload",
			zap.String("path", c.Path()),
			zap.Error(err))
		return nil, service.NewServiceError(constants.ErrCodeInvalidRequestBody, errInvalidPayload)
	}
	if payload == nil {
		return inbound.Payload{}, nil
	}

	return payload, nil
}
