package v1

import (
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GatewayStatus(c *fiber.Ctx) error {
	status, err := h.gateway.Status(c.UserContext())
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, constants.GatewayRetrieved, status)
}

func (h *Handler) RestartGateway(c *fiber.Ctx) error {
	if err := h.gateway.Restart(c.UserContext()); err != nil {
		return err
	}

	return success(c, fiber.StatusAccepted, constants.GatewayRestarted, nil)
}
