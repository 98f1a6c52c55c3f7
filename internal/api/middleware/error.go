package middleware

import (
	"errors"

	"github.com/Behyna/whatsapp-relay/internal/api/contract"
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return handleFiberError(c, fiberErr)
		}

		logger.Error("Unhandled request error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))

		return writeError(c, fiber.StatusInternalServerError, constants.ErrCodeInternalError)
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error) error {
	errorCode := err.Code

	status := err.HTTPStatus()
	if status == fiber.StatusInternalServerError && errorCode != constants.ErrCodePersistenceError {
		errorCode = constants.ErrCodeInternalError
	}

	return writeError(c, status, errorCode)
}

func handleFiberError(c *fiber.Ctx, err *fiber.Error) error {
	code := constants.ErrCodeInternalError
	switch {
	case err.Code == fiber.StatusNotFound:
		code = constants.ErrCodeNotFound
	case err.Code < fiber.StatusInternalServerError:
		code = constants.ErrCodeInvalidRequestBody
	}

	return writeError(c, err.Code, code)
}

func writeError(c *fiber.Ctx, status int, code string) error {
	return c.Status(status).JSON(contract.Response{
		Code:    code,
		Message: constants.GetErrorMessage(code),
		TrackID: c.GetRespHeader(fiber.HeaderXRequestID),
	})
}
