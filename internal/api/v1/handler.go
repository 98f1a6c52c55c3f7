package v1

import (
	"errors"
	"time"

	"github.com/Behyna/whatsapp-relay/internal/api/contract"
	"github.com/Behyna/whatsapp-relay/internal/api/validator"
	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/internal/scheduler"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var (
	errNotFound         = errors.New("NOT_FOUND")
	errSchedulerOff     = errors.New("SCHEDULER_DISABLED")
	errInvalidClientKey = errors.New("INVALID_CLIENT_TOKEN")
)

// Scheduler is the part of the background scheduler the API drives.
type Scheduler interface {
	ScheduleAt(task scheduler.Task, at time.Time) (scheduler.Task, error)
	ScheduleCron(task scheduler.Task, spec string) (scheduler.Task, error)
	Cancel(id string) error
	List() []scheduler.Task
}

type Handler struct {
	logger       *zap.Logger
	send         service.SendService
	bulk         service.BulkService
	history      service.HistoryService
	contacts     service.ContactService
	syncer       service.SyncService
	gateway      service.GatewayService
	webhook      service.WebhookService
	scheduler    Scheduler
	XValidator   validator.IXValidator
	metrics      *metrics.Metrics
	webhookToken string
}

// NewHandler accepts a nil scheduler; the schedule endpoints then answer
// SCHEDULER_DISABLED.
func NewHandler(logger *zap.Logger, send service.SendService, bulk service.BulkService,
	history service.HistoryService, contacts service.ContactService, syncer service.SyncService,
	gateway service.GatewayService, webhook service.WebhookService, scheduler Scheduler,
	XValidator validator.IXValidator, metrics *metrics.Metrics, config *config.Config) *Handler {
	if config.API.WebhookToken == "" {
		logger.Warn("api.webhook_token is empty, gateway webhooks are accepted without a Client-Token check")
	}

	return &Handler{
		logger:       logger,
		send:         send,
		bulk:         bulk,
		history:      history,
		contacts:     contacts,
		syncer:       syncer,
		gateway:      gateway,
		webhook:      webhook,
		scheduler:    scheduler,
		XValidator:   XValidator,
		metrics:      metrics,
		webhookToken: config.API.WebhookToken,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) validationFailed(c *fiber.Ctx, request any, responseError contract.Response) error {
	h.logger.Warn("Error Validator",
		zap.Any("request", request),
		zap.String("reason", responseError.Message))

	if responseError.Code != constants.ErrCodeInvalidRequestBody {
		responseError.Code = constants.ErrCodeValidationFailed
	}
	responseError.TrackID = trackID(c)

	return c.JSON(responseError)
}

// parseRequest fills path and query fields; body fields are decoded by the
// validator.
func (h *Handler) parseRequest(c *fiber.Ctx, request any) contract.Response {
	if err := c.ParamsParser(request); err != nil {
		return invalidBody(c)
	}
	if err := c.QueryParser(request); err != nil {
		return invalidBody(c)
	}
	return contract.Response{}
}

func invalidBody(c *fiber.Ctx) contract.Response {
	c.Status(constants.GetHTTPStatus(constants.ErrCodeInvalidRequestBody))
	return contract.Response{
		Code:    constants.ErrCodeInvalidRequestBody,
		Message: constants.GetErrorMessage(constants.ErrCodeInvalidRequestBody),
	}
}

func success(c *fiber.Ctx, status int, message string, result any) error {
	return c.Status(status).JSON(contract.Response{
		Successful: true,
		Code:       constants.ResponseCodeSuccess,
		Message:    message,
		TrackID:    trackID(c),
		Result:     result,
	})
}

func trackID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

func statusPtr(status string) *model.ContactStatus {
	if status == "" {
		return nil
	}
	s := model.ContactStatus(status)
	return &s
}
