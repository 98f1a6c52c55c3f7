package v1

import (
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/scheduler"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (h *Handler) CreateSchedule(c *fiber.Ctx) error {
	if h.scheduler == nil {
		return service.NewServiceError(constants.ErrCodeSchedulerDisabled, errSchedulerOff)
	}

	var request ScheduleRequest

	responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}

	task := scheduler.Task{
		Kind:   scheduler.Kind(request.Kind),
		Phone:  request.Phone,
		Body:   request.Body,
		Status: statusPtr(request.Status),
	}

	var (
		scheduled scheduler.Task
		err       error
	)
	if request.At != nil {
		scheduled, err = h.scheduler.ScheduleAt(task, *request.At)
	} else {
		scheduled, err = h.scheduler.ScheduleCron(task, request.Cron)
	}
	if err != nil {
		h.logger.Warn("Failed to schedule task", zap.String("kind", request.Kind), zap.Error(err))
		return err
	}

	return success(c, fiber.StatusCreated, constants.TaskScheduled, scheduled)
}

func (h *Handler) ListSchedules(c *fiber.Ctx) error {
	if h.scheduler == nil {
		return service.NewServiceError(constants.ErrCodeSchedulerDisabled, errSchedulerOff)
	}

	return success(c, fiber.StatusOK, constants.TasksRetrieved, h.scheduler.List())
}

func (h *Handler) CancelSchedule(c *fiber.Ctx) error {
	if h.scheduler == nil {
		return service.NewServiceError(constants.ErrCodeSchedulerDisabled, errSchedulerOff)
	}

	var request CancelScheduleRequest

	if responseError := h.parseRequest(c, &request); responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}
	if responseError := h.XValidator.Check(&request, constants.MessageErrorFormat, c); responseError.Code != "" {
		return h.validationFailed(c, request, responseError)
	}

	if err := h.scheduler.Cancel(request.ID); err != nil {
		return err
	}

	return success(c, fiber.StatusOK, constants.TaskCancelled, fiber.Map{"id": request.ID})
}
