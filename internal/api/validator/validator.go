package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Behyna/whatsapp-relay/internal/api/contract"
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	sep = " and "
)

type Error struct {
	Error       bool
	FailedField string
	Tag         string
	Value       any
}

type IXValidator interface {
	// Validator parses the request body into data and validates it.
	Validator(data any, message string, c *fiber.Ctx) (responseErr contract.Response)
	// Check validates data that was already filled from params or query.
	Check(data any, message string, c *fiber.Ctx) (responseErr contract.Response)
	Validate(data any) []Error
}

type XValidator struct {
	validator *validator.Validate
	metrics   *metrics.Metrics
}

func NewXValidator(validator *validator.Validate, metrics *metrics.Metrics) (IXValidator, error) {
	validator.RegisterTagNameFunc(jsonName)

	for key, function := range valid {
		if err := validator.RegisterValidation(key, function); err != nil {
			return nil, fmt.Errorf("failed to register %q validation: %w", key, err)
		}
	}

	return &XValidator{
		validator: validator,
		metrics:   metrics,
	}, nil
}

func (x XValidator) Validator(data any, message string, c *fiber.Ctx) (responseErr contract.Response) {
	if err := c.App().Config().JSONDecoder(c.Body(), data); err != nil {
		c.Status(constants.GetHTTPStatus(constants.ErrCodeInvalidRequestBody))
		return contract.Response{
			Code:    constants.ErrCodeInvalidRequestBody,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidRequestBody),
		}
	}

	return x.Check(data, message, c)
}

func (x XValidator) Check(data any, message string, c *fiber.Ctx) (responseErr contract.Response) {
	errs := x.Validate(data)
	if len(errs) == 0 || !errs[0].Error {
		return responseErr
	}

	errMsgs := make([]string, 0, len(errs))
	for _, err := range errs {
		errMsgs = append(errMsgs, fmt.Sprintf(message, err.FailedField))

		if x.metrics != nil {
			x.metrics.RecordValidationError(err.FailedField, err.Tag)
		}
	}

	c.Status(constants.GetHTTPStatus(constants.ErrCodeValidationFailed))

	return contract.Response{
		Code:    "1",
		Message: strings.Join(errMsgs, sep),
	}
}

func (x XValidator) Validate(data any) []Error {
	var validationErrors []Error

	err := x.validator.Struct(data)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []Error{{Error: true, FailedField: "request", Tag: "invalid"}}
	}

	for _, err := range errs {
		validationErrors = append(validationErrors, Error{
			Error:       true,
			FailedField: err.Field(),
			Tag:         err.Tag(),
			Value:       err.Value(),
		})
	}
	return validationErrors
}

// jsonName reports fields by their wire name.
func jsonName(field reflect.StructField) string {
	for _, tag := range []string{"json", "query", "params"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}
