package clint

import (
	"errors"
	"net/http"
)

const (
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeTimeout         = "TIMEOUT"
	ErrCodeServerError     = "SERVER_ERROR"
	ErrCodeInvalidResponse = "INVALID_RESPONSE"
)

var (
	ErrUnauthorized    = errors.New(ErrCodeUnauthorized)
	ErrNotFound        = errors.New(ErrCodeNotFound)
	ErrBadRequest      = errors.New(ErrCodeBadRequest)
	ErrTimeout         = errors.New(ErrCodeTimeout)
	ErrServerError     = errors.New(ErrCodeServerError)
	ErrInvalidResponse = errors.New(ErrCodeInvalidResponse)
)

var statusErrorMap = map[int]error{
	http.StatusUnauthorized: ErrUnauthorized,
	http.StatusNotFound:     ErrNotFound,
	http.StatusBadRequest:   ErrBadRequest,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}
