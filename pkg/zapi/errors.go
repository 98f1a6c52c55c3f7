package zapi

import (
	"errors"
	"net/http"
)

const (
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeInvalidPhone  = "INVALID_PHONE"
	ErrCodeTimeout       = "TIMEOUT"
	ErrCodeNetworkError  = "NETWORK_ERROR"
	ErrCodeServerError   = "SERVER_ERROR"
	ErrCodeInvalidResult = "INVALID_RESPONSE"
	ErrCodeUnsupported   = "UNSUPPORTED_MEDIA"
)

var (
	ErrUnauthorized     = errors.New(ErrCodeUnauthorized)
	ErrInvalidPhone     = errors.New(ErrCodeInvalidPhone)
	ErrTimeout          = errors.New(ErrCodeTimeout)
	ErrNetwork          = errors.New(ErrCodeNetworkError)
	ErrServerError      = errors.New(ErrCodeServerError)
	ErrInvalidResult    = errors.New(ErrCodeInvalidResult)
	ErrUnsupportedMedia = errors.New(ErrCodeUnsupported)
)

var statusErrorMap = map[int]error{
	http.StatusUnauthorized: ErrUnauthorized,
	http.StatusForbidden:    ErrUnauthorized,
	http.StatusBadRequest:   ErrInvalidPhone,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}

// Retryable reports whether another attempt could succeed. An unreadable
// answer to an accepted request is final: the gateway may already have
// delivered the message.
func Retryable(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidPhone),
		errors.Is(err, ErrInvalidResult),
		errors.Is(err, ErrUnsupportedMedia):
		return false
	}
	return true
}

func isSuccess(statusCode int) bool {
	return statusCode == http.StatusOK || statusCode == http.StatusCreated || statusCode == http.StatusAccepted
}
