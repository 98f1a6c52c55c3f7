package service

import (
	"errors"

	"github.com/Behyna/whatsapp-relay/internal/constants"
)

var (
	ErrInvalidPhone        = errors.New("INVALID_PHONE")
	ErrEmptyBody           = errors.New("EMPTY_BODY")
	ErrEmptyMedia          = errors.New("EMPTY_MEDIA")
	ErrUnsupportedMedia    = errors.New("UNSUPPORTED_MEDIA")
	ErrInvalidStatus       = errors.New("INVALID_STATUS")
	ErrInvalidStatusEvent  = errors.New("INVALID_STATUS_EVENT")
	ErrGatewayDisconnected = errors.New("GATEWAY_DISCONNECTED")
	ErrQueueUnavailable    = errors.New("QUEUE_UNAVAILABLE")
	ErrSyncInProgress      = errors.New("SYNC_IN_PROGRESS")
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus is the status the error middleware answers with.
func (e Error) HTTPStatus() int {
	return constants.GetHTTPStatus(e.Code)
}
