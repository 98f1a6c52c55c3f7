package scheduler

import (
	"errors"
	"strings"
	"time"

	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/pkg/phone"
)

type Kind string

const (
	KindMessage Kind = "message"
	KindBulk    Kind = "bulk"
	KindSync    Kind = "sync"
)

var (
	ErrTaskNotFound  = errors.New("TASK_NOT_FOUND")
	ErrUnknownKind   = errors.New("UNKNOWN_TASK_KIND")
	ErrInvalidPhone  = errors.New("INVALID_PHONE")
	ErrMissingBody   = errors.New("MISSING_BODY")
	ErrInvalidStatus = errors.New("INVALID_STATUS")
	ErrPastTrigger   = errors.New("TRIGGER_IN_PAST")
	ErrInvalidCron   = errors.New("INVALID_CRON_EXPRESSION")
)

// Task is one scheduled unit of work. Exactly one of At and Cron is set.
type Task struct {
	ID        string               `json:"id"`
	Kind      Kind                 `json:"kind"`
	Phone     string               `json:"phone,omitempty"`
	Body      string               `json:"body,omitempty"`
	Status    *model.ContactStatus `json:"status,omitempty"`
	At        *time.Time           `json:"at,omitempty"`
	Cron      string               `json:"cron,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	NextRunAt *time.Time           `json:"next_run_at,omitempty"`
	LastRunAt *time.Time           `json:"last_run_at,omitempty"`
	LastError string               `json:"last_error,omitempty"`
	Runs      int                  `json:"runs"`
}

func (t Task) oneShot() bool {
	return t.At != nil
}

func (t Task) validate() error {
	switch t.Kind {
	case KindMessage:
		if !phone.IsValid(t.Phone) {
			return ErrInvalidPhone
		}
		if strings.TrimSpace(t.Body) == "" {
			return ErrMissingBody
		}
	case KindBulk:
		if strings.TrimSpace(t.Body) == "" {
			return ErrMissingBody
		}
		if t.Status != nil && !t.Status.Valid() {
			return ErrInvalidStatus
		}
	case KindSync:
	default:
		return ErrUnknownKind
	}
	return nil
}

// once fires a single time at a fixed instant.
type once struct {
	at time.Time
}

func (o once) Next(t time.Time) time.Time {
	if t.Before(o.at) {
		return o.at
	}
	return time.Time{}
}
