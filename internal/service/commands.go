package service

import (
	"time"

	"github.com/Behyna/whatsapp-relay/internal/model"
)

type AppendSentCommand struct {
	Phone      string
	Body       string
	Kind       model.MessageKind
	ExternalID string
	Status     string
	MediaURL   string
	Timestamp  time.Time
}

type UpsertContactCommand struct {
	ExternalID string
	Name       string
	Phone      string
	Email      string
	Tags       []string
}

// SendTextCommand is also the body of a queued send.
type SendTextCommand struct {
	Phone        string `json:"phone"`
	Body         string `json:"body"`
	DelayMessage int    `json:"delay_message,omitempty"`
	DelayTyping  int    `json:"delay_typing,omitempty"`
}

type SendMediaCommand struct {
	Phone        string
	Kind         model.MessageKind
	URL          string
	Caption      string
	FileName     string
	DelayMessage int
}

type BulkSendCommand struct {
	Body   string
	Status *model.ContactStatus
}
