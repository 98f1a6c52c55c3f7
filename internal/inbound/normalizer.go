package inbound

import (
	"errors"
	"strings"
	"time"

	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/pkg/phone"
)

var (
	ErrEmptyPayload = errors.New("EMPTY_PAYLOAD")
	ErrMissingPhone = errors.New("MISSING_PHONE")
)

// Message is the canonical form of one received message.
type Message struct {
	ExternalID string
	Phone      string
	Kind       model.MessageKind
	Body       string
	MediaURL   string
	Shape      string
	Timestamp  time.Time
	FromMe     bool
	IsGroup    bool
	SenderName string
}

type Normalizer struct {
	now func() time.Time
}

func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// WithClock returns a copy of the normalizer reading time from now.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

func (n *Normalizer) Normalize(p Payload) (Message, error) {
	c, shapeName := classify(p)

	if c.body == "" {
		c.body = bareText(p)
		if shapeName == "" && c.body != "" {
			c.kind, shapeName = model.MessageKindText, "bareText"
		}
	}

	if c.body == "" && c.media == "" {
		return Message{}, ErrEmptyPayload
	}

	number := phone.ToStorage(p.str("phone"))
	if number == "" {
		return Message{}, ErrMissingPhone
	}

	ts, ok := p.millis("momment", "moment")
	if !ok {
		ts = n.now()
	}

	return Message{
		ExternalID: strings.TrimSpace(p.str("messageId")),
		Phone:      number,
		Kind:       c.kind,
		Body:       c.body,
		MediaURL:   c.media,
		Shape:      shapeName,
		Timestamp:  ts,
		FromMe:     p.FromMe(),
		IsGroup:    p.boolean("isGroup"),
		SenderName: p.str("senderName"),
	}, nil
}

func classify(p Payload) (content, string) {
	for _, s := range shapes {
		if c, ok := s.match(p); ok {
			return c, s.name
		}
	}
	return content{kind: model.MessageKindText}, ""
}
