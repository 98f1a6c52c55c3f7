package inbound

import (
	"strings"
	"time"

	"github.com/Behyna/whatsapp-relay/pkg/phone"
)

type StatusEvent struct {
	Status      string
	ExternalIDs []string
	Phone       string
}

// ParseStatus reads a delivery status callback. The gateway reports either
// a single messageId or a batch under ids.
func ParseStatus(p Payload) (StatusEvent, bool) {
	status := strings.ToLower(strings.TrimSpace(p.str("status")))
	if status == "" {
		return StatusEvent{}, false
	}

	ids := stringList(p["ids"])
	if id := strings.TrimSpace(p.str("messageId")); id != "" {
		ids = append([]string{id}, ids...)
	}

	if len(ids) == 0 {
		return StatusEvent{}, false
	}

	return StatusEvent{Status: status, ExternalIDs: ids, Phone: phone.ToStorage(p.str("phone"))}, true
}

type ConnectionEvent struct {
	Connected bool
	Status    string
}

func ParseConnection(p Payload) (ConnectionEvent, bool) {
	if _, ok := p["connected"]; !ok {
		return ConnectionEvent{}, false
	}
	return ConnectionEvent{Connected: p.boolean("connected"), Status: p.str("status")}, true
}

type PresenceEvent struct {
	Phone    string
	Online   bool
	Status   string
	LastSeen *time.Time
}

func ParsePresence(p Payload) (PresenceEvent, bool) {
	number := phone.ToStorage(p.str("phone"))
	if number == "" {
		return PresenceEvent{}, false
	}

	event := PresenceEvent{Phone: number, Status: strings.ToUpper(p.str("status"))}

	source := p
	if nested, ok := p.object("presence"); ok {
		source = Payload(nested)
		event.Online = source.boolean("isOnline")
	} else {
		event.Online = event.Status == "AVAILABLE" || event.Status == "COMPOSING" || event.Status == "RECORDING"
	}

	if seen, ok := source.millis("lastSeen"); ok {
		event.LastSeen = &seen
	}

	return event, true
}

// SentEvent is the callback the gateway fires once an outbound message
// left the device, or failed to.
type SentEvent struct {
	ExternalID string
	Phone      string
	Error      string
}

func ParseSent(p Payload) (SentEvent, bool) {
	id := strings.TrimSpace(p.str("messageId"))
	if id == "" {
		id = strings.TrimSpace(p.str("zaapId"))
	}
	if id == "" {
		return SentEvent{}, false
	}

	return SentEvent{
		ExternalID: id,
		Phone:      phone.ToStorage(p.str("phone")),
		Error:      strings.TrimSpace(p.str("error")),
	}, true
}
