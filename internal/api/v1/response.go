package v1

import (
	"time"

	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/pkg/phone"
)

type MessageResponse struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"external_id,omitempty"`
	Phone      string    `json:"phone"`
	Direction  string    `json:"direction"`
	Body       string    `json:"body"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	MediaURL   string    `json:"media_url,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type HistoryResponse struct {
	Phone    string            `json:"phone"`
	Messages []MessageResponse `json:"messages"`
	Total    int               `json:"total"`
}

type ClearHistoryResponse struct {
	Phone   string `json:"phone,omitempty"`
	Deleted int64  `json:"deleted"`
}

type ContactResponse struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Phone             string     `json:"phone"`
	Display           string     `json:"display,omitempty"`
	Email             string     `json:"email,omitempty"`
	Status            string     `json:"status"`
	Tags              []string   `json:"tags"`
	ExternalID        string     `json:"external_id,omitempty"`
	LastInteractionAt *time.Time `json:"last_interaction_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type ContactsResponse struct {
	Contacts []ContactResponse `json:"contacts"`
	Total    int               `json:"total"`
}

type WebhookResponse struct {
	Status    string `json:"status"`
	Updated   int    `json:"updated,omitempty"`
	HistoryID int64  `json:"history_id,omitempty"`
	Connected *bool  `json:"connected,omitempty"`
}

func newMessageResponse(m model.MessageHistory) MessageResponse {
	res := MessageResponse{
		ID:        m.ID,
		Phone:     m.Phone,
		Direction: string(m.Direction),
		Body:      m.Body,
		Kind:      string(m.Kind),
		Status:    m.Status,
		Timestamp: m.Timestamp,
	}
	if m.ExternalMessageID != nil {
		res.ExternalID = *m.ExternalMessageID
	}
	if m.MediaURL != nil {
		res.MediaURL = *m.MediaURL
	}
	return res
}

func newContactResponse(c model.Contact) ContactResponse {
	res := ContactResponse{
		ID:                c.ID,
		Name:              c.Name,
		Phone:             c.Phone,
		Email:             c.Email,
		Status:            string(c.Status),
		Tags:              c.TagList(),
		LastInteractionAt: c.LastInteractionAt,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	if c.ExternalID != nil {
		res.ExternalID = *c.ExternalID
	}
	if parts, ok := phone.ExtractParts(c.Phone); ok {
		res.Display = parts.Display
	}
	return res
}

func newContactsResponse(contacts []model.Contact) ContactsResponse {
	res := ContactsResponse{Contacts: make([]ContactResponse, 0, len(contacts)), Total: len(contacts)}
	for _, c := range contacts {
		res.Contacts = append(res.Contacts, newContactResponse(c))
	}
	return res
}
