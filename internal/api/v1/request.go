package v1

import "time"

type SendMessageRequest struct {
	Phone        string `json:"phone" validate:"required,phone"`
	Body         string `json:"body" validate:"required,max=4096"`
	DelayMessage int    `json:"delay_message" validate:"min=0,max=15"`
	DelayTyping  int    `json:"delay_typing" validate:"min=0,max=15"`
}

type MediaMessageRequest struct {
	Phone        string `json:"phone" validate:"required,phone"`
	Kind         string `json:"kind" validate:"required,oneof=image audio video document"`
	URL          string `json:"url" validate:"required,url|datauri"`
	Caption      string `json:"caption" validate:"max=1024"`
	FileName     string `json:"file_name" validate:"max=255"`
	DelayMessage int    `json:"delay_message" validate:"min=0,max=15"`
}

type BulkMessageRequest struct {
	Body   string `json:"body" validate:"required,max=4096"`
	Status string `json:"status" validate:"contact_status"`
}

type HistoryRequest struct {
	Phone string `params:"phone" validate:"required,phone"`
	Limit int    `query:"limit" validate:"min=0"`
}

type ClearHistoryRequest struct {
	Phone string `query:"phone" validate:"omitempty,phone"`
}

type MessageStatusRequest struct {
	MessageID string `json:"-" params:"messageID" validate:"required"`
	Status    string `json:"status" validate:"required,max=32"`
}

type ListContactsRequest struct {
	Status string `query:"status" validate:"contact_status"`
}

type ContactRequest struct {
	Phone string `params:"phone" validate:"required,phone"`
}

type ContactStatusRequest struct {
	Phone  string `json:"-" params:"phone" validate:"required,phone"`
	Status string `json:"status" validate:"required,contact_status"`
}

type ScheduleRequest struct {
	Kind   string     `json:"kind" validate:"required,oneof=message bulk sync"`
	Phone  string     `json:"phone" validate:"required_if=Kind message,omitempty,phone"`
	Body   string     `json:"body" validate:"required_unless=Kind sync,max=4096"`
	Status string     `json:"status" validate:"contact_status"`
	At     *time.Time `json:"at" validate:"required_without=Cron,excluded_with=Cron"`
	Cron   string     `json:"cron" validate:"required_without=At,excluded_with=At"`
}

type CancelScheduleRequest struct {
	ID string `params:"id" validate:"required,uuid"`
}
