package model

import "time"

type Direction string

const (
	DirectionSent     Direction = "SENT"
	DirectionReceived Direction = "RECEIVED"
)

type MessageKind string

const (
	MessageKindText     MessageKind = "text"
	MessageKindImage    MessageKind = "image"
	MessageKindVideo    MessageKind = "video"
	MessageKindAudio    MessageKind = "audio"
	MessageKindDocument MessageKind = "document"
	MessageKindTemplate MessageKind = "template"
)

const (
	DeliveryStatusPending  = "pending"
	DeliveryStatusSent     = "sent"
	DeliveryStatusReceived = "received"
)

type MessageHistory struct {
	ID                int64       `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	ExternalMessageID *string     `gorm:"column:external_message_id;size:128;index:idx_history_external_id"`
	Phone             string      `gorm:"column:phone;size:20;not null;index:idx_history_phone"`
	Direction         Direction   `gorm:"column:direction;size:10;not null"`
	Body              string      `gorm:"column:body"`
	Kind              MessageKind `gorm:"column:kind;size:20"`
	Status            string      `gorm:"column:status;size:32"`
	MediaURL          *string     `gorm:"column:media_url"`
	Timestamp         time.Time   `gorm:"column:timestamp;index:idx_history_phone"`
	CreatedAt         time.Time   `gorm:"column:created_at;<-:create"`
}

func (MessageHistory) TableName() string {
	return "message_history"
}
