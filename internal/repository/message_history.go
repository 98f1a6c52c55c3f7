package repository

import (
	"context"
	"errors"

	"github.com/Behyna/whatsapp-relay/internal/model"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("MESSAGE_NOT_FOUND")
var ErrNoRowsAffected = errors.New("NO_ROWS_AFFECTED")

type MessageHistoryRepository interface {
	Create(ctx context.Context, message *model.MessageHistory) error
	ListByPhone(ctx context.Context, phone string, limit int) ([]model.MessageHistory, error)
	CountByPhone(ctx context.Context, phone string) (int64, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.MessageHistory, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	DeleteByPhone(ctx context.Context, phone string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type MessageHistory struct {
	db *gorm.DB
}

func NewMessageHistoryRepository(db *gorm.DB) MessageHistoryRepository {
	return &MessageHistory{db: db}
}

func (m *MessageHistory) Create(ctx context.Context, message *model.MessageHistory) error {
	return GetTx(ctx, m.db).Create(message).Error
}

func (m *MessageHistory) ListByPhone(ctx context.Context, phone string, limit int) ([]model.MessageHistory, error) {
	var messages []model.MessageHistory

	err := GetTx(ctx, m.db).Where("phone = ?", phone).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (m *MessageHistory) CountByPhone(ctx context.Context, phone string) (int64, error) {
	var count int64

	err := GetTx(ctx, m.db).Model(&model.MessageHistory{}).
		Where("phone = ?", phone).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (m *MessageHistory) GetByExternalID(ctx context.Context, externalID string) (*model.MessageHistory, error) {
	var message model.MessageHistory

	err := GetTx(ctx, m.db).Where("external_message_id = ?", externalID).
		Order("id ASC").
		First(&message).Error
	if err == nil {
		return &message, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}

	return nil, err
}

func (m *MessageHistory) UpdateStatus(ctx context.Context, id int64, status string) error {
	result := GetTx(ctx, m.db).Model(&model.MessageHistory{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (m *MessageHistory) DeleteByPhone(ctx context.Context, phone string) (int64, error) {
	result := GetTx(ctx, m.db).Where("phone = ?", phone).Delete(&model.MessageHistory{})
	return result.RowsAffected, result.Error
}

func (m *MessageHistory) DeleteAll(ctx context.Context) (int64, error) {
	result := GetTx(ctx, m.db).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.MessageHistory{})
	return result.RowsAffected, result.Error
}
