package mocks

import (
	"context"

	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/stretchr/testify/mock"
)

type MessageHistoryRepository struct {
	mock.Mock
}

func (m *MessageHistoryRepository) Create(ctx context.Context, message *model.MessageHistory) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MessageHistoryRepository) ListByPhone(ctx context.Context, phone string, limit int) ([]model.MessageHistory, error) {
	args := m.Called(ctx, phone, limit)
	messages, _ := args.Get(0).([]model.MessageHistory)
	return messages, args.Error(1)
}

func (m *MessageHistoryRepository) CountByPhone(ctx context.Context, phone string) (int64, error) {
	args := m.Called(ctx, phone)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MessageHistoryRepository) GetByExternalID(ctx context.Context, externalID string) (*model.MessageHistory, error) {
	args := m.Called(ctx, externalID)
	message, _ := args.Get(0).(*model.MessageHistory)
	return message, args.Error(1)
}

func (m *MessageHistoryRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MessageHistoryRepository) DeleteByPhone(ctx context.Context, phone string) (int64, error) {
	args := m.Called(ctx, phone)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MessageHistoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
