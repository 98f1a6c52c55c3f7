package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/inbound"
	"github.com/Behyna/whatsapp-relay/internal/mocks"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/internal/repository"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHistoryService(repo *mocks.MessageHistoryRepository, tx *mocks.TxManager) service.HistoryService {
	return service.NewHistoryService(repo, tx, inbound.NewNormalizer(), newMetrics(), zap.NewNop(), testConfig())
}

func TestHistory_AppendSent(t *testing.T) {
	ctx := context.Background()

	t.Run("stores sent record in storage form", func(t *testing.T) {
		mockRepo := &mocks.MessageHistoryRepository{}
		mockTx := &mocks.TxManager{}
		svc := newHistoryService(mockRepo, mockTx)

		mockTx.On("WithTx", ctx, mock.Anything).Return(nil)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *model.MessageHistory) bool {
			return m.Phone == "21999998888" &&
				m.Direction == model.DirectionSent &&
				m.Kind == model.MessageKindText &&
				m.Status == model.DeliveryStatusSent &&
				m.ExternalMessageID != nil && *m.ExternalMessageID == "3EB0" &&
				m.MediaURL == nil &&
				!m.Timestamp.IsZero()
		})).Return(nil)

		record, err := svc.AppendSent(ctx, service.AppendSentCommand{
			Phone:      "5521999998888",
			Body:       "hello",
			ExternalID: "3EB0",
		})

		require.NoError(t, err)
		assert.Equal(t, "hello", record.Body)
		mockRepo.AssertExpectations(t)
		mockTx.AssertExpectations(t)
	})

	t.Run("rejects invalid phone", func(t *testing.T) {
		mockRepo := &mocks.MessageHistoryRepository{}
		mockTx := &mocks.TxManager{}
		svc := newHistoryService(mockRepo, mockTx)

		record, err := svc.AppendSent(ctx, service.AppendSentCommand{Phone: "123", Body: "hello"})

		assert.Nil(t, record)
		assertCode(t, err, constants.ErrCodeInvalidPhone)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects empty content", func(t *testing.T) {
		mockRepo := &mocks.MessageHistoryRepository{}
		mockTx := &mocks.TxManager{}
		svc := newHistoryService(mockRepo, mockTx)

		_, err := svc.AppendSent(ctx, service.AppendSentCommand{Phone: "21999998888", Body: "  "})

		assertCode(t, err, constants.ErrCodeValidationFailed)
		assert.ErrorIs(t, err, service.ErrEmptyBody)
	})

	t.Run("storage failure is a persistence error", func(t *testing.T) {
		mockRepo := &mocks.MessageHistoryRepository{}
		mockTx := &mocks.TxManager{}
		svc := newHistoryService(mockRepo, mockTx)

		mockTx.On("WithTx", ctx, mock.Anything).Return(nil)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		_, err := svc.AppendSent(ctx, service.AppendSentCommand{Phone: "21999998888", Body: "hello"})

		assertCode(t, err, constants.ErrCodePersistenceError)
	})
}

func TestHistory_AppendReceived(t *testing.T) {
	ctx := context.Background()

	t.Run("stores normalized audio message", func(t *testing.T) {
		mockRepo := &mocks.MessageHistoryRepository{}
		mockTx := &mocks.TxManager{}
		svc := newHistoryService(mockRepo, mockTx)

		payload := inbound.Payload{
			"phone":     "5521999998888",
			"messageId": "ABC",
			"momment":   float64(1714564800000),
			"audio":     map[string]any{"audioUrl": "http://x/a.mp3"},
		}

		mockTx.On("WithTx", ctx, mock.Anything).Return(nil)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *model.MessageHistory) bool {
			return m.Direction == model.DirectionReceived &&
				m.Kind == model.MessageKindAudio &&
				m.Body == "[Audio]" &&
				*m.MediaURL == "http://x/a.mp3" &&
				m.Status == model.DeliveryStatusReceived &&
				m.Timestamp.Equal(time.UnixMilli(1714564800000))
		})).Return(nil)

		record, err := svc.AppendReceived(ctx, payload)

		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, "21999998888", record.Phone)
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty payload is skipped without error", func(t *testing.T) {
		mockRepo := &mocks.MessageHistoryRepository{}
		mockTx := &mocks.TxManager{}
		svc := newHistoryService(mockRepo, mockTx)

		record, err := svc.AppendReceived(ctx, inbound.Payload{"phone": "5521999998888", "status": "RECEIVED"})

		assert.NoError(t, err)
		assert.Nil(t, record)
		mockRepo.AssertNotCalled(t, "Create")
		mockTx.AssertNotCalled(t, "WithTx")
	})

	t.Run("missing phone is a validation error", func(t *testing.T) {
		mockRepo := &mocks.MessageHistoryRepository{}
		mockTx := &mocks.TxManager{}
		svc := newHistoryService(mockRepo, mockTx)

		_, err := svc.AppendReceived(ctx, inbound.Payload{"text": "hello"})

		assertCode(t, err, constants.ErrCodeInvalidPhone)
		assert.ErrorIs(t, err, inbound.ErrMissingPhone)
	})
}

func TestHistory_ListByPhone(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"default limit", 0, 100},
		{"explicit limit", 10, 10},
		{"capped limit", 5000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MessageHistoryRepository{}
			svc := newHistoryService(mockRepo, &mocks.TxManager{})

			mockRepo.On("ListByPhone", ctx, "21999998888", tt.wantLimit).Return([]model.MessageHistory{{ID: 1}}, nil)

			records, err := svc.ListByPhone(ctx, "+55 21 99999-8888", tt.limit)

			require.NoError(t, err)
			assert.Len(t, records, 1)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestHistory_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("updates status of known message", func(t *testing.T) {
		mockRepo := &mocks.MessageHistoryRepository{}
		mockTx := &mocks.TxManager{}
		svc := newHistoryService(mockRepo, mockTx)

		mockTx.On("WithTx", ctx, mock.Anything).Return(nil)
		mockRepo.On("GetByExternalID", mock.Anything, "3EB0").
			Return(&model.MessageHistory{ID: 7, Status: model.DeliveryStatusSent}, nil)
		mockRepo.On("UpdateStatus", mock.Anything, int64(7), "read").Return(nil)

		record, err := svc.UpdateStatus(ctx, "3EB0", "read")

		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, "read", record.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown message returns nil", func(t *testing.T) {
		mockRepo := &mocks.MessageHistoryRepository{}
		mockTx := &mocks.TxManager{}
		svc := newHistoryService(mockRepo, mockTx)

		mockTx.On("WithTx", ctx, mock.Anything).Return(nil)
		mockRepo.On("GetByExternalID", mock.Anything, "missing").Return(nil, repository.ErrMessageNotFound)

		record, err := svc.UpdateStatus(ctx, "missing", "read")

		assert.NoError(t, err)
		assert.Nil(t, record)
		mockRepo.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("same status is not rewritten", func(t *testing.T) {
		mockRepo := &mocks.MessageHistoryRepository{}
		mockTx := &mocks.TxManager{}
		svc := newHistoryService(mockRepo, mockTx)

		mockTx.On("WithTx", ctx, mock.Anything).Return(nil)
		mockRepo.On("GetByExternalID", mock.Anything, "3EB0").
			Return(&model.MessageHistory{ID: 7, Status: "read"}, nil)

		record, err := svc.UpdateStatus(ctx, "3EB0", "read")

		require.NoError(t, err)
		assert.Equal(t, int64(7), record.ID)
		mockRepo.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("storage failure is a persistence error", func(t *testing.T) {
		mockRepo := &mocks.MessageHistoryRepository{}
		mockTx := &mocks.TxManager{}
		svc := newHistoryService(mockRepo, mockTx)

		mockTx.On("WithTx", ctx, mock.Anything).Return(nil)
		mockRepo.On("GetByExternalID", mock.Anything, "3EB0").Return(nil, errors.New("locked"))

		_, err := svc.UpdateStatus(ctx, "3EB0", "read")

		assertCode(t, err, constants.ErrCodePersistenceError)
	})
}

func TestHistory_Clear(t *testing.T) {
	ctx := context.Background()

	t.Run("clears one phone", func(t *testing.T) {
		mockRepo := &mocks.MessageHistoryRepository{}
		svc := newHistoryService(mockRepo, &mocks.TxManager{})

		raw := "5521999998888"
		mockRepo.On("DeleteByPhone", ctx, "21999998888").Return(int64(3), nil)

		deleted, err := svc.Clear(ctx, &raw)

		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted)
		mockRepo.AssertNotCalled(t, "DeleteAll")
	})

	t.Run("clears everything", func(t *testing.T) {
		mockRepo := &mocks.MessageHistoryRepository{}
		svc := newHistoryService(mockRepo, &mocks.TxManager{})

		mockRepo.On("DeleteAll", ctx).Return(int64(9), nil)

		deleted, err := svc.Clear(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, int64(9), deleted)
	})
}
