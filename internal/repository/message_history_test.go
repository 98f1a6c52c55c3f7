package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(phone string, ts time.Time) *model.MessageHistory {
	return &model.MessageHistory{
		Phone:     phone,
		Direction: model.DirectionReceived,
		Body:      "hello",
		Kind:      model.MessageKindText,
		Status:    model.DeliveryStatusReceived,
		Timestamp: ts,
	}
}

func TestMessageHistoryRepository(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("list by phone orders by timestamp descending", func(t *testing.T) {
		repo := repository.NewMessageHistoryRepository(newTestDB(t))

		require.NoError(t, repo.Create(ctx, newRecord("21900000001", base)))
		require.NoError(t, repo.Create(ctx, newRecord("21900000001", base.Add(2*time.Minute))))
		require.NoError(t, repo.Create(ctx, newRecord("21900000001", base.Add(time.Minute))))
		require.NoError(t, repo.Create(ctx, newRecord("21900000002", base.Add(time.Hour))))

		records, err := repo.ListByPhone(ctx, "21900000001", 100)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.True(t, records[0].Timestamp.Equal(base.Add(2*time.Minute)))
		assert.True(t, records[1].Timestamp.Equal(base.Add(time.Minute)))
		assert.True(t, records[2].Timestamp.Equal(base))

		limited, err := repo.ListByPhone(ctx, "21900000001", 2)
		require.NoError(t, err)
		assert.Len(t, limited, 2)

		count, err := repo.CountByPhone(ctx, "21900000001")
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("update status by external id", func(t *testing.T) {
		repo := repository.NewMessageHistoryRepository(newTestDB(t))

		record := newRecord("21900000001", base)
		record.Direction = model.DirectionSent
		record.Status = model.DeliveryStatusSent
		record.ExternalMessageID = strPtr("3EB0ABC")
		require.NoError(t, repo.Create(ctx, record))

		found, err := repo.GetByExternalID(ctx, "3EB0ABC")
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatus(ctx, found.ID, "read"))

		updated, err := repo.GetByExternalID(ctx, "3EB0ABC")
		require.NoError(t, err)
		assert.Equal(t, "read", updated.Status)
		assert.Equal(t, "hello", updated.Body)
		assert.Equal(t, model.DirectionSent, updated.Direction)
	})

	t.Run("unknown external id", func(t *testing.T) {
		repo := repository.NewMessageHistoryRepository(newTestDB(t))

		_, err := repo.GetByExternalID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrMessageNotFound)

		err = repo.UpdateStatus(ctx, 42, "read")
		assert.ErrorIs(t, err, repository.ErrNoRowsAffected)
	})

	t.Run("delete by phone leaves other phones untouched", func(t *testing.T) {
		repo := repository.NewMessageHistoryRepository(newTestDB(t))

		require.NoError(t, repo.Create(ctx, newRecord("21900000001", base)))
		require.NoError(t, repo.Create(ctx, newRecord("21900000001", base)))
		require.NoError(t, repo.Create(ctx, newRecord("21900000002", base)))

		deleted, err := repo.DeleteByPhone(ctx, "21900000001")
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		remaining, err := repo.CountByPhone(ctx, "21900000002")
		require.NoError(t, err)
		assert.Equal(t, int64(1), remaining)
	})

	t.Run("delete all", func(t *testing.T) {
		repo := repository.NewMessageHistoryRepository(newTestDB(t))

		require.NoError(t, repo.Create(ctx, newRecord("21900000001", base)))
		require.NoError(t, repo.Create(ctx, newRecord("21900000002", base)))

		deleted, err := repo.DeleteAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)
	})

	t.Run("failed transaction rolls back", func(t *testing.T) {
		db := newTestDB(t)
		repo := repository.NewMessageHistoryRepository(db)
		txManager := repository.NewTransactionManager(db)

		boom := errors.New("boom")
		err := txManager.WithTx(ctx, func(ctx context.Context) error {
			if err := repo.Create(ctx, newRecord("21900000001", base)); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		count, err := repo.CountByPhone(ctx, "21900000001")
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
