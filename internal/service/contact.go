package service

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/internal/repository"
	"github.com/Behyna/whatsapp-relay/pkg/phone"
	"go.uber.org/zap"
)

// unreachable statuses never receive bulk or scheduled traffic.
var unreachable = []model.ContactStatus{model.ContactStatusDoNotDisturb, model.ContactStatusRemoved}

type ContactService interface {
	UpsertFromCRM(ctx context.Context, cmd UpsertContactCommand) (*model.Contact, UpsertOutcome, error)
	EnsureContact(ctx context.Context, phone string) (*model.Contact, error)
	GetByPhone(ctx context.Context, phone string) (*model.Contact, error)
	List(ctx context.Context, status *model.ContactStatus) ([]model.Contact, error)
	ListReachable(ctx context.Context) ([]model.Contact, error)
	SetStatus(ctx context.Context, phone string, status model.ContactStatus) (*model.Contact, error)
	MarkActive(ctx context.Context, phone string) (*model.Contact, error)
	MarkResponded(ctx context.Context, phone string) (*model.Contact, error)
	MarkDoNotDisturb(ctx context.Context, phone string) (*model.Contact, error)
	MarkRemoved(ctx context.Context, phone string) (*model.Contact, error)
	Purge(ctx context.Context, phone string) (int64, error)
}

type contact struct {
	contactRepo repository.ContactRepository
	txManager   repository.TxManager
	metrics     *metrics.Metrics
	logger      *zap.Logger
	now         func() time.Time
}

func NewContactService(contactRepo repository.ContactRepository, txManager repository.TxManager,
	metrics *metrics.Metrics, logger *zap.Logger) ContactService {
	return &contact{contactRepo: contactRepo, txManager: txManager, metrics: metrics, logger: logger, now: time.Now}
}

// UpsertFromCRM matches by external id first and canonical phone second.
// When the incoming phone already belongs to a different contact, that
// contact takes over the external id and the stale match is unlinked.
func (c *contact) UpsertFromCRM(ctx context.Context, cmd UpsertContactCommand) (*model.Contact, UpsertOutcome, error) {
	if !phone.IsValid(cmd.Phone) {
		c.logger.Warn("Skipping CRM contact with invalid phone",
			zap.String("externalID", cmd.ExternalID),
			zap.String("phone", cmd.Phone))
		return nil, "", NewServiceError(constants.ErrCodeInvalidPhone, ErrInvalidPhone)
	}

	number := phone.ToStorage(cmd.Phone)

	var (
		result  *model.Contact
		outcome UpsertOutcome
	)

	err := c.txManager.WithTx(ctx, func(ctx context.Context) error {
		var byExternal *model.Contact
		if cmd.ExternalID != "" {
			found, err := c.contactRepo.GetByExternalID(ctx, cmd.ExternalID)
			if err != nil && !errors.Is(err, repository.ErrContactNotFound) {
				return err
			}
			byExternal = found
		}

		byPhone, err := c.contactRepo.GetByPhone(ctx, number)
		if err != nil && !errors.Is(err, repository.ErrContactNotFound) {
			return err
		}

		now := c.now()

		switch {
		case byExternal == nil && byPhone == nil:
			result = &model.Contact{
				Phone:     number,
				Status:    model.ContactStatusInactive,
				CreatedAt: now,
				UpdatedAt: now,
			}
			applyCRM(result, cmd, number)
			outcome = UpsertCreated
			return c.contactRepo.Create(ctx, result)

		case byPhone == nil || (byExternal != nil && byExternal.ID == byPhone.ID):
			result = byExternal

		case byExternal == nil:
			result = byPhone

		default:
			c.logger.Warn("CRM phone collides with another contact, relinking",
				zap.String("externalID", cmd.ExternalID),
				zap.Int64("staleContactID", byExternal.ID),
				zap.Int64("contactID", byPhone.ID))

			byExternal.ExternalID = nil
			touch(byExternal, now)
			if err := c.contactRepo.Save(ctx, byExternal); err != nil {
				return err
			}
			result = byPhone
		}

		applyCRM(result, cmd, number)
		touch(result, now)
		outcome = UpsertUpdated
		return c.contactRepo.Save(ctx, result)
	})

	if err != nil {
		c.logger.Error("Failed to upsert CRM contact",
			zap.String("externalID", cmd.ExternalID),
			zap.String("phone", number),
			zap.Error(err))
		return nil, "", NewServiceError(constants.ErrCodePersistenceError, err)
	}

	c.logger.Debug("CRM contact upserted",
		zap.Int64("contactID", result.ID),
		zap.String("phone", number),
		zap.String("outcome", string(outcome)))

	return result, outcome, nil
}

func (c *contact) EnsureContact(ctx context.Context, raw string) (*model.Contact, error) {
	if !phone.IsValid(raw) {
		return nil, NewServiceError(constants.ErrCodeInvalidPhone, ErrInvalidPhone)
	}

	number := phone.ToStorage(raw)

	existing, err := c.contactRepo.GetByPhone(ctx, number)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrContactNotFound) {
		c.logger.Error("Failed to look up contact", zap.String("phone", number), zap.Error(err))
		return nil, NewServiceError(constants.ErrCodePersistenceError, err)
	}

	now := c.now()
	created := &model.Contact{
		Phone:     number,
		Status:    model.ContactStatusInactive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = c.contactRepo.Create(ctx, created)
	if errors.Is(err, repository.ErrDuplicatePhone) {
		// created concurrently by another writer
		existing, err = c.contactRepo.GetByPhone(ctx, number)
		if err == nil {
			return existing, nil
		}
	}
	if err != nil {
		c.logger.Error("Failed to create contact", zap.String("phone", number), zap.Error(err))
		return nil, NewServiceError(constants.ErrCodePersistenceError, err)
	}

	c.logger.Info("Contact created for unknown number", zap.Int64("contactID", created.ID), zap.String("phone", number))

	return created, nil
}

func (c *contact) GetByPhone(ctx context.Context, raw string) (*model.Contact, error) {
	found, err := c.contactRepo.GetByPhone(ctx, phone.ToStorage(raw))
	if errors.Is(err, repository.ErrContactNotFound) {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get contact", zap.String("phone", raw), zap.Error(err))
		return nil, NewServiceError(constants.ErrCodePersistenceError, err)
	}

	return found, nil
}

func (c *contact) List(ctx context.Context, status *model.ContactStatus) ([]model.Contact, error) {
	if status != nil && !status.Valid() {
		return nil, NewServiceError(constants.ErrCodeInvalidStatus, ErrInvalidStatus)
	}

	return c.list(ctx, repository.ContactFilter{Status: status})
}

func (c *contact) ListReachable(ctx context.Context) ([]model.Contact, error) {
	return c.list(ctx, repository.ContactFilter{Exclude: unreachable})
}

// SetStatus returns nil without error when no contact has the phone.
func (c *contact) SetStatus(ctx context.Context, raw string, status model.ContactStatus) (*model.Contact, error) {
	if !status.Valid() {
		return nil, NewServiceError(constants.ErrCodeInvalidStatus, ErrInvalidStatus)
	}

	number := phone.ToStorage(raw)

	var updated *model.Contact
	err := c.txManager.WithTx(ctx, func(ctx context.Context) error {
		found, err := c.contactRepo.GetByPhone(ctx, number)
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		now := c.now()
		found.Status = status
		found.LastInteractionAt = &now
		touch(found, now)

		if err := c.contactRepo.Save(ctx, found); err != nil {
			return err
		}

		updated = found
		return nil
	})

	if err != nil {
		c.logger.Error("Failed to set contact status",
			zap.String("phone", number),
			zap.String("status", string(status)),
			zap.Error(err))
		return nil, NewServiceError(constants.ErrCodePersistenceError, err)
	}

	if updated == nil {
		c.logger.Info("Status change for unknown contact",
			zap.String("phone", number),
			zap.String("status", string(status)))
		return nil, nil
	}

	c.metrics.RecordContactTransition(string(status))
	c.logger.Info("Contact status changed",
		zap.Int64("contactID", updated.ID),
		zap.String("phone", number),
		zap.String("status", string(status)))

	return updated, nil
}

func (c *contact) MarkActive(ctx context.Context, raw string) (*model.Contact, error) {
	return c.SetStatus(ctx, raw, model.ContactStatusActive)
}

func (c *contact) MarkResponded(ctx context.Context, raw string) (*model.Contact, error) {
	return c.SetStatus(ctx, raw, model.ContactStatusResponded)
}

func (c *contact) MarkDoNotDisturb(ctx context.Context, raw string) (*model.Contact, error) {
	return c.SetStatus(ctx, raw, model.ContactStatusDoNotDisturb)
}

func (c *contact) MarkRemoved(ctx context.Context, raw string) (*model.Contact, error) {
	return c.SetStatus(ctx, raw, model.ContactStatusRemoved)
}

// Purge physically deletes the contact. Normal flows use MarkRemoved.
func (c *contact) Purge(ctx context.Context, raw string) (int64, error) {
	number := phone.ToStorage(raw)

	deleted, err := c.contactRepo.DeleteByPhone(ctx, number)
	if err != nil {
		c.logger.Error("Failed to purge contact", zap.String("phone", number), zap.Error(err))
		return 0, NewServiceError(constants.ErrCodePersistenceError, err)
	}

	c.logger.Warn("Contact purged", zap.String("phone", number), zap.Int64("deleted", deleted))

	return deleted, nil
}

func (c *contact) list(ctx context.Context, filter repository.ContactFilter) ([]model.Contact, error) {
	contacts, err := c.contactRepo.List(ctx, filter)
	if err != nil {
		c.logger.Error("Failed to list contacts", zap.Error(err))
		return nil, NewServiceError(constants.ErrCodePersistenceError, err)
	}

	return contacts, nil
}

func applyCRM(target *model.Contact, cmd UpsertContactCommand, number string) {
	target.Name = cmd.Name
	target.Phone = number
	target.Email = cmd.Email
	target.Tags = model.JoinTags(cmd.Tags)
	if cmd.ExternalID != "" {
		externalID := cmd.ExternalID
		target.ExternalID = &externalID
	}
}

// touch advances updated_at even when the clock has not moved past the
// stored value. Millisecond steps survive datetime(3) columns.
func touch(target *model.Contact, now time.Time) {
	if !now.After(target.UpdatedAt) {
		now = target.UpdatedAt.Add(time.Millisecond)
	}
	target.UpdatedAt = now
}
