package service

import (
	"context"
	"sync"

	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/pkg/clint"
	"github.com/Behyna/whatsapp-relay/pkg/phone"
	"go.uber.org/zap"
)

type SyncService interface {
	Sync(ctx context.Context) (SyncResult, error)
}

type crmSync struct {
	crm      clint.Client
	contacts ContactService
	metrics  *metrics.Metrics
	logger   *zap.Logger
	pageSize int
	maxPages int
	running  sync.Mutex
}

func NewSyncService(crm clint.Client, contacts ContactService, metrics *metrics.Metrics,
	logger *zap.Logger, config *config.Config) SyncService {
	return &crmSync{
		crm:      crm,
		contacts: contacts,
		metrics:  metrics,
		logger:   logger,
		pageSize: max(config.Sync.PageSize, 1),
		maxPages: max(config.Sync.MaxPages, 1),
	}
}

// Sync pages through the CRM until a short page. Each record is upserted
// on its own; a failed record is counted and the run continues. A failed
// page fetch stops the run and reports what was processed so far.
func (s *crmSync) Sync(ctx context.Context) (SyncResult, error) {
	if !s.running.TryLock() {
		return SyncResult{}, NewServiceError(constants.ErrCodeSyncInProgress, ErrSyncInProgress)
	}
	defer s.running.Unlock()

	var result SyncResult

	for page := 1; page <= s.maxPages; page++ {
		contacts, err := s.crm.ListContacts(ctx, page, s.pageSize, clint.Filters{})
		if err != nil {
			s.logger.Error("Failed to fetch CRM contacts", zap.Int("page", page), zap.Error(err))
			s.metrics.RecordSyncContact("page_failed")
			return result, NewServiceError(constants.ErrCodeRemoteAPIError, err)
		}

		result.Pages++
		result.Fetched += len(contacts)

		for _, c := range contacts {
			s.upsert(ctx, c, &result)
		}

		if len(contacts) < s.pageSize {
			break
		}
	}

	s.logger.Info("CRM sync finished",
		zap.Int("pages", result.Pages),
		zap.Int("fetched", result.Fetched),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))

	return result, nil
}

func (s *crmSync) upsert(ctx context.Context, c clint.Contact, result *SyncResult) {
	if !phone.IsValid(c.Phone()) {
		s.logger.Warn("Skipping CRM contact with invalid phone",
			zap.String("externalID", c.ID.String()),
			zap.String("phone", c.FullPhone))
		result.Skipped++
		s.metrics.RecordSyncContact("skipped")
		return
	}

	_, outcome, err := s.contacts.UpsertFromCRM(ctx, UpsertContactCommand{
		ExternalID: c.ID.String(),
		Name:       c.Name,
		Phone:      c.Phone(),
		Email:      c.Email,
		Tags:       c.TagNames(),
	})
	if err != nil {
		result.Failed++
		s.metrics.RecordSyncContact("failed")
		return
	}

	switch outcome {
	case UpsertCreated:
		result.Created++
	case UpsertUpdated:
		result.Updated++
	}
	s.metrics.RecordSyncContact(string(outcome))
}
