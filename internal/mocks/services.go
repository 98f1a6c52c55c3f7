package mocks

import (
	"context"

	"github.com/Behyna/whatsapp-relay/internal/inbound"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/Behyna/whatsapp-relay/pkg/zapi"
	"github.com/stretchr/testify/mock"
)

type GatewayService struct {
	mock.Mock
}

func (g *GatewayService) SendText(ctx context.Context, request zapi.SendTextRequest) (zapi.SendResponse, error) {
	args := g.Called(ctx, request)
	return args.Get(0).(zapi.SendResponse), args.Error(1)
}

func (g *GatewayService) SendMedia(ctx context.Context, request zapi.SendMediaRequest) (zapi.SendResponse, error) {
	args := g.Called(ctx, request)
	return args.Get(0).(zapi.SendResponse), args.Error(1)
}

func (g *GatewayService) IsConnected(ctx context.Context) bool {
	args := g.Called(ctx)
	return args.Bool(0)
}

func (g *GatewayService) Status(ctx context.Context) (service.GatewayStatus, error) {
	args := g.Called(ctx)
	return args.Get(0).(service.GatewayStatus), args.Error(1)
}

func (g *GatewayService) SetConnected(connected bool) {
	g.Called(connected)
}

func (g *GatewayService) Restart(ctx context.Context) error {
	args := g.Called(ctx)
	return args.Error(0)
}

type HistoryService struct {
	mock.Mock
}

func (h *HistoryService) AppendSent(ctx context.Context, cmd service.AppendSentCommand) (*model.MessageHistory, error) {
	args := h.Called(ctx, cmd)
	record, _ := args.Get(0).(*model.MessageHistory)
	return record, args.Error(1)
}

func (h *HistoryService) AppendReceived(ctx context.Context, payload inbound.Payload) (*model.MessageHistory, error) {
	args := h.Called(ctx, payload)
	record, _ := args.Get(0).(*model.MessageHistory)
	return record, args.Error(1)
}

func (h *HistoryService) ListByPhone(ctx context.Context, phone string, limit int) ([]model.MessageHistory, error) {
	args := h.Called(ctx, phone, limit)
	records, _ := args.Get(0).([]model.MessageHistory)
	return records, args.Error(1)
}

func (h *HistoryService) UpdateStatus(ctx context.Context, externalID, status string) (*model.MessageHistory, error) {
	args := h.Called(ctx, externalID, status)
	record, _ := args.Get(0).(*model.MessageHistory)
	return record, args.Error(1)
}

func (h *HistoryService) Clear(ctx context.Context, phone *string) (int64, error) {
	args := h.Called(ctx, phone)
	return args.Get(0).(int64), args.Error(1)
}

type ContactService struct {
	mock.Mock
}

func (c *ContactService) UpsertFromCRM(ctx context.Context, cmd service.UpsertContactCommand) (*model.Contact, service.UpsertOutcome, error) {
	args := c.Called(ctx, cmd)
	contact, _ := args.Get(0).(*model.Contact)
	return contact, args.Get(1).(service.UpsertOutcome), args.Error(2)
}

func (c *ContactService) EnsureContact(ctx context.Context, phone string) (*model.Contact, error) {
	return c.contactCall(ctx, "EnsureContact", phone)
}

func (c *ContactService) GetByPhone(ctx context.Context, phone string) (*model.Contact, error) {
	return c.contactCall(ctx, "GetByPhone", phone)
}

func (c *ContactService) List(ctx context.Context, status *model.ContactStatus) ([]model.Contact, error) {
	args := c.Called(ctx, status)
	contacts, _ := args.Get(0).([]model.Contact)
	return contacts, args.Error(1)
}

func (c *ContactService) ListReachable(ctx context.Context) ([]model.Contact, error) {
	args := c.Called(ctx)
	contacts, _ := args.Get(0).([]model.Contact)
	return contacts, args.Error(1)
}

func (c *ContactService) SetStatus(ctx context.Context, phone string, status model.ContactStatus) (*model.Contact, error) {
	args := c.Called(ctx, phone, status)
	contact, _ := args.Get(0).(*model.Contact)
	return contact, args.Error(1)
}

func (c *ContactService) MarkActive(ctx context.Context, phone string) (*model.Contact, error) {
	return c.contactCall(ctx, "MarkActive", phone)
}

func (c *ContactService) MarkResponded(ctx context.Context, phone string) (*model.Contact, error) {
	return c.contactCall(ctx, "MarkResponded", phone)
}

func (c *ContactService) MarkDoNotDisturb(ctx context.Context, phone string) (*model.Contact, error) {
	return c.contactCall(ctx, "MarkDoNotDisturb", phone)
}

func (c *ContactService) MarkRemoved(ctx context.Context, phone string) (*model.Contact, error) {
	return c.contactCall(ctx, "MarkRemoved", phone)
}

func (c *ContactService) Purge(ctx context.Context, phone string) (int64, error) {
	args := c.Called(ctx, phone)
	return args.Get(0).(int64), args.Error(1)
}

func (c *ContactService) contactCall(ctx context.Context, method, phone string) (*model.Contact, error) {
	args := c.MethodCalled(method, ctx, phone)
	contact, _ := args.Get(0).(*model.Contact)
	return contact, args.Error(1)
}

type SendService struct {
	mock.Mock
}

func (s *SendService) SendText(ctx context.Context, cmd service.SendTextCommand) (service.SendResult, error) {
	args := s.Called(ctx, cmd)
	return args.Get(0).(service.SendResult), args.Error(1)
}

func (s *SendService) SendMedia(ctx context.Context, cmd service.SendMediaCommand) (service.SendResult, error) {
	args := s.Called(ctx, cmd)
	return args.Get(0).(service.SendResult), args.Error(1)
}

type SendQueue struct {
	mock.Mock
}

func (s *SendQueue) EnqueueSend(ctx context.Context, cmd service.SendTextCommand) error {
	args := s.Called(ctx, cmd)
	return args.Error(0)
}

type BulkService struct {
	mock.Mock
}

func (b *BulkService) SendToContacts(ctx context.Context, cmd service.BulkSendCommand) (service.BulkResult, error) {
	args := b.Called(ctx, cmd)
	return args.Get(0).(service.BulkResult), args.Error(1)
}

func (b *BulkService) Enqueue(ctx context.Context, cmd service.BulkSendCommand) (service.BulkResult, error) {
	args := b.Called(ctx, cmd)
	return args.Get(0).(service.BulkResult), args.Error(1)
}

type SyncService struct {
	mock.Mock
}

func (s *SyncService) Sync(ctx context.Context) (service.SyncResult, error) {
	args := s.Called(ctx)
	return args.Get(0).(service.SyncResult), args.Error(1)
}

type WebhookService struct {
	mock.Mock
}

func (w *WebhookService) MessageReceived(ctx context.Context, payload inbound.Payload) (*model.MessageHistory, error) {
	args := w.Called(ctx, payload)
	record, _ := args.Get(0).(*model.MessageHistory)
	return record, args.Error(1)
}

func (w *WebhookService) MessageStatus(ctx context.Context, payload inbound.Payload) (int, error) {
	args := w.Called(ctx, payload)
	return args.Int(0), args.Error(1)
}

func (w *WebhookService) MessageSent(ctx context.Context, payload inbound.Payload) (int, error) {
	args := w.Called(ctx, payload)
	return args.Int(0), args.Error(1)
}

func (w *WebhookService) ConnectionChanged(ctx context.Context, payload inbound.Payload, fallback bool) bool {
	args := w.Called(ctx, payload, fallback)
	return args.Bool(0)
}

func (w *WebhookService) ChatPresence(ctx context.Context, payload inbound.Payload) (inbound.PresenceEvent, bool) {
	args := w.Called(ctx, payload)
	return args.Get(0).(inbound.PresenceEvent), args.Bool(1)
}
