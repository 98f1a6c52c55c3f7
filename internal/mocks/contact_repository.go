package mocks

import (
	"context"

	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/internal/repository"
	"github.com/stretchr/testify/mock"
)

type ContactRepository struct {
	mock.Mock
}

func (c *ContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	args := c.Called(ctx, contact)
	return args.Error(0)
}

func (c *ContactRepository) Save(ctx context.Context, contact *model.Contact) error {
	args := c.Called(ctx, contact)
	return args.Error(0)
}

func (c *ContactRepository) GetByPhone(ctx context.Context, phone string) (*model.Contact, error) {
	args := c.Called(ctx, phone)
	contact, _ := args.Get(0).(*model.Contact)
	return contact, args.Error(1)
}

func (c *ContactRepository) GetByExternalID(ctx context.Context, externalID string) (*model.Contact, error) {
	args := c.Called(ctx, externalID)
	contact, _ := args.Get(0).(*model.Contact)
	return contact, args.Error(1)
}

func (c *ContactRepository) List(ctx context.Context, filter repository.ContactFilter) ([]model.Contact, error) {
	args := c.Called(ctx, filter)
	contacts, _ := args.Get(0).([]model.Contact)
	return contacts, args.Error(1)
}

func (c *ContactRepository) DeleteByPhone(ctx context.Context, phone string) (int64, error) {
	args := c.Called(ctx, phone)
	return args.Get(0).(int64), args.Error(1)
}
