package mocks

import (
	"context"

	"github.com/Behyna/whatsapp-relay/pkg/clint"
	"github.com/Behyna/whatsapp-relay/pkg/zapi"
	"github.com/stretchr/testify/mock"
)

type ZAPIClient struct {
	mock.Mock
}

func (z *ZAPIClient) SendText(ctx context.Context, request zapi.SendTextRequest) (zapi.SendResponse, error) {
	args := z.Called(ctx, request)
	return args.Get(0).(zapi.SendResponse), args.Error(1)
}

func (z *ZAPIClient) SendMedia(ctx context.Context, request zapi.SendMediaRequest) (zapi.SendResponse, error) {
	args := z.Called(ctx, request)
	return args.Get(0).(zapi.SendResponse), args.Error(1)
}

func (z *ZAPIClient) Status(ctx context.Context) (zapi.StatusResponse, error) {
	args := z.Called(ctx)
	return args.Get(0).(zapi.StatusResponse), args.Error(1)
}

func (z *ZAPIClient) Restart(ctx context.Context) error {
	args := z.Called(ctx)
	return args.Error(0)
}

type CRMClient struct {
	mock.Mock
}

func (c *CRMClient) ListContacts(ctx context.Context, page, limit int, filters clint.Filters) ([]clint.Contact, error) {
	args := c.Called(ctx, page, limit, filters)
	contacts, _ := args.Get(0).([]clint.Contact)
	return contacts, args.Error(1)
}
