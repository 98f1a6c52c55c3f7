package clint

import (
	"context"
	"errors"
	"io"

	"github.com/Behyna/whatsapp-relay/pkg/httpclient"
)

const ContactsEndpoint = "/contacts"

// Filters narrows a contact listing. Empty fields are not sent.
type Filters struct {
	Tag   string
	Email string
	Phone string
}

type Client interface {
	ListContacts(ctx context.Context, page, limit int, filters Filters) ([]Contact, error)
}

type client struct {
	config Config
	http   httpclient.HTTPClient
}

func NewClient(cfg Config, httpClient httpclient.HTTPClient) Client {
	return &client{config: cfg, http: httpClient}
}

func (c *client) ListContacts(ctx context.Context, page, limit int, filters Filters) ([]Contact, error) {
	params := map[string]string{
		"page":  itoa(page),
		"limit": itoa(limit),
		"tag":   filters.Tag,
		"email": filters.Email,
		"phone": filters.Phone,
	}

	url := httpclient.WithQuery(c.config.BaseURL+ContactsEndpoint, params)

	resp, err := c.http.Get(ctx, url, c.headers())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, MapStatusToError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	contacts, err := decodeContacts(body)
	if err != nil {
		return nil, ErrInvalidResponse
	}

	return contacts, nil
}

func (c *client) headers() map[string]string {
	return map[string]string{
		"api-token": c.config.APIToken,
		"accept":    "application/json",
	}
}
