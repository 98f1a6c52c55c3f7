package zapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Behyna/whatsapp-relay/pkg/httpclient"
)

const (
	SendTextEndpoint  = "/send-text"
	SendMediaEndpoint = "/send-"
	StatusEndpoint    = "/status"
	RestartEndpoint   = "/restart"
)

type Client interface {
	SendText(ctx context.Context, request SendTextRequest) (SendResponse, error)
	SendMedia(ctx context.Context, request SendMediaRequest) (SendResponse, error)
	Status(ctx context.Context) (StatusResponse, error)
	Restart(ctx context.Context) error
}

type client struct {
	config Config
	http   httpclient.HTTPClient
}

func NewClient(cfg Config, httpClient httpclient.HTTPClient) Client {
	return &client{config: cfg, http: httpClient}
}

func (c *client) SendText(ctx context.Context, request SendTextRequest) (SendResponse, error) {
	return c.send(ctx, SendTextEndpoint, request)
}

func (c *client) SendMedia(ctx context.Context, request SendMediaRequest) (SendResponse, error) {
	if !request.Kind.Valid() {
		return SendResponse{}, ErrUnsupportedMedia
	}
	return c.send(ctx, request.endpoint(), request.body())
}

// send treats any accepted status as delivered. The gateway may omit
// messageId, in which case the response carries an empty id.
func (c *client) send(ctx context.Context, endpoint string, payload any) (SendResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return SendResponse{}, fmt.Errorf("encoding error: %w", err)
	}

	resp, err := c.http.Post(ctx, c.config.instanceURL()+endpoint, &buf, c.headers())
	if err != nil {
		return SendResponse{}, transportError(err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return SendResponse{}, MapStatusToError(resp.StatusCode)
	}

	// The message is accepted at this point; a body that cannot be read
	// or parsed only loses the ids.
	var response SendResponse
	if err := decode(resp, &response); err != nil {
		return SendResponse{}, nil
	}

	return response, nil
}

func (c *client) Status(ctx context.Context) (StatusResponse, error) {
	resp, err := c.http.Get(ctx, c.config.instanceURL()+StatusEndpoint, c.headers())
	if err != nil {
		return StatusResponse{}, transportError(err)
	}
	defer resp.Body.Close()

	var response StatusResponse
	if err := decode(resp, &response); err != nil {
		return StatusResponse{}, err
	}

	return response, nil
}

func (c *client) Restart(ctx context.Context) error {
	resp, err := c.http.Post(ctx, c.config.instanceURL()+RestartEndpoint, nil, c.headers())
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return MapStatusToError(resp.StatusCode)
	}

	return nil
}

func (c *client) headers() map[string]string {
	return map[string]string{
		"Client-Token": c.config.ClientToken,
		"Content-Type": "application/json",
	}
}

func decode(resp *http.Response, out any) error {
	if !isSuccess(resp.StatusCode) {
		return MapStatusToError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrNetwork
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return ErrInvalidResult
	}

	return nil
}

func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}

	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		return ErrTimeout
	}

	return ErrNetwork
}
