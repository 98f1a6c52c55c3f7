package service

import (
	"context"
	"time"

	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/pkg/zapi"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const connectedKey = "connected"

type GatewayService interface {
	SendText(ctx context.Context, request zapi.SendTextRequest) (zapi.SendResponse, error)
	SendMedia(ctx context.Context, request zapi.SendMediaRequest) (zapi.SendResponse, error)
	IsConnected(ctx context.Context) bool
	Status(ctx context.Context) (GatewayStatus, error)
	SetConnected(connected bool)
	Restart(ctx context.Context) error
}

type gateway struct {
	client  zapi.Client
	cache   *cache.Cache
	metrics *metrics.Metrics
	logger  *zap.Logger
	config  config.Gateway
}

func NewGatewayService(client zapi.Client, metrics *metrics.Metrics, logger *zap.Logger, config *config.Config) GatewayService {
	ttl := config.Gateway.ConnectionCacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &gateway{
		client:  client,
		cache:   cache.New(ttl, 2*ttl),
		metrics: metrics,
		logger:  logger,
		config:  config.Gateway,
	}
}

// SendText retries temporary failures with a linear backoff. Rejected
// numbers and auth failures return immediately.
func (g *gateway) SendText(ctx context.Context, request zapi.SendTextRequest) (zapi.SendResponse, error) {
	if g.config.Pacing {
		request = request.Pace()
	}

	return g.deliver(ctx, "send_text", request.Phone, func(ctx context.Context) (zapi.SendResponse, error) {
		return g.client.SendText(ctx, request)
	})
}

func (g *gateway) SendMedia(ctx context.Context, request zapi.SendMediaRequest) (zapi.SendResponse, error) {
	if g.config.Pacing {
		request = request.Pace()
	}

	return g.deliver(ctx, "send_media", request.Phone, func(ctx context.Context) (zapi.SendResponse, error) {
		return g.client.SendMedia(ctx, request)
	})
}

func (g *gateway) deliver(ctx context.Context, operation, to string,
	call func(ctx context.Context) (zapi.SendResponse, error)) (zapi.SendResponse, error) {
	maxRetry := max(g.config.MaxRetry, 1)

	var lastErr error
	for attempt := 1; attempt <= maxRetry; attempt++ {
		g.logger.Debug("Attempting to send WhatsApp message",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.String("to", to))

		callCtx, cancel := g.callContext(ctx)
		start := time.Now()

		response, err := call(callCtx)
		cancel()

		if err == nil {
			g.metrics.RecordGatewayCall(operation, "success", time.Since(start))
			g.logger.Info("WhatsApp message sent",
				zap.String("messageID", response.MessageID),
				zap.String("zaapID", response.ZaapID),
				zap.Int("attempt", attempt))
			return response, nil
		}

		g.metrics.RecordGatewayCall(operation, "error", time.Since(start))
		lastErr = err
		g.logger.Warn("WhatsApp send attempt failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.String("to", to))

		if !zapi.Retryable(err) {
			g.logger.Error("Non-retryable error encountered",
				zap.Error(err),
				zap.String("to", to))
			return zapi.SendResponse{}, err
		}

		if attempt < maxRetry {
			delay := time.Duration(attempt) * g.config.RetryBackoff
			g.logger.Debug("Waiting before retry", zap.Duration("delay", delay))

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zapi.SendResponse{}, ctx.Err()
			}
		}
	}

	g.logger.Error("All retry attempts exhausted",
		zap.Error(lastErr),
		zap.Int("maxRetries", maxRetry),
		zap.String("to", to))

	return zapi.SendResponse{}, lastErr
}

// IsConnected serves the cached state and asks the gateway only when the
// entry expired. A failed status call counts as disconnected.
func (g *gateway) IsConnected(ctx context.Context) bool {
	if cached, ok := g.cache.Get(connectedKey); ok {
		return cached.(bool)
	}

	status, err := g.Status(ctx)
	if err != nil {
		return false
	}

	return status.Connected
}

func (g *gateway) Status(ctx context.Context) (GatewayStatus, error) {
	callCtx, cancel := g.callContext(ctx)
	defer cancel()

	start := time.Now()
	response, err := g.client.Status(callCtx)
	if err != nil {
		g.metrics.RecordGatewayCall("status", "error", time.Since(start))
		g.logger.Warn("Failed to read gateway status", zap.Error(err))
		return GatewayStatus{}, NewServiceError(constants.ErrCodeRemoteAPIError, err)
	}

	g.metrics.RecordGatewayCall("status", "success", time.Since(start))
	g.SetConnected(response.Connected)

	return GatewayStatus{
		Connected:           response.Connected,
		SmartphoneConnected: response.SmartphoneConnected,
		Error:               response.Error,
	}, nil
}

func (g *gateway) SetConnected(connected bool) {
	g.cache.SetDefault(connectedKey, connected)
	g.metrics.SetGatewayConnected(connected)
}

func (g *gateway) Restart(ctx context.Context) error {
	callCtx, cancel := g.callContext(ctx)
	defer cancel()

	start := time.Now()
	if err := g.client.Restart(callCtx); err != nil {
		g.metrics.RecordGatewayCall("restart", "error", time.Since(start))
		g.logger.Error("Failed to restart gateway instance", zap.Error(err))
		return NewServiceError(constants.ErrCodeRemoteAPIError, err)
	}

	g.metrics.RecordGatewayCall("restart", "success", time.Since(start))
	g.cache.Delete(connectedKey)
	g.logger.Info("Gateway instance restarted")

	return nil
}

func (g *gateway) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.config.Timeout)
}
