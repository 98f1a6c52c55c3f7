package mq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Handle func(ctx context.Context, body []byte) error

type Consumer interface {
	Consume(ctx context.Context, prefetch int, queue string, handler Handle) error
}

type publishFunc func(ctx context.Context, routingKey string, msg amqp.Publishing) error

type RabbitConsumer struct {
	ch      *amqp.Channel
	policy  RetryPolicy
	publish publishFunc
	logger  *zap.Logger
}

func NewRabbitConsumer(ch *amqp.Channel, policy RetryPolicy, logger *zap.Logger) Consumer {
	c := &RabbitConsumer{ch: ch, policy: policy, logger: logger}
	c.publish = func(ctx context.Context, routingKey string, msg amqp.Publishing) error {
		return ch.PublishWithContext(ctx, "", routingKey, false, false, msg)
	}
	return c
}

func (c *RabbitConsumer) Consume(ctx context.Context, prefetch int, queue string, handler Handle) error {
	if prefetch <= 0 {
		prefetch = 1
	}

	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := c.ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.settle(ctx, queue, d, handler(ctx, d.Body))
		}
	}
}

// settle acks handled deliveries, moves temporary failures to the retry
// queue and nacks the rest into the dead-letter queue. When the retry
// publish fails the delivery is requeued in place.
func (c *RabbitConsumer) settle(ctx context.Context, queue string, d amqp.Delivery, err error) Outcome {
	attempts := retryCount(d.Headers)
	outcome := c.policy.Decide(err, attempts)

	if outcome != OutcomeAck {
		c.logger.Warn("Delivery failed",
			zap.String("queue", queue),
			zap.String("messageID", d.MessageId),
			zap.Int("attempts", attempts),
			zap.Stringer("outcome", outcome),
			zap.Error(err))
	}

	switch outcome {
	case OutcomeAck:
		_ = d.Ack(false)

	case OutcomeDeadLetter:
		_ = d.Nack(false, false)

	case OutcomeRetry:
		if perr := c.publish(ctx, RetryQueue(queue), retryPublishing(d, attempts+1)); perr != nil {
			c.logger.Error("Failed to park delivery for retry", zap.String("queue", queue), zap.Error(perr))
			_ = d.Nack(false, true)
			return outcome
		}
		_ = d.Ack(false)
	}

	return outcome
}
