package mq

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Config struct {
	URL             string        `mapstructure:"url"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
	MaxRedeliveries int           `mapstructure:"max_redeliveries"`
}

func (c Config) RetryPolicy() RetryPolicy {
	return RetryPolicy{Delay: c.RetryDelay, MaxRedeliveries: c.MaxRedeliveries}
}

type RabbitMQ struct {
	conn   *amqp.Connection
	policy RetryPolicy
	logger *zap.Logger
}

func NewConnection(cfg Config, logger *zap.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	logger.Info("Successfully connected to RabbitMQ")

	return &RabbitMQ{conn: conn, policy: cfg.RetryPolicy(), logger: logger}, nil
}

func (r *RabbitMQ) OpenChannel() (*amqp.Channel, error) {
	if r.conn == nil || r.conn.IsClosed() {
		return nil, fmt.Errorf("connection is closed")
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return ch, nil
}

// DeclareTopology declares, for every work queue, its dead-letter queue
// and a retry queue whose TTL expires deliveries back into the work queue.
// A work queue declared earlier without these arguments must be deleted
// first; the broker refuses to change queue arguments.
func (r *RabbitMQ) DeclareTopology(queues ...string) error {
	ch, err := r.OpenChannel()
	if err != nil {
		return fmt.Errorf("failed to open channel for topology: %w", err)
	}
	defer ch.Close()

	delay := r.policy.delay()
	for _, queue := range queues {
		declare := []struct {
			name string
			args amqp.Table
		}{
			{DeadLetterQueue(queue), nil},
			{RetryQueue(queue), retryQueueArgs(queue, delay)},
			{queue, workQueueArgs(queue)},
		}

		for _, q := range declare {
			if _, err := ch.QueueDeclare(q.name, true, false, false, false, q.args); err != nil {
				return fmt.Errorf("failed to declare queue %s: %w", q.name, err)
			}
		}

		r.logger.Info("Queue topology declared",
			zap.String("queue", queue),
			zap.String("deadLetter", DeadLetterQueue(queue)),
			zap.String("retry", RetryQueue(queue)),
			zap.Duration("retryDelay", delay))
	}

	return nil
}

func (r *RabbitMQ) CreatePublisher() (Publisher, error) {
	ch, err := r.OpenChannel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel for publisher: %w", err)
	}

	publisher, err := NewRabbitPublisher(ch)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}

	return publisher, nil
}

func (r *RabbitMQ) CreateConsumer() (Consumer, error) {
	ch, err := r.OpenChannel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel for consumer: %w", err)
	}

	return NewRabbitConsumer(ch, r.policy, r.logger), nil
}

func (r *RabbitMQ) Close() error {
	if r.conn != nil && !r.conn.IsClosed() {
		return r.conn.Close()
	}

	return nil
}
