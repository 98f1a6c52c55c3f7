package mq

import (
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	headerRetryCount = "x-retry-count"

	deadLetterSuffix = ".dead"
	retrySuffix      = ".retry"

	defaultRetryDelay = 30 * time.Second
)

// DeadLetterQueue keeps deliveries the work queue rejected for good.
func DeadLetterQueue(queue string) string { return queue + deadLetterSuffix }

// RetryQueue parks deliveries until their TTL sends them back to queue.
func RetryQueue(queue string) string { return queue + retrySuffix }

type Outcome int

const (
	OutcomeAck Outcome = iota
	OutcomeRetry
	OutcomeDeadLetter
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAck:
		return "ack"
	case OutcomeRetry:
		return "retry"
	case OutcomeDeadLetter:
		return "dead_letter"
	}
	return "unknown"
}

type RetryPolicy struct {
	Delay           time.Duration
	MaxRedeliveries int
}

func (p RetryPolicy) delay() time.Duration {
	if p.Delay <= 0 {
		return defaultRetryDelay
	}
	return p.Delay
}

// Decide settles a handled delivery. Only temporary failures go back
// through the retry queue, and only until MaxRedeliveries is reached.
func (p RetryPolicy) Decide(err error, attempts int) Outcome {
	switch {
	case err == nil:
		return OutcomeAck
	case !shouldRequeue(err):
		return OutcomeDeadLetter
	case p.MaxRedeliveries > 0 && attempts >= p.MaxRedeliveries:
		return OutcomeDeadLetter
	}
	return OutcomeRetry
}

func workQueueArgs(queue string) amqp.Table {
	return amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": DeadLetterQueue(queue),
	}
}

func retryQueueArgs(queue string, delay time.Duration) amqp.Table {
	return amqp.Table{
		"x-message-ttl":             delay.Milliseconds(),
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": queue,
	}
}

func retryCount(headers amqp.Table) int {
	switch v := headers[headerRetryCount].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func retryPublishing(d amqp.Delivery, attempts int) amqp.Publishing {
	headers := amqp.Table{}
	for k, v := range d.Headers {
		headers[k] = v
	}
	headers[headerRetryCount] = int32(attempts)

	return amqp.Publishing{
		ContentType:  d.ContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    d.MessageId,
		Timestamp:    d.Timestamp,
		Headers:      headers,
		Body:         d.Body,
	}
}
