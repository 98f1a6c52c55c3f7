package mq

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type settled struct {
	acked    bool
	nacked   bool
	requeued bool
}

func (s *settled) Ack(tag uint64, multiple bool) error {
	s.acked = true
	return nil
}

func (s *settled) Nack(tag uint64, multiple bool, requeue bool) error {
	s.nacked = true
	s.requeued = requeue
	return nil
}

func (s *settled) Reject(tag uint64, requeue bool) error {
	return s.Nack(tag, false, requeue)
}

type parked struct {
	routingKey string
	msg        amqp.Publishing
	calls      int
}

func newTestConsumer(policy RetryPolicy, publishErr error) (*RabbitConsumer, *parked) {
	p := &parked{}
	c := &RabbitConsumer{policy: policy, logger: zap.NewNop()}
	c.publish = func(ctx context.Context, routingKey string, msg amqp.Publishing) error {
		p.calls++
		p.routingKey = routingKey
		p.msg = msg
		return publishErr
	}
	return c, p
}

func delivery(ack amqp.Acknowledger, headers amqp.Table) amqp.Delivery {
	return amqp.Delivery{
		Acknowledger: ack,
		DeliveryTag:  1,
		MessageId:    "msg-1",
		ContentType:  "application/json",
		Headers:      headers,
		Body:         []byte(`{"phone":"21999998888","body":"hi"}`),
	}
}

func TestRetryPolicy_Decide(t *testing.T) {
	policy := RetryPolicy{Delay: time.Second, MaxRedeliveries: 3}
	temporary := Temporary(errors.New("gateway down"))

	assert.Equal(t, OutcomeAck, policy.Decide(nil, 0))
	assert.Equal(t, OutcomeRetry, policy.Decide(temporary, 0))
	assert.Equal(t, OutcomeRetry, policy.Decide(temporary, 2))
	assert.Equal(t, OutcomeDeadLetter, policy.Decide(temporary, 3))
	assert.Equal(t, OutcomeDeadLetter, policy.Decide(errors.New("rejected"), 0))

	unbounded := RetryPolicy{}
	assert.Equal(t, OutcomeRetry, unbounded.Decide(temporary, 100))
}

func TestQueueArgs(t *testing.T) {
	work := workQueueArgs("whatsapp.send")
	assert.Equal(t, "", work["x-dead-letter-exchange"])
	assert.Equal(t, "whatsapp.send.dead", work["x-dead-letter-routing-key"])
	assert.NoError(t, work.Validate())

	retry := retryQueueArgs("whatsapp.send", 30*time.Second)
	assert.Equal(t, int64(30000), retry["x-message-ttl"])
	assert.Equal(t, "whatsapp.send", retry["x-dead-letter-routing-key"])
	assert.NoError(t, retry.Validate())

	assert.Equal(t, defaultRetryDelay, RetryPolicy{}.delay())
}

func TestRabbitConsumer_Settle(t *testing.T) {
	ctx := context.Background()
	policy := RetryPolicy{Delay: time.Second, MaxRedeliveries: 2}

	t.Run("acks handled deliveries", func(t *testing.T) {
		c, p := newTestConsumer(policy, nil)
		ack := &settled{}

		outcome := c.settle(ctx, "whatsapp.send", delivery(ack, nil), nil)

		assert.Equal(t, OutcomeAck, outcome)
		assert.True(t, ack.acked)
		assert.Zero(t, p.calls)
	})

	t.Run("parks temporary failures on the retry queue", func(t *testing.T) {
		c, p := newTestConsumer(policy, nil)
		ack := &settled{}

		outcome := c.settle(ctx, "whatsapp.send", delivery(ack, amqp.Table{"trace": "t-1"}), Temporary(errors.New("timeout")))

		assert.Equal(t, OutcomeRetry, outcome)
		assert.True(t, ack.acked)
		assert.False(t, ack.nacked)
		require.Equal(t, 1, p.calls)
		assert.Equal(t, "whatsapp.send.retry", p.routingKey)
		assert.Equal(t, int32(1), p.msg.Headers[headerRetryCount])
		assert.Equal(t, "t-1", p.msg.Headers["trace"])
		assert.Equal(t, "msg-1", p.msg.MessageId)
		assert.Equal(t, amqp.Persistent, p.msg.DeliveryMode)
	})

	t.Run("dead-letters once redeliveries run out", func(t *testing.T) {
		c, p := newTestConsumer(policy, nil)
		ack := &settled{}

		outcome := c.settle(ctx, "whatsapp.send", delivery(ack, amqp.Table{headerRetryCount: int32(2)}), Temporary(errors.New("timeout")))

		assert.Equal(t, OutcomeDeadLetter, outcome)
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeued)
		assert.Zero(t, p.calls)
	})

	t.Run("dead-letters permanent failures", func(t *testing.T) {
		c, _ := newTestConsumer(policy, nil)
		ack := &settled{}

		outcome := c.settle(ctx, "whatsapp.send", delivery(ack, nil), errors.New("invalid phone"))

		assert.Equal(t, OutcomeDeadLetter, outcome)
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeued)
	})

	t.Run("requeues in place when the retry queue is unreachable", func(t *testing.T) {
		c, _ := newTestConsumer(policy, errors.New("channel closed"))
		ack := &settled{}

		c.settle(ctx, "whatsapp.send", delivery(ack, nil), Temporary(errors.New("timeout")))

		assert.False(t, ack.acked)
		assert.True(t, ack.nacked)
		assert.True(t, ack.requeued)
	})
}
