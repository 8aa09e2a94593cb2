package mq_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Behyna/hisabkitab/pkg/mq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nack struct {
	tag     uint64
	requeue bool
}

type fakeAcknowledger struct {
	mu    sync.Mutex
	acks  []uint64
	nacks []nack
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks = append(a.acks, tag)
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacks = append(a.nacks, nack{tag: tag, requeue: requeue})
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type fakeChannel struct {
	deliveries chan amqp.Delivery
	prefetch   int
	queue      string
	cancelled  bool
	qosErr     error
}

func (f *fakeChannel) Qos(prefetchCount, prefetchSize int, global bool) error {
	f.prefetch = prefetchCount
	return f.qosErr
}

func (f *fakeChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	f.queue = queue
	return f.deliveries, nil
}

func (f *fakeChannel) Cancel(consumer string, noWait bool) error {
	f.cancelled = true
	return nil
}

func TestRabbitConsumer_AckNackRouting(t *testing.T) {
	ack := &fakeAcknowledger{}
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery, 3)}
	for tag, body := range []string{"ok", "webhook-down", "bad-payload"} {
		ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: uint64(tag + 1), Body: []byte(body)}
	}
	close(ch.deliveries)

	handler := func(ctx context.Context, body []byte) error {
		switch string(body) {
		case "webhook-down":
			return mq.Temporary(errors.New("503 from webhook"))
		case "bad-payload":
			return errors.New("invalid json")
		}
		return nil
	}

	err := mq.NewRabbitConsumer(ch).Consume(context.Background(), 0, "bill.issued", handler)

	require.NoError(t, err)
	assert.Equal(t, 1, ch.prefetch)
	assert.Equal(t, "bill.issued", ch.queue)
	assert.Equal(t, []uint64{1}, ack.acks)
	assert.Equal(t, []nack{{tag: 2, requeue: true}, {tag: 3, requeue: false}}, ack.nacks)
}

func TestRabbitConsumer_StopsOnContextCancel(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mq.NewRabbitConsumer(ch).Consume(ctx, 5, "bill.issued", func(context.Context, []byte) error {
		t.Fatal("handler must not run")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, ch.cancelled)
	assert.Equal(t, 5, ch.prefetch)
}

func TestRabbitConsumer_QosFailure(t *testing.T) {
	qosErr := errors.New("channel closed")
	ch := &fakeChannel{qosErr: qosErr}

	err := mq.NewRabbitConsumer(ch).Consume(context.Background(), 1, "bill.issued", nil)

	assert.ErrorIs(t, err, qosErr)
	assert.Empty(t, ch.queue)
}
