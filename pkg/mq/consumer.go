package mq

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Handle func(ctx context.Context, body []byte) error

type Consumer interface {
	Consume(ctx context.Context, prefetch int, queue string, handler Handle) error
}

// ConsumeChannel is the part of *amqp.Channel the consumer drives.
type ConsumeChannel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Cancel(consumer string, noWait bool) error
}

type RabbitConsumer struct {
	ch ConsumeChannel
}

func NewRabbitConsumer(ch ConsumeChannel) Consumer {
	return &RabbitConsumer{ch: ch}
}

// Consume blocks, dispatching deliveries to handler until ctx is cancelled or
// the channel closes. Successful deliveries are acked; failures are nacked and
// requeued only when the error is temporary.
func (c *RabbitConsumer) Consume(ctx context.Context, prefetch int, queue string, handler Handle) error {
	if prefetch <= 0 {
		prefetch = 1
	}

	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set qos on %s: %w", queue, err)
	}

	deliveries, err := c.ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			_ = c.ch.Cancel("", false)
			return ctx.Err()

		case d, ok := <-deliveries:
			if !ok {
				return nil
			}

			if err := handler(ctx, d.Body); err != nil {
				_ = d.Nack(false, ShouldRequeue(err))
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func ShouldRequeue(err error) bool {
	var te interface{ Temporary() bool }
	return errors.As(err, &te) && te.Temporary()
}
