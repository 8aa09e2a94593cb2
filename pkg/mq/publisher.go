package mq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	Publish(ctx context.Context, exchange string, routingKey string, body []byte) error
	Close() error
}

// PublishChannel is the part of *amqp.Channel the publisher drives.
type PublishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitPublisher struct {
	ch PublishChannel
}

func NewRabbitPublisher(ch PublishChannel) Publisher { return &RabbitPublisher{ch: ch} }

// Publish sends body as a persistent JSON message.
func (r *RabbitPublisher) Publish(ctx context.Context, exchange string, routingKey string, body []byte) error {
	return r.ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (r *RabbitPublisher) Close() error {
	if r.ch == nil {
		return nil
	}
	return r.ch.Close()
}
