package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Behyna/hisabkitab/internal/model"
	"github.com/Behyna/hisabkitab/pkg/mq"
	"go.uber.org/zap"
)

const DefaultBillQueue = "bill.issued"

type BillPublisher interface {
	Publish(ctx context.Context, event model.BillIssued) error
}

type billPublisher struct {
	publisher mq.Publisher
	queue     string
	logger    *zap.Logger
}

func NewBillPublisher(publisher mq.Publisher, queue string, logger *zap.Logger) BillPublisher {
	if queue == "" {
		queue = DefaultBillQueue
	}
	return &billPublisher{publisher: publisher, queue: queue, logger: logger}
}

func (b *billPublisher) Publish(ctx context.Context, event model.BillIssued) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal bill event: %w", err)
	}

	if err := b.publisher.Publish(ctx, "", b.queue, body); err != nil {
		return fmt.Errorf("publish bill event: %w", err)
	}

	b.logger.Debug("Bill event published",
		zap.Int64("transactionID", event.TransactionID),
		zap.String("queue", b.queue))

	return nil
}

// NopBillPublisher is used when the reminder queue is disabled.
type NopBillPublisher struct{}

func (NopBillPublisher) Publish(context.Context, model.BillIssued) error { return nil }
