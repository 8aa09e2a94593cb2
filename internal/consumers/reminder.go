package consumers

import (
	"context"
	"encoding/json"

	"github.com/Behyna/hisabkitab/internal/model"
	"github.com/Behyna/hisabkitab/internal/service"
	"github.com/Behyna/hisabkitab/pkg/mq"
	"go.uber.org/zap"
)

type ReminderConsumer interface {
	Consume(ctx context.Context) error
}

type reminderConsumer struct {
	service  service.ReminderService
	consumer mq.Consumer
	queue    string
	logger   *zap.Logger
}

func NewReminderConsumer(service service.ReminderService, consumer mq.Consumer, queue string, logger *zap.Logger) ReminderConsumer {
	return &reminderConsumer{
		service:  service,
		consumer: consumer,
		queue:    queue,
		logger:   logger,
	}
}

func (r *reminderConsumer) Consume(ctx context.Context) error {
	return r.consumer.Consume(ctx, 1, r.queue, r.handleMessage)
}

func (r *reminderConsumer) handleMessage(ctx context.Context, body []byte) error {
	var event model.BillIssued
	if err := json.Unmarshal(body, &event); err != nil {
		r.logger.Warn("invalid bill event", zap.Error(err), zap.ByteString("body", body))
		return err
	}

	r.logger.Debug("received bill event", zap.Int64("transactionID", event.TransactionID))

	return r.service.Send(ctx, event)
}
