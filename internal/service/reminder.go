package service

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/hisabkitab/internal/bill"
	"github.com/Behyna/hisabkitab/internal/metrics"
	"github.com/Behyna/hisabkitab/internal/model"
	"github.com/Behyna/hisabkitab/internal/risk"
	"github.com/Behyna/hisabkitab/pkg/mq"
	"github.com/Behyna/hisabkitab/pkg/reminder"
	"go.uber.org/zap"
)

type ReminderService interface {
	Send(ctx context.Context, event model.BillIssued) error
}

type Reminder struct {
	provider reminder.Provider
	config   reminder.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewReminderService(provider reminder.Provider, config reminder.Config, logger *zap.Logger, metrics *metrics.Metrics) ReminderService {
	if config.MaxRetry <= 0 {
		config.MaxRetry = 1
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	return &Reminder{provider: provider, config: config, logger: logger, metrics: metrics}
}

// Send delivers the tone-specific reminder for a bill, retrying transient
// failures. Errors that survive every attempt are marked temporary so the
// queue redelivers them; rejected requests are not.
func (r *Reminder) Send(ctx context.Context, event model.BillIssued) error {
	tone := risk.Tone(event.Tone)
	msg := reminder.Message{
		Recipient: event.CustomerName,
		Text:      bill.Reminder(event.CustomerName, event.Total, tone),
		ShareLink: event.ShareLink,
		Reference: event.TransactionID,
	}

	var lastErr error
	for attempt := 1; attempt <= r.config.MaxRetry; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
		res, err := r.provider.Send(sendCtx, msg)
		cancel()

		if err == nil {
			r.metrics.RecordReminderSent(event.Tone, "success")
			r.logger.Info("Reminder sent successfully",
				zap.Int64("transactionID", event.TransactionID),
				zap.String("messageID", res.MessageID),
				zap.String("tone", event.Tone),
				zap.Int("attempt", attempt))
			return nil
		}

		lastErr = err
		r.logger.Warn("Reminder attempt failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Int64("transactionID", event.TransactionID))

		if errors.Is(err, reminder.ErrInvalidRequest) {
			r.metrics.RecordReminderSent(event.Tone, "rejected")
			r.logger.Error("Non-retryable error encountered",
				zap.Error(err),
				zap.Int64("transactionID", event.TransactionID))
			return err
		}

		if attempt < r.config.MaxRetry {
			delay := time.Duration(attempt) * 100 * time.Millisecond
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return mq.Temporary(ctx.Err())
			}
		}
	}

	r.metrics.RecordReminderSent(event.Tone, "error")
	r.logger.Error("All reminder attempts exhausted",
		zap.Error(lastErr),
		zap.Int("maxRetries", r.config.MaxRetry),
		zap.Int64("transactionID", event.TransactionID))

	return mq.Temporary(lastErr)
}
