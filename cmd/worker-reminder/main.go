package main

import (
	"context"

	"github.com/Behyna/hisabkitab/internal/config"
	"github.com/Behyna/hisabkitab/internal/consumers"
	"github.com/Behyna/hisabkitab/internal/metrics"
	"github.com/Behyna/hisabkitab/internal/publishers"
	"github.com/Behyna/hisabkitab/internal/service"
	"github.com/Behyna/hisabkitab/pkg/httpclient"
	"github.com/Behyna/hisabkitab/pkg/mq"
	"github.com/Behyna/hisabkitab/pkg/reminder"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewMetrics,
			NewMQConnection,
			NewMQConsumer,
			NewReminderProvider,
			NewReminderService,
			NewReminderConsumer,
		),
		fx.Invoke(runReminderConsumer),
	).Run()
}

func runReminderConsumer(cfg *config.Config, reminderConsumer consumers.ReminderConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle,
) {
	queue := billQueue(cfg)
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{queue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}
			logger.Info("queue declared", zap.String("queue", queue))

			go func() {
				if err := reminderConsumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("reminder consumer started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping reminder consumer")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}

func NewReminderProvider(cfg *config.Config) reminder.Provider {
	client := httpclient.NewHTTPClient(cfg.Reminder.Timeout)
	return reminder.NewWebhookProvider(cfg.Reminder, client)
}

func NewReminderService(provider reminder.Provider, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) service.ReminderService {
	return service.NewReminderService(provider, cfg.Reminder, logger, m)
}

func NewReminderConsumer(svc service.ReminderService, consumer mq.Consumer, cfg *config.Config, logger *zap.Logger) consumers.ReminderConsumer {
	return consumers.NewReminderConsumer(svc, consumer, billQueue(cfg), logger)
}

func billQueue(cfg *config.Config) string {
	if cfg.RabbitMQ.Queue == "" {
		return publishers.DefaultBillQueue
	}
	return cfg.RabbitMQ.Queue
}
