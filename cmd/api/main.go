package main

import (
	"context"

	"github.com/Behyna/hisabkitab/internal/api"
	v1 "github.com/Behyna/hisabkitab/internal/api/v1"
	"github.com/Behyna/hisabkitab/internal/api/validator"
	"github.com/Behyna/hisabkitab/internal/auth"
	"github.com/Behyna/hisabkitab/internal/bill"
	"github.com/Behyna/hisabkitab/internal/config"
	"github.com/Behyna/hisabkitab/internal/metrics"
	"github.com/Behyna/hisabkitab/internal/publishers"
	"github.com/Behyna/hisabkitab/internal/repository"
	"github.com/Behyna/hisabkitab/internal/service"
	"github.com/Behyna/hisabkitab/pkg/gormdb"
	"github.com/Behyna/hisabkitab/pkg/mq"
	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewConnectionDB,
			NewRegistry,
			NewMetrics,
			NewDatabaseMetricsCollector,
			NewSystemCollector,
			NewBillPublisher,
			NewRenderer,
			NewSigner,

			repository.NewCustomerRepository,
			repository.NewEntryRepository,
			repository.NewTransactionManager,

			service.NewEntryService,

			playground.New,
			validator.NewXValidator,
			v1.NewHandler,
			api.NewApp,
		),
		fx.Invoke(startServer),
	).Run()
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, logger *zap.Logger, db *gorm.DB,
	registry *prometheus.Registry, signer *auth.Signer, dbCollector *metrics.DatabaseMetricsCollector,
	systemCollector *metrics.SystemCollector, lc fx.Lifecycle,
) {
	opts := api.RouteOptions{Signer: signer, Logger: logger}
	if cfg.Metrics.Enabled {
		opts.Gatherer = registry
	}
	api.SetupRoutes(app, handler, opts)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Metrics.Enabled {
				dbCollector.Start(cfg.Metrics.Interval)
				systemCollector.Start(cfg.Metrics.Interval)
			}

			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("server stopped", zap.Error(err))
				}
			}()

			logger.Info("api started", zap.String("port", cfg.API.Port), zap.Bool("auth", signer != nil))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping api")
			err := app.ShutdownWithContext(ctx)
			dbCollector.Stop()
			systemCollector.Stop()
			if closeErr := gormdb.Close(db); closeErr != nil {
				logger.Warn("failed to close database", zap.Error(closeErr))
			}
			return err
		},
	})
}

// NewConnectionDB opens the store and ensures the schema once at startup.
func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	db, err := gormdb.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if err := repository.EnsureSchema(db); err != nil {
		logger.Error("failed to ensure schema", zap.Error(err))
		return nil, err
	}

	return db, nil
}

func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func NewMetrics(registry *prometheus.Registry) *metrics.Metrics {
	return metrics.NewMetrics(registry)
}

func NewDatabaseMetricsCollector(m *metrics.Metrics, logger *zap.Logger, db *gorm.DB, cfg *config.Config) (*metrics.DatabaseMetricsCollector, error) {
	collector := metrics.NewDatabaseMetricsCollector(m, logger, db)
	if cfg.Metrics.Enabled {
		if err := collector.Instrument(db); err != nil {
			return nil, err
		}
	}
	return collector, nil
}

func NewSystemCollector(m *metrics.Metrics, logger *zap.Logger, cfg *config.Config) *metrics.SystemCollector {
	return metrics.NewSystemCollector(m, logger, cfg.Metrics.Version)
}

func NewRenderer(cfg *config.Config) *bill.Renderer {
	return bill.NewRenderer(cfg.Bill)
}

// NewSigner returns nil when auth is disabled, which leaves the history
// endpoint open.
func NewSigner(cfg *config.Config) (*auth.Signer, error) {
	if !cfg.Auth.Enabled {
		return nil, nil
	}
	return auth.NewSigner(cfg.Auth.Secret, cfg.Auth.TTL)
}

// NewBillPublisher connects to RabbitMQ when the reminder queue is enabled
// and falls back to a no-op publisher otherwise.
func NewBillPublisher(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) (publishers.BillPublisher, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("reminder queue disabled, bill events are not published")
		return publishers.NopBillPublisher{}, nil
	}

	rabbit, err := mq.NewConnection(cfg.RabbitMQ, logger)
	if err != nil {
		return nil, err
	}

	queue := cfg.RabbitMQ.Queue
	if queue == "" {
		queue = publishers.DefaultBillQueue
	}
	if err := rabbit.DeclareTopology([]string{queue}); err != nil {
		_ = rabbit.Close()
		return nil, err
	}

	publisher, err := rabbit.CreatePublisher()
	if err != nil {
		_ = rabbit.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = publisher.Close()
			return rabbit.Close()
		},
	})

	return publishers.NewBillPublisher(publisher, queue, logger), nil
}
