package api

import (
	"github.com/Behyna/hisabkitab/internal/api/v1/middleware"
	"github.com/Behyna/hisabkitab/internal/config"
	apperrors "github.com/Behyna/hisabkitab/internal/errors"
	"github.com/Behyna/hisabkitab/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

const serviceName = "hisabkitab-api"

// NewApp builds the fiber app with panic recovery, error handling, track ids,
// health and request metrics installed. Routes are added by SetupRoutes.
func NewApp(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics, db *metrics.DatabaseMetricsCollector) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.API.Engine,
		ErrorHandler: apperrors.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(middleware.TrackID())
	app.Use(metrics.HealthCheckMiddleware(serviceName, db))
	if cfg.Metrics.Enabled {
		app.Use(metrics.HTTPMetricsMiddleware(m, logger))
	}

	return app
}
