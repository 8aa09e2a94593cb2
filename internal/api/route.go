package api

import (
	v1 "github.com/Behyna/hisabkitab/internal/api/v1"
	"github.com/Behyna/hisabkitab/internal/api/v1/middleware"
	"github.com/Behyna/hisabkitab/internal/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouteOptions carries the optional pieces of the HTTP surface. A nil
// Signer leaves the history endpoint open; a nil Gatherer skips /metrics.
type RouteOptions struct {
	Signer   *auth.Signer
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

func SetupRoutes(app *fiber.App, handler *v1.Handler, opts RouteOptions) {
	app.Get("/", handler.Home)
	app.Get("/ping", handler.Pong)

	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Post("/process/", handler.ProcessEntry)
	app.Post("/add_hisaab/", handler.ProcessEntry)

	if opts.Signer != nil {
		app.Get("/entries/", middleware.RequireToken(opts.Signer, opts.Logger), handler.ListEntries)
	} else {
		app.Get("/entries/", handler.ListEntries)
	}

	app.Put("/entries/:id", handler.UpdateEntry)
	app.Delete("/entries/:id", handler.DeleteEntry)
}
