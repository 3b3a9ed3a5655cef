package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/expert-qa/server/internal/api/http/handlers"
)

// Routes bundles the handlers to register. Usage may be nil when the ledger is off.
type Routes struct {
	Form   *handlers.FormHandler
	Ask    *handlers.AskHandler
	Health *handlers.HealthHandler
	Usage  *handlers.UsageHandler
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, r Routes) {
	app.Get("/", r.Form.Show)
	app.Post("/", r.Form.Submit)

	v1 := app.Group("/api").Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", r.Health.Health)
	v1.Get("/ready", r.Health.Ready)

	v1.Post("/ask", r.Ask.Ask)

	if r.Usage != nil {
		v1.Get("/usage", r.Usage.List)
	}
}
