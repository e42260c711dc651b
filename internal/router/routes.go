package router

import (
	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-generator/outreach/internal/config"
	"github.com/octobees/leads-generator/outreach/internal/handler"
	middlewarepkg "github.com/octobees/leads-generator/outreach/internal/middleware"
)

// GeneratePath is the single pipeline endpoint.
const GeneratePath = "/generate-leads"

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Leads *handler.LeadsHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", handler.Health)

	// Every verb reaches the handler so non-POST requests get the JSON 405 body.
	e.Any(GeneratePath, handlers.Leads.Generate, middlewarepkg.RateLimiter(cfg.RateGenerate, GeneratePath))
	e.GET("/leads", handlers.Leads.List)
}
