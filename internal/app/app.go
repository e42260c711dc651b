// Package app assembles the lead pipeline and its HTTP server from configuration.
package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/octobees/leads-generator/outreach/internal/apollo"
	"github.com/octobees/leads-generator/outreach/internal/config"
	"github.com/octobees/leads-generator/outreach/internal/database"
	"github.com/octobees/leads-generator/outreach/internal/export"
	"github.com/octobees/leads-generator/outreach/internal/handler"
	"github.com/octobees/leads-generator/outreach/internal/llm"
	middlewarepkg "github.com/octobees/leads-generator/outreach/internal/middleware"
	"github.com/octobees/leads-generator/outreach/internal/repository"
	"github.com/octobees/leads-generator/outreach/internal/router"
	"github.com/octobees/leads-generator/outreach/internal/scraper"
	"github.com/octobees/leads-generator/outreach/internal/service"
)

// App owns the long-lived resources behind the pipeline.
type App struct {
	Config  *config.Config
	Pool    *pgxpool.Pool
	Service *service.LeadService
}

// New connects to the database and wires every pipeline collaborator.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := database.Connect(ctx, cfg.DatabaseURL, cfg.Database)
	if err != nil {
		return nil, eris.Wrap(err, "connect database")
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "migrate database")
	}

	svc, err := NewService(cfg, repository.NewPGXLeadsRepository(pool))
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &App{Config: cfg, Pool: pool, Service: svc}, nil
}

// NewService builds the lead service on top of repo.
func NewService(cfg *config.Config, repo repository.LeadsRepository) (*service.LeadService, error) {
	generator, err := llm.New(llm.Options{
		Provider:  cfg.LLM.Provider,
		APIKey:    llmAPIKey(cfg),
		BaseURL:   cfg.OpenAI.BaseURL,
		Model:     llmModel(cfg),
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLM.Timeout,
	})
	if err != nil {
		return nil, eris.Wrap(err, "build message generator")
	}

	searcher := apollo.NewClient(&http.Client{Timeout: cfg.Apollo.Timeout}, cfg.Apollo.BaseURL, cfg.Apollo.APIKey)
	homepage := scraper.New(&http.Client{Timeout: cfg.Scrape.Timeout}, cfg.Scrape.UserAgent, cfg.Scrape.BlockedDomains)

	return service.NewLeadService(searcher, homepage, generator, repo, export.NewFileSink(cfg.Output.Path), service.Options{
		Criteria: apollo.Criteria{
			EmployeeRange: cfg.Search.EmployeeRange,
			Industry:      cfg.Search.Industry,
			Location:      cfg.Search.Location,
			PerPage:       cfg.Search.PerPage,
		},
		MaxLeads: cfg.Search.MaxLeads,
		Prompts:  service.NewPromptBuilder(cfg.Outreach.Persona, cfg.Search.Industry, cfg.Search.EmployeeRange),
	}), nil
}

func llmAPIKey(cfg *config.Config) string {
	if strings.EqualFold(strings.TrimSpace(cfg.LLM.Provider), llm.ProviderAnthropic) {
		return cfg.Anthropic.APIKey
	}
	return cfg.OpenAI.APIKey
}

func llmModel(cfg *config.Config) string {
	if strings.EqualFold(strings.TrimSpace(cfg.LLM.Provider), llm.ProviderAnthropic) {
		return cfg.Anthropic.Model
	}
	return cfg.OpenAI.Model
}

// Close releases the database pool.
func (a *App) Close() {
	a.Pool.Close()
}

// Echo builds the HTTP server with middleware and routes.
func (a *App) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, a.Config, router.Handlers{
		Leads: handler.NewLeadsHandler(a.Service),
	})
	return e
}

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts down gracefully.
func (a *App) Serve() error {
	e := a.Echo()

	serverErr := make(chan error, 1)
	go func() {
		zap.L().Info("http server listening", zap.String("port", a.Config.Port))
		serverErr <- e.Start(":" + a.Config.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		zap.L().Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "http server")
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "graceful shutdown")
	}
	return nil
}
