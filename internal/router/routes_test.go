package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/octobees/leads-generator/outreach/internal/apollo"
	"github.com/octobees/leads-generator/outreach/internal/config"
	"github.com/octobees/leads-generator/outreach/internal/dto"
	"github.com/octobees/leads-generator/outreach/internal/entity"
	"github.com/octobees/leads-generator/outreach/internal/export"
	"github.com/octobees/leads-generator/outreach/internal/handler"
	"github.com/octobees/leads-generator/outreach/internal/scraper"
	"github.com/octobees/leads-generator/outreach/internal/service"
)

type emptySearcher struct{}

func (emptySearcher) SearchOrganizations(context.Context, apollo.Criteria) ([]apollo.Organization, error) {
	return nil, nil
}

type noopScraper struct{}

func (noopScraper) Scrape(context.Context, string) scraper.Insight { return scraper.Insight{} }

type noopGenerator struct{}

func (noopGenerator) Generate(context.Context, string) (string, error) { return "", nil }

type emptyRepo struct{}

func (emptyRepo) InsertBatch(context.Context, []entity.Lead) ([]entity.Lead, error) {
	return []entity.Lead{}, nil
}

func (emptyRepo) List(context.Context, dto.ListFilter) ([]entity.Lead, error) {
	return []entity.Lead{}, nil
}

func newTestServer(t *testing.T, cfg *config.Config) *echo.Echo {
	t.Helper()
	svc := service.NewLeadService(emptySearcher{}, noopScraper{}, noopGenerator{}, emptyRepo{},
		export.NewFileSink(filepath.Join(t.TempDir(), "leads.json")), service.Options{})
	e := echo.New()
	Register(e, cfg, Handlers{Leads: handler.NewLeadsHandler(svc)})
	return e
}

func serve(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRegister_Routes(t *testing.T) {
	e := newTestServer(t, &config.Config{})

	rec := serve(e, http.MethodGet, "/generate-leads")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, rec.Body.String())

	rec = serve(e, http.MethodPost, "/generate-leads")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"leads":[]}`, rec.Body.String())

	rec = serve(e, http.MethodGet, "/leads")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodGet, "/healthz")
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRegister_GenerateRateLimited(t *testing.T) {
	e := newTestServer(t, &config.Config{RateGenerate: config.RateLimitConfig{Requests: 1, Interval: time.Minute}})

	assert.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/generate-leads").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(e, http.MethodPost, "/generate-leads").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(e, http.MethodGet, "/generate-leads").Code)
}
