package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/leads-generator/outreach/internal/dto"
	"github.com/octobees/leads-generator/outreach/internal/middleware"
	"github.com/octobees/leads-generator/outreach/internal/service"
)

// LeadsHandler exposes the lead generation endpoints.
type LeadsHandler struct {
	service *service.LeadService
}

// NewLeadsHandler creates a new handler instance.
func NewLeadsHandler(service *service.LeadService) *LeadsHandler {
	return &LeadsHandler{service: service}
}

// Generate handles /generate-leads. Only POST runs the pipeline.
func (h *LeadsHandler) Generate(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return Error(c, http.StatusMethodNotAllowed, "Method not allowed")
	}

	// A started run finishes even if the client disconnects.
	ctx := context.WithoutCancel(c.Request().Context())

	result, err := h.service.Generate(ctx)
	if err != nil {
		zap.L().Error("lead generation failed",
			zap.String("request_id", middleware.RequestIDFromContext(c)),
			zap.Error(err),
		)
		return Error(c, http.StatusInternalServerError, err.Error())
	}

	return Leads(c, http.StatusOK, result.Leads)
}

// List handles GET /leads requests.
func (h *LeadsHandler) List(c echo.Context) error {
	filter := dto.ListFilter{
		Page:    parseIntDefault(c.QueryParam("page"), 1),
		PerPage: parseIntDefault(c.QueryParam("per_page"), 20),
	}

	leads, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		zap.L().Error("list leads failed", zap.Error(err))
		return Error(c, http.StatusInternalServerError, "failed to list leads")
	}

	return Leads(c, http.StatusOK, leads)
}

// Health handles GET /healthz.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func parseIntDefault(value string, fallback int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
