package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-generator/outreach/internal/dto"
	"github.com/octobees/leads-generator/outreach/internal/entity"
)

// Leads writes the {"leads": [...]} body. The array is never null.
func Leads(c echo.Context, status int, leads []entity.Lead) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, dto.LeadsResponse{Leads: dto.NewLeadRecords(leads)})
}

// Error writes the {"error": "..."} body used for every failure.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, dto.ErrorResponse{Error: message})
}
