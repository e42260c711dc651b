package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxRequestIDLength = 128

// RequestID propagates X-Request-ID, generating a UUID when the caller sent none
// or sent something unusable.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := strings.TrimSpace(c.Request().Header.Get(echo.HeaderXRequestID))
			if rid == "" || len(rid) > maxRequestIDLength || strings.ContainsAny(rid, "\r\n") {
				rid = uuid.NewString()
			}

			c.Set(ContextKeyRequestID, rid)
			c.Response().Header().Set(echo.HeaderXRequestID, rid)

			return next(c)
		}
	}
}

// RequestIDFromContext returns the request identifier, or "" outside the middleware.
func RequestIDFromContext(c echo.Context) string {
	if val, ok := c.Get(ContextKeyRequestID).(string); ok {
		return val
	}
	return ""
}
