package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/leads-generator/outreach/internal/config"
	"github.com/octobees/leads-generator/outreach/internal/dto"
)

// RateLimiter applies a shared token bucket to requests whose route matches path.
// A zero config disables limiting.
func RateLimiter(cfg config.RateLimitConfig, path string) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	limiter := rate.NewLimiter(rate.Every(perRequest), cfg.Requests)
	var mu sync.Mutex

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() != path || c.Request().Method != http.MethodPost {
				return next(c)
			}

			mu.Lock()
			allowed := limiter.Allow()
			mu.Unlock()

			if !allowed {
				return c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: "Rate limit exceeded"})
			}

			return next(c)
		}
	}
}
