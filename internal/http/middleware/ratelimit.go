package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/mamark678/fuelgo/internal/config"
	"github.com/mamark678/fuelgo/internal/httputil"
)

// RateLimitConfig holds rate limiting configuration for a specific endpoint type.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Logger   *slog.Logger
}

// RateLimit creates an IP-based rate limiter middleware with logging.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Logger != nil {
				cfg.Logger.Warn("rate limit exceeded",
					"ip", r.RemoteAddr,
					"path", r.URL.Path,
					"method", r.Method,
					"user_agent", r.UserAgent(),
				)
			}
			httputil.Error(w, http.StatusTooManyRequests, "rate limit exceeded. please try again later")
		}),
	)
}

// NoRateLimit returns a no-op middleware when rate limiting is disabled.
func NoRateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return next
	}
}

// CreateRateLimiters creates rate limiting middleware functions based on configuration.
func CreateRateLimiters(cfg config.RateLimitConfig, logger *slog.Logger) map[string]func(http.Handler) http.Handler {
	if !cfg.Enabled {
		noOp := NoRateLimit()
		return map[string]func(http.Handler) http.Handler{
			"approval": noOp,
			"account":  noOp,
			"admin":    noOp,
		}
	}

	return map[string]func(http.Handler) http.Handler{
		"approval": RateLimit(RateLimitConfig{
			Requests: cfg.ApprovalRequestsPerWindow,
			Window:   time.Duration(cfg.ApprovalWindowMinutes) * time.Minute,
			Logger:   logger,
		}),
		"account": RateLimit(RateLimitConfig{
			Requests: cfg.AccountRequestsPerWindow,
			Window:   time.Duration(cfg.AccountWindowMinutes) * time.Minute,
			Logger:   logger,
		}),
		"admin": RateLimit(RateLimitConfig{
			Requests: cfg.AdminRequestsPerWindow,
			Window:   time.Duration(cfg.AdminWindowMinutes) * time.Minute,
			Logger:   logger,
		}),
	}
}
