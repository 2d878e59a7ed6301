package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	approvalsvc "github.com/mamark678/fuelgo/internal/approval"
	"github.com/mamark678/fuelgo/internal/auth"
	"github.com/mamark678/fuelgo/internal/config"
	"github.com/mamark678/fuelgo/internal/http/features/account"
	"github.com/mamark678/fuelgo/internal/http/features/admin"
	"github.com/mamark678/fuelgo/internal/http/features/approval"
	"github.com/mamark678/fuelgo/internal/http/middleware"
	"github.com/mamark678/fuelgo/internal/httputil"
	"github.com/mamark678/fuelgo/internal/identity"
	"github.com/mamark678/fuelgo/internal/repository"
)

// RouterConfig holds configuration for the router. External clients are
// injected here rather than constructed globally; absent clients degrade
// the routes that need them.
type RouterConfig struct {
	Logger             *slog.Logger
	ApprovalService    *approvalsvc.Service
	IdentityClient     identity.Deleter    // nil when unconfigured
	AdminVerifier      *auth.AdminVerifier // nil when unconfigured
	OwnersRepo         *repository.OwnersRepository
	AppBaseURL         string
	RateLimit          config.RateLimitConfig
	SecurityHeaders    config.SecurityHeadersConfig
	MaxRequestBodySize int64
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.MaxRequestBodySize))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimit, cfg.Logger)

	// Approval link endpoint
	approvalHandler := approval.NewHandler(cfg.Logger, cfg.ApprovalService)
	r.With(rateLimiters["approval"]).Get("/approval", approvalHandler.HandleApproval)

	// Account deletion endpoint. Registered for all methods so the handler
	// controls the 405 response; the CORS middleware answers OPTIONS and
	// stamps headers on every response.
	accountHandler := account.NewHandler(cfg.Logger, cfg.IdentityClient, cfg.AdminVerifier)
	r.Group(func(r chi.Router) {
		r.Use(middleware.CORS())
		r.Use(rateLimiters["account"])
		r.HandleFunc("/v1/account/delete", accountHandler.Delete)
	})

	// Admin surface, only when admin token verification is configured
	if cfg.AdminVerifier != nil {
		adminHandler := admin.NewHandler(cfg.Logger, cfg.ApprovalService, cfg.OwnersRepo, cfg.AppBaseURL)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.AdminVerifier))
			r.Use(rateLimiters["admin"])
			r.Get("/v1/admin/owners/pending", adminHandler.ListPending)
			r.Post("/v1/admin/owners/{ownerID}/approval-link", adminHandler.IssueApprovalLink)
		})
	} else {
		cfg.Logger.Warn("admin routes disabled: ADMIN_JWT_SECRET not set")
	}

	return r
}
