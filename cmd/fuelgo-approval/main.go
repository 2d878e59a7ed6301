package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mamark678/fuelgo/internal/approval"
	"github.com/mamark678/fuelgo/internal/auth"
	"github.com/mamark678/fuelgo/internal/config"
	httpserver "github.com/mamark678/fuelgo/internal/http"
	"github.com/mamark678/fuelgo/internal/identity"
	"github.com/mamark678/fuelgo/internal/notification"
	"github.com/mamark678/fuelgo/internal/repository"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := repository.NewDB(repository.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	// Initialize repositories
	ownersRepo := repository.NewOwnersRepository(db)
	tokensRepo := repository.NewApprovalTokensRepository(db)
	approvalStore := repository.NewApprovalStore(db, tokensRepo, ownersRepo)

	// Initialize email service if configured
	var emailService *notification.EmailService
	if cfg.HasSMTP() {
		emailService = notification.NewEmailService(notification.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		})
		logger.Info("email service enabled")
	} else {
		logger.Warn("SMTP not configured: approval processing will refuse to run")
	}

	// Initialize identity provider client if configured
	var identityClient identity.Deleter
	if cfg.HasIdentityProvider() {
		identityClient = identity.NewClient(identity.Config{
			BaseURL: cfg.IdentityProviderURL,
			APIKey:  cfg.IdentityProviderAPIKey,
		})
		logger.Info("identity provider client enabled")
	} else {
		logger.Warn("identity provider not configured: account deletion will fail")
	}

	// Initialize admin token verification if configured
	var adminVerifier *auth.AdminVerifier
	if cfg.HasAdminJWT() {
		adminVerifier = auth.NewAdminVerifier([]byte(cfg.AdminJWTSecret))
		logger.Info("admin token verification enabled")
	}

	// The mailer interface is nil when unconfigured; the service treats
	// that as "cannot notify, refuse to commit".
	var mailer approval.Mailer
	if emailService != nil {
		mailer = emailService
	}
	approvalService := approval.NewService(approval.Config{
		TokenTTL: cfg.ApprovalTokenTTL,
	}, logger, approvalStore, mailer)

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:             logger,
		ApprovalService:    approvalService,
		IdentityClient:     identityClient,
		AdminVerifier:      adminVerifier,
		OwnersRepo:         ownersRepo,
		AppBaseURL:         cfg.AppBaseURL,
		RateLimit:          cfg.RateLimit,
		SecurityHeaders:    cfg.SecurityHeaders,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
