package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	envVars := []string{
		"SERVER_ADDR", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_USER",
		"DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "APP_BASE_URL",
		"APPROVAL_TOKEN_TTL", "SMTP_HOST", "SMTP_FROM",
		"IDENTITY_PROVIDER_URL", "ADMIN_JWT_SECRET",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ServerAddr != "0.0.0.0" {
		t.Errorf("ServerAddr = %q, want %q", cfg.ServerAddr, "0.0.0.0")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.DBName != "fuelgo" {
		t.Errorf("DBName = %q, want %q", cfg.DBName, "fuelgo")
	}
	if cfg.ApprovalTokenTTL != 72*time.Hour {
		t.Errorf("ApprovalTokenTTL = %v, want %v", cfg.ApprovalTokenTTL, 72*time.Hour)
	}
	if cfg.HasSMTP() {
		t.Error("HasSMTP should be false without SMTP_HOST and SMTP_FROM")
	}
	if cfg.HasIdentityProvider() {
		t.Error("HasIdentityProvider should be false without IDENTITY_PROVIDER_URL")
	}
	if cfg.HasAdminJWT() {
		t.Error("HasAdminJWT should be false without ADMIN_JWT_SECRET")
	}
	if !cfg.RateLimit.Enabled {
		t.Error("rate limiting should default to enabled")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("DB_HOST", "db.example.com")
	os.Setenv("APPROVAL_TOKEN_TTL", "24h")
	os.Setenv("SMTP_HOST", "smtp.example.com")
	os.Setenv("SMTP_FROM", "noreply@fuelgo.example")
	os.Setenv("IDENTITY_PROVIDER_URL", "https://identity.example.com")
	os.Setenv("ADMIN_JWT_SECRET", "secret")
	defer func() {
		for _, v := range []string{
			"SERVER_PORT", "DB_HOST", "APPROVAL_TOKEN_TTL",
			"SMTP_HOST", "SMTP_FROM", "IDENTITY_PROVIDER_URL", "ADMIN_JWT_SECRET",
		} {
			os.Unsetenv(v)
		}
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ServerPort != 9090 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 9090)
	}
	if cfg.DBHost != "db.example.com" {
		t.Errorf("DBHost = %q, want %q", cfg.DBHost, "db.example.com")
	}
	if cfg.ApprovalTokenTTL != 24*time.Hour {
		t.Errorf("ApprovalTokenTTL = %v, want %v", cfg.ApprovalTokenTTL, 24*time.Hour)
	}
	if !cfg.HasSMTP() {
		t.Error("HasSMTP should be true")
	}
	if !cfg.HasIdentityProvider() {
		t.Error("HasIdentityProvider should be true")
	}
	if !cfg.HasAdminJWT() {
		t.Error("HasAdminJWT should be true")
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	os.Setenv("APPROVAL_TOKEN_TTL", "not-a-duration")
	defer os.Unsetenv("APPROVAL_TOKEN_TTL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ApprovalTokenTTL != 72*time.Hour {
		t.Errorf("ApprovalTokenTTL = %v, want default %v", cfg.ApprovalTokenTTL, 72*time.Hour)
	}
}
