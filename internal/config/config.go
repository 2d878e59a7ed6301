package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig holds per-endpoint-class rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool

	ApprovalRequestsPerWindow int
	ApprovalWindowMinutes     int

	AccountRequestsPerWindow int
	AccountWindowMinutes     int

	AdminRequestsPerWindow int
	AdminWindowMinutes     int
}

// SecurityHeadersConfig holds security header configuration.
type SecurityHeadersConfig struct {
	Enabled            bool
	FrameOptions       string
	ContentTypeOptions string
	ReferrerPolicy     string
}

// Config holds application configuration.
type Config struct {
	// Server
	ServerAddr string
	ServerPort int

	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Public base URL used when building approval links
	AppBaseURL string

	// Approval workflow
	ApprovalTokenTTL time.Duration

	// SMTP (optional; approvals refuse to run without it)
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// External identity provider (optional; account deletion degrades
	// without it)
	IdentityProviderURL    string
	IdentityProviderAPIKey string

	// Admin token verification (optional; requests go unverified without
	// it, which is logged loudly)
	AdminJWTSecret string

	RateLimit          RateLimitConfig
	SecurityHeaders    SecurityHeadersConfig
	MaxRequestBodySize int64
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		// Server defaults
		ServerAddr: getEnv("SERVER_ADDR", "0.0.0.0"),
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		// Database defaults
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "fuelgo"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:8080"),

		ApprovalTokenTTL: getEnvDuration("APPROVAL_TOKEN_TTL", 72*time.Hour),

		// SMTP (optional)
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "FuelGo"),

		// Identity provider (optional)
		IdentityProviderURL:    getEnv("IDENTITY_PROVIDER_URL", ""),
		IdentityProviderAPIKey: getEnv("IDENTITY_PROVIDER_API_KEY", ""),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		RateLimit: RateLimitConfig{
			Enabled:                   getEnvBool("RATE_LIMIT_ENABLED", true),
			ApprovalRequestsPerWindow: getEnvInt("RATE_LIMIT_APPROVAL_REQUESTS", 10),
			ApprovalWindowMinutes:     getEnvInt("RATE_LIMIT_APPROVAL_WINDOW_MINUTES", 1),
			AccountRequestsPerWindow:  getEnvInt("RATE_LIMIT_ACCOUNT_REQUESTS", 10),
			AccountWindowMinutes:      getEnvInt("RATE_LIMIT_ACCOUNT_WINDOW_MINUTES", 1),
			AdminRequestsPerWindow:    getEnvInt("RATE_LIMIT_ADMIN_REQUESTS", 30),
			AdminWindowMinutes:        getEnvInt("RATE_LIMIT_ADMIN_WINDOW_MINUTES", 1),
		},

		SecurityHeaders: SecurityHeadersConfig{
			Enabled:            getEnvBool("SECURITY_HEADERS_ENABLED", true),
			FrameOptions:       getEnv("SECURITY_FRAME_OPTIONS", "DENY"),
			ContentTypeOptions: getEnv("SECURITY_CONTENT_TYPE_OPTIONS", "nosniff"),
			ReferrerPolicy:     getEnv("SECURITY_REFERRER_POLICY", "strict-origin-when-cross-origin"),
		},

		MaxRequestBodySize: getEnvInt64("MAX_REQUEST_BODY_SIZE", 64*1024),
	}

	return cfg, nil
}

// HasSMTP returns true if an SMTP transport is configured.
func (c *Config) HasSMTP() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// HasIdentityProvider returns true if the identity provider is configured.
func (c *Config) HasIdentityProvider() bool {
	return c.IdentityProviderURL != ""
}

// HasAdminJWT returns true if admin token verification is configured.
func (c *Config) HasAdminJWT() bool {
	return c.AdminJWTSecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
