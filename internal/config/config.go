package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Redis (shared rate-limit and throttle counters)
	RedisURL string

	// TLS/mTLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // CA for verifying client certs (mTLS)

	// OIDC (operator authentication)
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// OperatorEmails is the comma-separated allowlist of emails permitted
	// to use the operator API.
	OperatorEmails []string

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Review link signing
	ReviewLinkSecret   string        // HMAC secret for one-tap links; empty disables signing
	ReviewLinkMaxAge   time.Duration // validity window for signed payloads
	AllowUnsignedLinks bool          // explicitly allow minting advisory (unsigned) links

	// Review request throttling
	ReviewRequestsPerHour int // per-tenant cap on outbound review-request emails

	// Destination health checks
	DestinationCheckInterval time.Duration
	DestinationCheckMaxAge   time.Duration

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      string // "none", "starttls", or "tls"

	// Site Branding
	SiteTitle  string // env: SITE_TITLE, default: "ReviewFlow"
	SiteFooter string // env: SITE_FOOTER
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/reviewflow?sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", ""),
		TLSEnabled:  getEnv("TLS_ENABLED", "") != "",
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:   getEnv("TLS_CA_FILE", ""),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		OperatorEmails:   splitList(getEnv("OPERATOR_EMAILS", "")),

		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:   getEnv("CORS_ORIGINS", ""),

		ReviewLinkSecret:   getEnv("REVIEW_LINK_SECRET", ""),
		ReviewLinkMaxAge:   getEnvDuration("REVIEW_LINK_MAX_AGE", 7*24*time.Hour),
		AllowUnsignedLinks: getEnv("ALLOW_UNSIGNED_LINKS", "") != "",

		ReviewRequestsPerHour: getEnvInt("REVIEW_REQUESTS_PER_HOUR", 30),

		DestinationCheckInterval: getEnvDuration("DESTINATION_CHECK_INTERVAL", 15*time.Minute),
		DestinationCheckMaxAge:   getEnvDuration("DESTINATION_CHECK_MAX_AGE", 24*time.Hour),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", ""),
		SMTPTLS:      getEnv("SMTP_TLS", "starttls"),

		SiteTitle:  getEnv("SITE_TITLE", "ReviewFlow"),
		SiteFooter: getEnv("SITE_FOOTER", "ReviewFlow - Collect the reviews you deserve"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, strings.ToLower(trimmed))
		}
	}
	return out
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsMTLSEnabled returns true if mTLS is configured with a CA file.
func (c *Config) IsMTLSEnabled() bool {
	return c.TLSEnabled && c.TLSCAFile != ""
}

// IsEmailEnabled returns true if SMTP is configured.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// IsSigningEnabled returns true if a one-tap link signing secret is set.
func (c *Config) IsSigningEnabled() bool {
	return c.ReviewLinkSecret != ""
}

// IsOperator returns true if the email is on the operator allowlist.
func (c *Config) IsOperator(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, allowed := range c.OperatorEmails {
		if allowed == email {
			return true
		}
	}
	return false
}
