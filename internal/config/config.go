// Package config loads process configuration from the environment.
//
// A .env file in the working directory is loaded first (if present) so
// local development doesn't need a wall of exports; real deployments set
// the variables directly and never ship a .env file. Every value has a
// development default except the Google credentials, which simply disable
// the features that need them when unset.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from its environment.
type Config struct {
	Port   int
	DBPath string

	// JWTSecret signs session tokens. The default exists so `go run` works
	// out of the box — override it anywhere that matters.
	JWTSecret string

	// Admin account bootstrapped into the store at startup when no user
	// with AdminEmail exists yet.
	AdminName     string
	AdminEmail    string
	AdminPassword string

	// Google federated login. ClientID is required for ID-token
	// verification; ClientSecret + CallbackURL additionally enable the
	// server-side authorization-code flow. AllowImplicit turns on the
	// legacy mode that trusts a caller-supplied email/name pair without
	// any token — it weakens the trust boundary and defaults to off.
	GoogleClientID      string
	GoogleClientSecret  string
	GoogleCallbackURL   string
	GoogleAllowImplicit bool

	// SMTP for fire-and-forget notification mail. Leaving SMTPHost empty
	// disables outbound mail entirely.
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// FrontendURL is where browser flows (OAuth callback) redirect to and
	// what notification emails link back to.
	FrontendURL string
}

// Load reads the configuration, applying defaults for anything unset.
func Load() *Config {
	// Missing .env is the normal case in production — ignore the error.
	_ = godotenv.Load()

	return &Config{
		Port:      getEnvInt("PORT", 5000),
		DBPath:    getEnv("DB_PATH", "data/jobboard.db"),
		JWTSecret: getEnv("JWT_SECRET", "bdec_secret_key_2026"),

		AdminName:     getEnv("ADMIN_NAME", "Administrador BDEC"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@bdec.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		GoogleClientID:      os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:  os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:   os.Getenv("GOOGLE_CALLBACK_URL"),
		GoogleAllowImplicit: getEnvBool("GOOGLE_ALLOW_IMPLICIT", false),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnvInt("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: getEnv("MAIL_FROM", "no-reply@bdec.com"),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
	}
}

// getEnv returns the variable's value, or fallback when unset or empty.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}
