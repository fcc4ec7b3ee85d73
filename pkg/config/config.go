package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// Hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often PgBouncer/pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	Admin AdminConfig

	Bulk BulkConfig

	// DashboardAllowedOrigins is a comma-separated allowlist of origins allowed
	// to call the admin API from the browser. Example:
	//   https://admin.softcream.app,http://localhost:3000
	DashboardAllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type AdminConfig struct {
	// JWTSecret signs admin session tokens (HS256). Required in prod.
	JWTSecret string

	// Email/PasswordDigest identify the single admin account. The digest is
	// hex(HMAC-SHA256(password, JWTSecret)); see internal/auth.
	Email          string
	PasswordDigest string

	TokenTTL time.Duration

	// DevToken lets local tooling skip the login flow via X-Admin-Token.
	//
	// Never set this in production.
	DevToken string
}

type BulkConfig struct {
	// MaxConcurrency bounds the bulk-assign fan-out across products.
	MaxConcurrency int

	// PerProductTimeout applies to each product unit, not the batch.
	PerProductTimeout time.Duration
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "softcream"),
			User:     env("DB_USER", "softcream"),
			Password: env("DB_PASSWORD", "softcream"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Admin: AdminConfig{
			JWTSecret:      os.Getenv("ADMIN_JWT_SECRET"),
			Email:          env("ADMIN_EMAIL", "admin@localhost"),
			PasswordDigest: os.Getenv("ADMIN_PASSWORD_DIGEST"),
			TokenTTL:       envDuration("ADMIN_TOKEN_TTL", 12*time.Hour),
			DevToken:       os.Getenv("ADMIN_DEV_TOKEN"),
		},
		Bulk: BulkConfig{
			MaxConcurrency:    envInt("BULK_MAX_CONCURRENCY", 8),
			PerProductTimeout: envDuration("BULK_PER_PRODUCT_TIMEOUT", 10*time.Second),
		},
		DashboardAllowedOrigins: envList("DASHBOARD_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			s := v[start:i]
			start = i + 1
			// trim spaces
			for len(s) > 0 && (s[0] == ' ' || s[0] == '\t' || s[0] == '\n' || s[0] == '\r') {
				s = s[1:]
			}
			for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t' || s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
				s = s[:len(s)-1]
			}
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
