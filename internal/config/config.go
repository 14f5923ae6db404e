package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Lockout  LockoutConfig
	Captcha  CaptchaConfig
	Admin    AdminConfig
	Sentry   SentryConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port       string
	CronSecret string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
}

type AuthConfig struct {
	AccessSecret   string
	RefreshSecret  string
	AccessExpiry   string
	RefreshExpiry  string
	CookieDomain   string
	CookieSecure   string
	CookieSameSite string
	AllowSignup    string
}

type LockoutConfig struct {
	AttemptThreshold int
	CounterTTL       time.Duration
	Retention        time.Duration
}

type CaptchaConfig struct {
	TTL time.Duration
}

type AdminConfig struct {
	Email    string
	Password string
}

type SentryConfig struct {
	DSN         string
	Environment string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:       getenv("PORT", "8080"),
			CronSecret: os.Getenv("CRON_SECRET"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Username: os.Getenv("REDIS_USERNAME"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getenvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			AccessSecret:   os.Getenv("JWT_ACCESS_SECRET"),
			RefreshSecret:  os.Getenv("JWT_REFRESH_SECRET"),
			AccessExpiry:   getenv("JWT_ACCESS_EXPIRY", "15m"),
			RefreshExpiry:  getenv("JWT_REFRESH_EXPIRY", "7d"),
			CookieDomain:   os.Getenv("AUTH_COOKIE_DOMAIN"),
			CookieSecure:   os.Getenv("AUTH_COOKIE_SECURE"),
			CookieSameSite: os.Getenv("AUTH_COOKIE_SAMESITE"),
			AllowSignup:    os.Getenv("ALLOW_SIGNUP"),
		},
		Lockout: LockoutConfig{
			AttemptThreshold: getenvInt("LOCKOUT_ATTEMPT_THRESHOLD", 5),
			CounterTTL:       getenvSeconds("LOCKOUT_COUNTER_TTL_SECONDS", 60),
			Retention:        getenvDays("LOCKOUT_RETENTION_DAYS", 30),
		},
		Captcha: CaptchaConfig{
			TTL: getenvSeconds("CAPTCHA_TTL_SECONDS", 300),
		},
		Admin: AdminConfig{
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		Sentry: SentryConfig{
			DSN:         os.Getenv("SENTRY_DSN"),
			Environment: getenv("APP_ENV", "development"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		},
	}
}

func (c Config) RequirePort() error {
	port := strings.TrimSpace(c.Server.Port)
	if port == "" {
		return fmt.Errorf("PORT is required")
	}
	if _, err := strconv.Atoi(port); err != nil {
		return fmt.Errorf("PORT must be numeric: %q", port)
	}
	return nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getenvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getenvInt(key, fallback)) * time.Second
}

func getenvDays(key string, fallback int) time.Duration {
	return time.Duration(getenvInt(key, fallback)) * 24 * time.Hour
}

func splitList(val string) []string {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
