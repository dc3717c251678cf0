package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Admin    AdminConfig
	Telegram TelegramConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	PublicBaseURL         string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AdminConfig defines the admin gate parameters. An empty JWTSecret leaves
// the admin console ungated; that mode is for local development only.
type AdminConfig struct {
	JWTSecret      string
	PathPrefix     string
	TokenTTLDays   int
	SessionTTLDays int
	SessionCookie  string
}

// TelegramConfig holds the bot credential and polling behavior.
type TelegramConfig struct {
	BotToken            string
	ChatID              string
	PollingEnabled      bool
	PollIntervalSeconds int
	LongPollSeconds     int
	RequestTimeoutSec   int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "landing-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			PublicBaseURL:         getEnv("APP_PUBLIC_BASE_URL", "http://localhost:8080"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Admin: AdminConfig{
			JWTSecret:      os.Getenv("ADMIN_JWT_SECRET"),
			PathPrefix:     getEnv("ADMIN_PATH_PREFIX", "/admin"),
			TokenTTLDays:   getEnvAsInt("ADMIN_TOKEN_TTL_DAYS", 365),
			SessionTTLDays: getEnvAsInt("ADMIN_SESSION_TTL_DAYS", 365),
			SessionCookie:  getEnv("ADMIN_SESSION_COOKIE", "bq_session"),
		},
		Telegram: TelegramConfig{
			BotToken:            os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID:              os.Getenv("TELEGRAM_CHAT_ID"),
			PollingEnabled:      getEnvAsBool("TELEGRAM_POLLING_ENABLED", true),
			PollIntervalSeconds: getEnvAsInt("TELEGRAM_POLL_INTERVAL_SECONDS", 5),
			LongPollSeconds:     getEnvAsInt("TELEGRAM_LONG_POLL_SECONDS", 10),
			RequestTimeoutSec:   getEnvAsInt("TELEGRAM_REQUEST_TIMEOUT_SECONDS", 15),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the admin token lifetime.
func (a AdminConfig) TokenTTL() time.Duration {
	days := a.TokenTTLDays
	if days <= 0 {
		days = 365
	}
	return time.Duration(days) * 24 * time.Hour
}

// SessionTTL returns the session cache lifetime. It defaults to the token
// lifetime so a returning operator is never forced to re-enter the token.
func (a AdminConfig) SessionTTL() time.Duration {
	days := a.SessionTTLDays
	if days <= 0 {
		days = 365
	}
	return time.Duration(days) * 24 * time.Hour
}

// PollInterval returns the delay between poll cycles.
func (t TelegramConfig) PollInterval() time.Duration {
	if t.PollIntervalSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(t.PollIntervalSeconds) * time.Second
}

// RequestTimeout bounds a single Telegram API call end to end.
func (t TelegramConfig) RequestTimeout() time.Duration {
	if t.RequestTimeoutSec <= 0 {
		return 15 * time.Second
	}
	return time.Duration(t.RequestTimeoutSec) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
