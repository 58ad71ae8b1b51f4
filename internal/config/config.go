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
	App          AppConfig
	Panel        PanelConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Scheduler    SchedulerConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PanelConfig holds control panel API credentials and transport limits.
type PanelConfig struct {
	BaseURL            string
	Username           string
	Password           string
	TimeoutSeconds     int
	InsecureSkipVerify bool
	UsageCacheTTLSec   int
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

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret       string
	TokenTTLMinutes int
	GatewayKeyHash  string
	BcryptCost      int
}

// SchedulerConfig controls the periodic maintenance loop.
type SchedulerConfig struct {
	Enabled       bool
	IntervalHours int
}

// NotificationConfig points outbound events at the chat gateway.
type NotificationConfig struct {
	WebhookURL     string
	TimeoutSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "hosting-desk-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Panel: PanelConfig{
			BaseURL:            getEnv("PANEL_URL", ""),
			Username:           os.Getenv("PANEL_USERNAME"),
			Password:           os.Getenv("PANEL_PASSWORD"),
			TimeoutSeconds:     getEnvAsInt("PANEL_TIMEOUT_SECONDS", 20),
			InsecureSkipVerify: getEnvAsBool("PANEL_INSECURE_SKIP_VERIFY", false),
			UsageCacheTTLSec:   getEnvAsInt("PANEL_USAGE_CACHE_TTL_SECONDS", 120),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("AUTH_JWT_SECRET", "dev-secret"),
			TokenTTLMinutes: getEnvAsInt("AUTH_TOKEN_TTL_MINUTES", 60),
			GatewayKeyHash:  os.Getenv("AUTH_GATEWAY_KEY_HASH"),
			BcryptCost:      getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Scheduler: SchedulerConfig{
			Enabled:       getEnvAsBool("SCHEDULER_ENABLED", true),
			IntervalHours: getEnvAsInt("SCHEDULER_INTERVAL_HOURS", 24),
		},
		Notification: NotificationConfig{
			WebhookURL:     getEnv("NOTIFY_WEBHOOK_URL", ""),
			TimeoutSeconds: getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 10),
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

// Timeout returns the bounded panel round-trip budget.
func (p PanelConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// UsageCacheTTL returns how long cached panel reads stay fresh.
func (p PanelConfig) UsageCacheTTL() time.Duration {
	if p.UsageCacheTTLSec <= 0 {
		return 0
	}
	return time.Duration(p.UsageCacheTTLSec) * time.Second
}

// Interval returns the scheduler cadence.
func (s SchedulerConfig) Interval() time.Duration {
	if s.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.IntervalHours) * time.Hour
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
