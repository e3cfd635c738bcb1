package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	RateLimit    RateLimitConfig
	Tracing      TracingConfig
	Notification NotificationConfig
	Orders       OrdersConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"APP_NAME" envDefault:"avina-storefront"`
	Env                   string `env:"APP_ENV" envDefault:"development"`
	Host                  string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"APP_PORT" envDefault:"8080"`
	Version               string `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `env:"POSTGRES_DSN"`
	MaxConns       int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	MigrationsDir  string `env:"POSTGRES_MIGRATIONS_DIR" envDefault:"migrations"`
	ConnMaxIdleSec int32  `env:"POSTGRES_CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"POSTGRES_CONN_MAX_LIFE_SECONDS" envDefault:"300"`
	// QueryLogLevel is a pgx tracelog level: trace, debug, info, warn, error or none.
	QueryLogLevel string `env:"POSTGRES_QUERY_LOG_LEVEL" envDefault:"warn"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"avina"`
	// PoolSize 0 keeps the go-redis default of ten connections per CPU.
	PoolSize      int `env:"REDIS_POOL_SIZE" envDefault:"0"`
	DialTimeoutMS int `env:"REDIS_DIAL_TIMEOUT_MS" envDefault:"2000"`
	IOTimeoutMS   int `env:"REDIS_IO_TIMEOUT_MS" envDefault:"500"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret              string `env:"AUTH_JWT_SECRET" envDefault:"dev-secret"`
	Issuer                 string `env:"AUTH_ISSUER" envDefault:"avina"`
	AccessTokenTTLMinutes  int    `env:"AUTH_ACCESS_TOKEN_TTL_MINUTES" envDefault:"15"`
	RefreshTokenTTLMinutes int    `env:"AUTH_REFRESH_TOKEN_TTL_MINUTES" envDefault:"10080"`
	BcryptCost             int    `env:"AUTH_BCRYPT_COST" envDefault:"12"`
}

// RateLimitConfig throttles the credential endpoints per client.
type RateLimitConfig struct {
	AuthPerSecond float64 `env:"RATE_LIMIT_AUTH_RPS" envDefault:"2"`
	AuthBurst     int     `env:"RATE_LIMIT_AUTH_BURST" envDefault:"5"`
}

// TracingConfig controls the OTLP exporter.
type TracingConfig struct {
	Enabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	Endpoint   string  `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
	SampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string `env:"NOTIFY_EMAIL_FROM" envDefault:"noreply@avina.ir"`
	WebhookURL string `env:"NOTIFY_WEBHOOK_URL"`
	Workers    int    `env:"NOTIFY_WORKERS" envDefault:"2"`
	QueueSize  int    `env:"NOTIFY_QUEUE_SIZE" envDefault:"256"`
}

// OrdersConfig bounds the recent-orders projection.
type OrdersConfig struct {
	DefaultRecentLimit int `env:"ORDERS_RECENT_DEFAULT_LIMIT" envDefault:"5"`
	MaxRecentLimit     int `env:"ORDERS_RECENT_MAX_LIMIT" envDefault:"50"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET must not be empty")
	}
	if c.App.Env == "production" && c.Auth.JWTSecret == "dev-secret" {
		return errors.New("AUTH_JWT_SECRET must be set in production")
	}
	if c.Auth.AccessTokenTTLMinutes <= 0 || c.Auth.RefreshTokenTTLMinutes <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.Auth.RefreshTokenTTLMinutes <= c.Auth.AccessTokenTTLMinutes {
		return errors.New("refresh token TTL must exceed access token TTL")
	}
	if c.Orders.DefaultRecentLimit <= 0 || c.Orders.MaxRecentLimit < c.Orders.DefaultRecentLimit {
		return fmt.Errorf("invalid recent order limits: default=%d max=%d",
			c.Orders.DefaultRecentLimit, c.Orders.MaxRecentLimit)
	}
	return nil
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

// AccessTTL returns the lifetime of an access token.
func (a AuthConfig) AccessTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTTL returns the lifetime of a refresh token.
func (a AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(a.RefreshTokenTTLMinutes) * time.Minute
}

// DialTimeout returns the Redis connect timeout.
func (r RedisConfig) DialTimeout() time.Duration {
	return time.Duration(r.DialTimeoutMS) * time.Millisecond
}

// IOTimeout returns the Redis read/write timeout.
func (r RedisConfig) IOTimeout() time.Duration {
	return time.Duration(r.IOTimeoutMS) * time.Millisecond
}
