package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPPort        string        `envconfig:"HTTP_PORT"        default:":8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT"  default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	CatalogDBPath  string `envconfig:"CATALOG_DB_PATH" default:"./obsidian.db"`
	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"./internal/repository/migrations"`

	// APIKey is optional; without it every consultation is served from the fallback table
	APIKey        string `envconfig:"API_KEY"`
	GeminiModel   string `envconfig:"GEMINI_MODEL"    default:"gemini-3-flash-preview"`
	GeminiBaseURL string `envconfig:"GEMINI_BASE_URL"`

	ConsultTimeout     time.Duration `envconfig:"CONSULT_TIMEOUT"      default:"15s"`
	ConsultMinDisplay  time.Duration `envconfig:"CONSULT_MIN_DISPLAY"  default:"2s"`
	BreakerMaxFailures uint32        `envconfig:"BREAKER_MAX_FAILURES" default:"5"`
	BreakerOpenTimeout time.Duration `envconfig:"BREAKER_OPEN_TIMEOUT" default:"30s"`

	// RedisAddr empty disables the consultation cache
	RedisAddr       string        `envconfig:"REDIS_ADDR"`
	RedisPassword   string        `envconfig:"REDIS_PASSWORD"`
	ConsultCacheTTL time.Duration `envconfig:"CONSULT_CACHE_TTL" default:"15m"`

	SessionTTL  time.Duration   `envconfig:"SESSION_TTL"  default:"30m"`
	DeliveryFee decimal.Decimal `envconfig:"DELIVERY_FEE" default:"12"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogMode  string `envconfig:"LOG_MODE"  default:"production"`
}

// Load reads an optional .env file, then the process environment
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DeliveryFee.IsNegative() {
		return fmt.Errorf("DELIVERY_FEE must not be negative, got %s", c.DeliveryFee)
	}
	if c.ConsultTimeout <= 0 {
		return fmt.Errorf("CONSULT_TIMEOUT must be positive, got %s", c.ConsultTimeout)
	}
	if c.ConsultMinDisplay < 0 {
		return fmt.Errorf("CONSULT_MIN_DISPLAY must not be negative, got %s", c.ConsultMinDisplay)
	}
	// a consultation can hold its request for the provider timeout plus the display floor
	if budget := c.ConsultTimeout + c.ConsultMinDisplay; c.RequestTimeout <= budget {
		return fmt.Errorf("REQUEST_TIMEOUT (%s) must exceed CONSULT_TIMEOUT + CONSULT_MIN_DISPLAY (%s)", c.RequestTimeout, budget)
	}
	return nil
}
