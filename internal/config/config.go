// Package config loads the bot configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the bot needs to run, populated from environment
// variables with the BOT_ prefix (BOT_DISCORD_TOKEN, BOT_DB_HOST, ...).
type Config struct {
	DiscordToken string `envconfig:"DISCORD_TOKEN" required:"true"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"marsbot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	GeminiAPIKey  string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel   string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	GeminiTimeout time.Duration `envconfig:"GEMINI_TIMEOUT" default:"20s"`

	DefaultPrefix string `envconfig:"DEFAULT_PREFIX" default:","`

	// TransactionRetention bounds the ledger history kept by the nightly
	// cleanup job.
	TransactionRetention time.Duration `envconfig:"TRANSACTION_RETENTION" default:"2160h"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("BOT", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks constraints envconfig tags cannot express.
func (c *Config) Validate() error {
	if c.DBPort < 1 || c.DBPort > 65535 {
		return fmt.Errorf("invalid DB_PORT: %d", c.DBPort)
	}
	if c.DefaultPrefix == "" {
		return fmt.Errorf("DEFAULT_PREFIX must not be empty")
	}
	if c.TransactionRetention < 24*time.Hour {
		return fmt.Errorf("TRANSACTION_RETENTION must be at least 24h, got %s", c.TransactionRetention)
	}
	return nil
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// PersonaEnabled reports whether the conversational layer should start.
func (c *Config) PersonaEnabled() bool {
	return c.GeminiAPIKey != ""
}
