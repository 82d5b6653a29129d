package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"Pocket"`
		Port      int    `envconfig:"PORT" default:"8080"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
		Currency  string `envconfig:"CURRENCY" default:"EUR"`
	}

	Storage struct {
		Driver     string `envconfig:"STORAGE_DRIVER" default:"sqlite"`
		SQLitePath string `envconfig:"SQLITE_PATH" default:"data/pocket.db"`
		// StateKey is the single key the ledger snapshot is stored under.
		StateKey string `envconfig:"STATE_KEY" default:"pocket-state"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"pocket"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	// Auth is off unless a secret is set.
	Auth struct {
		Secret   string        `envconfig:"AUTH_SECRET"`
		TokenTTL time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"720h"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// DSN returns what database.New expects for the configured driver.
func (c *Config) DSN() string {
	if c.Storage.Driver == "sqlite" {
		return c.Storage.SQLitePath
	}

	return c.ConnectionString()
}

func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains([]string{"sqlite", "postgres"}, c.Storage.Driver) {
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be sqlite or postgres, got %q", c.Storage.Driver))
	}

	if c.Storage.Driver == "sqlite" && strings.TrimSpace(c.Storage.SQLitePath) == "" {
		errs = append(errs, errors.New("SQLITE_PATH cannot be empty when using sqlite"))
	}

	if strings.TrimSpace(c.Storage.StateKey) == "" {
		errs = append(errs, errors.New("STATE_KEY cannot be empty"))
	}

	if c.App.Port < 1 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.App.Port))
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.App.LogLevel)) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.App.LogLevel))
	}

	if !slices.Contains([]string{"text", "json"}, strings.ToLower(c.App.LogFormat)) {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.App.LogFormat))
	}

	if c.Auth.Secret != "" && c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_TTL must be positive"))
	}

	return errors.Join(errs...)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
