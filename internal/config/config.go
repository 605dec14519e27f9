// Package config centralises configuration parsing for the killboard service.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config captures runtime configuration for the service. Values come from
// environment variables prefixed with KILLBOARD_, with "__" separating
// nesting levels (KILLBOARD_DATABASE__CONN_LIMIT -> database.conn_limit).
// A .env file in the working directory is loaded first when present.
type Config struct {
	Env      string         `koanf:"env" validate:"required"`
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
}

// ServerConfig groups HTTP server tunables. Timeouts are in seconds.
type ServerConfig struct {
	Port         string `koanf:"port" validate:"required"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout int    `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"required,min=1"`
}

// DatabaseConfig holds the PostgreSQL connection parameters handed to the
// pool at startup. An empty Host switches the service to its in-memory
// repositories for storeless local runs.
type DatabaseConfig struct {
	Host      string `koanf:"host"`
	Port      int    `koanf:"port" validate:"required"`
	User      string `koanf:"user" validate:"required"`
	Password  string `koanf:"password" validate:"required"`
	Name      string `koanf:"name" validate:"required"`
	SSLMode   string `koanf:"ssl_mode" validate:"required"`
	ConnLimit int    `koanf:"conn_limit" validate:"required,min=1"`
}

// Load reads the environment into a Config, applying local-dev defaults for
// anything unset and failing fast on invalid values.
func Load() (*Config, error) {
	cfg := &Config{
		Env: "local",
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  5,
			WriteTimeout: 10,
			IdleTimeout:  60,
		},
		Database: DatabaseConfig{
			Port:      5432,
			User:      "killboard",
			Password:  "killboard",
			Name:      "killboard",
			SSLMode:   "disable",
			ConnLimit: 10,
		},
	}

	k := koanf.New(".")
	err := k.Load(env.Provider("KILLBOARD_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "KILLBOARD_")
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
