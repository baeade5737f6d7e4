// Package config handles configuration for the token server, including
// defaults, JSON overlay, environment variables and command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/validation"
)

// Config holds runtime settings for the token server.
//
// Fields:
//   - ListenAddr: bind address of the HTTP endpoint.
//   - DataDir: directory holding users.json when DatabaseDSN is empty.
//   - StaticDir: directory served for non-API paths. Empty disables it.
//   - SecretKey: HMAC secret for signing tokens (HS256). Do not use the default in prod.
//   - DatabaseDSN: optional PostgreSQL DSN (pgx). When set, users live in Postgres.
//   - ShutdownTimeout: how long in-flight requests get on shutdown.
type Config struct {
	ListenAddr      string        `env:"GALLERY_SERVER_ADDR" json:"listen_addr" validate:"required"`
	DataDir         string        `env:"GALLERY_SERVER_DATA_DIR" json:"data_dir"`
	StaticDir       string        `env:"GALLERY_SERVER_STATIC_DIR" json:"static_dir"`
	SecretKey       string        `env:"GALLERY_SERVER_SECRET" json:"secret_key" validate:"required"`
	DatabaseDSN     string        `env:"GALLERY_SERVER_DATABASE_DSN" json:"database_dsn"`
	ShutdownTimeout time.Duration `env:"GALLERY_SERVER_SHUTDOWN_TIMEOUT" json:"shutdown_timeout" validate:"gt=0"`
	LogLevel        string        `env:"GALLERY_SERVER_LOG_LEVEL" json:"log_level"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret is insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.DataDir = "data"
	c.StaticDir = "public"
	c.SecretKey = "secretKey"
	c.DatabaseDSN = ""
	c.ShutdownTimeout = 10 * time.Second
	c.LogLevel = "info"
}

func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, validation.FieldErrors(err))
	}
	if c.DatabaseDSN == "" && c.DataDir == "" {
		return fmt.Errorf("%w: data_dir or database_dsn must be set", common.ErrInvalidInput)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
