package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

var dotenvFile = ".env"

// parseEnv overlays Config with GALLERY_SERVER_* variables. Panics on
// malformed values.
func parseEnv(cfg *Config) {
	_ = godotenv.Load(dotenvFile)

	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
