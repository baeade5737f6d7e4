package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// dotenvFile is loaded into the process environment when it exists.
var dotenvFile = ".env"

// parseEnv overlays Config with GALLERY_* environment variables. Unset
// variables leave the current value in place. Panics on malformed values.
func parseEnv(cfg *Config) {
	// a missing .env is normal
	_ = godotenv.Load(dotenvFile)

	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
