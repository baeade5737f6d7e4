package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophgallery/internal/flagx"
	"github.com/dmitrijs2005/gophgallery/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. timex.Duration accepts both "10s" and integer nanoseconds.
type JsonConfig struct {
	ListenAddr      string         `json:"listen_addr"`
	DataDir         string         `json:"data_dir"`
	StaticDir       string         `json:"static_dir"`
	SecretKey       string         `json:"secret_key"`
	DatabaseDSN     string         `json:"database_dsn"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
	LogLevel        string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by -c or
// -config. Without the flag nothing is loaded. Empty values in the file keep
// the current setting. Panics on read or unmarshal errors.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ListenAddr != "" {
		config.ListenAddr = jc.ListenAddr
	}
	if jc.DataDir != "" {
		config.DataDir = jc.DataDir
	}
	if jc.StaticDir != "" {
		config.StaticDir = jc.StaticDir
	}
	if jc.SecretKey != "" {
		config.SecretKey = jc.SecretKey
	}
	if jc.DatabaseDSN != "" {
		config.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = jc.ShutdownTimeout.Duration
	}
	if jc.LogLevel != "" {
		config.LogLevel = jc.LogLevel
	}
}
