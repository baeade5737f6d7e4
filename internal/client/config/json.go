package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophgallery/internal/flagx"
	"github.com/dmitrijs2005/gophgallery/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "false".
type JsonConfig struct {
	Backend         string         `json:"backend"`
	SQLitePath      string         `json:"sqlite_path"`
	AuthServerURL   string         `json:"auth_url"`
	TokenFile       string         `json:"token_file"`
	DatabaseDSN     string         `json:"database_dsn"`
	ObjectProvider  string         `json:"object_provider"`
	ObjectEndpoint  string         `json:"object_endpoint"`
	ObjectRegion    string         `json:"object_region"`
	ObjectAccessKey string         `json:"object_access_key"`
	ObjectSecretKey string         `json:"object_secret_key"`
	ObjectBucket    string         `json:"object_bucket"`
	ObjectUseSSL    *bool          `json:"object_use_ssl"`
	ObjectPathStyle *bool          `json:"object_path_style"`
	URLTTL          timex.Duration `json:"url_ttl"`
	URLCache        string         `json:"url_cache"`
	URLCacheSize    int            `json:"url_cache_size"`
	RedisAddr       string         `json:"redis_addr"`
	LogLevel        string         `json:"log_level"`
}

// parseJson overlays Config with the non-empty values of the JSON file named
// by -c or -config. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.Backend, jc.Backend)
	setString(&cfg.SQLitePath, jc.SQLitePath)
	setString(&cfg.AuthServerURL, jc.AuthServerURL)
	setString(&cfg.TokenFile, jc.TokenFile)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.ObjectProvider, jc.ObjectProvider)
	setString(&cfg.ObjectEndpoint, jc.ObjectEndpoint)
	setString(&cfg.ObjectRegion, jc.ObjectRegion)
	setString(&cfg.ObjectAccessKey, jc.ObjectAccessKey)
	setString(&cfg.ObjectSecretKey, jc.ObjectSecretKey)
	setString(&cfg.ObjectBucket, jc.ObjectBucket)
	setString(&cfg.URLCache, jc.URLCache)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.ObjectUseSSL != nil {
		cfg.ObjectUseSSL = *jc.ObjectUseSSL
	}
	if jc.ObjectPathStyle != nil {
		cfg.ObjectPathStyle = *jc.ObjectPathStyle
	}
	if jc.URLTTL.Duration > 0 {
		cfg.URLTTL = jc.URLTTL.Duration
	}
	if jc.URLCacheSize > 0 {
		cfg.URLCacheSize = jc.URLCacheSize
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
