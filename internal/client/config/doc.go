// Package config loads runtime configuration for the gallery CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (GALLERY_*), after an optional .env file is loaded.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-b string   backend: memory, sqlite or remote
//	-d string   path of the embedded SQLite database
//	-a string   base URL of the token server
//	-o string   object provider: s3, minio or memory
//	-e string   object store endpoint
//	-k string   Postgres DSN of the remote metadata table
//	-t string   signed URL lifetime (e.g. "1h")
//	-u string   signed URL cache: none, lru or redis
//	-r string   Redis address for the "redis" URL cache
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "1h" or integer
// nanoseconds:
//
//	{
//	  "backend": "remote",
//	  "auth_url": "http://127.0.0.1:8080",
//	  "object_provider": "minio",
//	  "object_endpoint": "127.0.0.1:9000",
//	  "url_ttl": "1h",
//	  "url_cache": "redis"
//	}
package config
