package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so the JSON loader's -c flag does not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-d", "-a", "-o", "-e", "-k", "-t", "-u", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "backend: memory, sqlite or remote")
	fs.StringVar(&cfg.SQLitePath, "d", cfg.SQLitePath, "path of the embedded database")
	fs.StringVar(&cfg.AuthServerURL, "a", cfg.AuthServerURL, "base URL of the token server")
	fs.StringVar(&cfg.ObjectProvider, "o", cfg.ObjectProvider, "object provider: s3, minio or memory")
	fs.StringVar(&cfg.ObjectEndpoint, "e", cfg.ObjectEndpoint, "object store endpoint")
	fs.StringVar(&cfg.DatabaseDSN, "k", cfg.DatabaseDSN, "Postgres DSN of the metadata table")
	urlTTL := fs.String("t", cfg.URLTTL.String(), "signed URL lifetime")
	fs.StringVar(&cfg.URLCache, "u", cfg.URLCache, "signed URL cache: none, lru or redis")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	d, err := time.ParseDuration(*urlTTL)
	if err != nil {
		panic(err)
	}
	cfg.URLTTL = d
}
