package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   bind address (e.g., ":8080")
//	-f string   data directory for users.json
//	-w string   static directory
//	-s string   token HMAC secret
//	-d string   PostgreSQL DSN
//	-t string   shutdown timeout (e.g., "10s")
//	-l string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-w", "-s", "-d", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.DataDir, "f", config.DataDir, "data directory")
	fs.StringVar(&config.StaticDir, "w", config.StaticDir, "static files directory")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	shutdown := fs.String("t", config.ShutdownTimeout.String(), "shutdown timeout")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	d, err := time.ParseDuration(*shutdown)
	if err != nil {
		panic(err)
	}
	config.ShutdownTimeout = d
}
