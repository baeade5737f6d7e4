package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophgallery/internal/buildinfo"
	"github.com/dmitrijs2005/gophgallery/internal/client/cli"
	"github.com/dmitrijs2005/gophgallery/internal/client/config"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
