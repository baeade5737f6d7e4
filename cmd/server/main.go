package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophgallery/internal/buildinfo"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/server"
	"github.com/dmitrijs2005/gophgallery/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
