package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophgallery/internal/client/client"
	"github.com/dmitrijs2005/gophgallery/internal/client/config"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

type App struct {
	config   *config.Config
	client   *client.App
	log      logging.Logger
	registry *prometheus.Registry
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	reg := prometheus.NewRegistry()

	ca, err := client.New(ctx, c, log, reg)
	if err != nil {
		log.Error(ctx, "error initializing gallery", "error", err)
		return nil, err
	}

	return &App{
		config:   c,
		client:   ca,
		log:      log,
		registry: reg,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.client.Close(context.WithoutCancel(ctx)); err != nil {
			a.log.Error(ctx, "close failed", "error", err)
		}
	}()

	fmt.Fprintln(a.out, "Welcome to the gallery CLI (type 'help' for commands)")
	if !a.client.Store.Persistent() {
		fmt.Fprintln(a.out, "Note: media is kept in memory and will be lost on exit.")
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

func (a *App) isSignedIn() bool {
	_, ok := a.client.Session.CurrentOwnerKey()
	return ok
}

func (a *App) status() string {
	name := a.client.Session.DisplayName()
	if name == "" {
		name = "signed out"
	}
	return fmt.Sprintf("(%s %s)", name, a.client.Backend)
}
