// Package server wires the token server: user storage, the account service,
// the HTTP router and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/server/config"
	"github.com/dmitrijs2005/gophgallery/internal/server/httpapi"
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophgallery/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	userService *services.UserService
	httpServer  *http.Server
}

var (
	newPostgresManager = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
		return repomanager.NewPostgresRepositoryManager(ctx, dsn)
	}
	newFileManager = func(dataDir string) (repomanager.RepositoryManager, error) {
		return repomanager.NewFileRepositoryManager(dataDir)
	}
)

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	var (
		rm  repomanager.RepositoryManager
		err error
	)
	if c.DatabaseDSN != "" {
		rm, err = newPostgresManager(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		logger.Info(ctx, "users stored in postgres")
	} else {
		rm, err = newFileManager(c.DataDir)
		if err != nil {
			return nil, fmt.Errorf("data dir init error: %w", err)
		}
		logger.Info(ctx, "users stored on disk", "dir", c.DataDir)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	us := services.NewUserService(rm, c.SecretKey)
	router := httpapi.NewRouter(us, logger, httpapi.Options{
		StaticDir: c.StaticDir,
		Registry:  reg,
	})

	srv := &http.Server{
		Addr:              c.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{config: c, logger: logger, repomanager: rm, userService: us, httpServer: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// drains in-flight requests for up to ShutdownTimeout.
func (app *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.httpServer.Addr)
	if err != nil {
		_ = app.repomanager.Close()
		return fmt.Errorf("listen %s: %w", app.httpServer.Addr, err)
	}
	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	app.logger.Info(ctx, "Starting server...", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := app.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "shutdown", "error", err)
	}
	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "close storage", "error", err)
	}

	app.logger.Info(context.Background(), "Server stopped")
	return serveErr
}
