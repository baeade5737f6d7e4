package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophgallery/internal/client/authclient"
	"github.com/dmitrijs2005/gophgallery/internal/client/config"
	"github.com/dmitrijs2005/gophgallery/internal/client/gallery"
	"github.com/dmitrijs2005/gophgallery/internal/client/objectstore"
	"github.com/dmitrijs2005/gophgallery/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/gophgallery/internal/client/repositories/media"
	"github.com/dmitrijs2005/gophgallery/internal/client/repositories/mediarows"
	"github.com/dmitrijs2005/gophgallery/internal/client/resolver"
	"github.com/dmitrijs2005/gophgallery/internal/client/session"
	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// App is a fully wired gallery client.
type App struct {
	Backend  string
	Store    media.Store
	Resolver resolver.Resolver
	Session  session.Context
	Gallery  *gallery.Session

	// Objects is set for the remote backend only.
	Objects objectstore.Store

	log     logging.Logger
	closers []func() error
}

// seams for tests
var (
	newObjectStore = objectstore.New
	openMediaRows  = mediarows.Open
)

// New wires the backend named by cfg.Backend and loads the gallery for the
// active owner. Gallery metrics are registered on reg when it is not nil.
func New(ctx context.Context, cfg *config.Config, log logging.Logger, reg prometheus.Registerer) (*App, error) {
	a := &App{Backend: cfg.Backend, log: log}

	var err error
	switch cfg.Backend {
	case config.BackendMemory:
		a.wireLocal(media.NewMemoryStore(), accounts.NewMemoryRepository())
	case config.BackendSQLite:
		a.wireSQLite(ctx, cfg.SQLitePath)
	case config.BackendRemote:
		err = a.wireRemote(ctx, cfg)
	default:
		err = fmt.Errorf("%w: unknown backend %q", common.ErrInvalidInput, cfg.Backend)
	}
	if err != nil {
		_ = a.closeAll()
		return nil, err
	}

	a.Gallery = gallery.New(a.Store, a.Resolver, a.Session, log, gallery.WithMetrics(gallery.NewMetrics(reg)))
	if err := a.Gallery.Reload(ctx); err != nil {
		log.Warn(ctx, "initial gallery load failed", "error", err)
	}

	log.Info(ctx, "gallery client ready", "backend", a.Backend, "persistent", a.Store.Persistent())
	return a, nil
}

func (a *App) wireLocal(store media.Store, repo accounts.Repository) {
	a.Store = store
	a.Resolver = resolver.NewLocalResolver()
	a.Session = session.NewLocal(repo, a.log)
	a.closers = append(a.closers, store.Close)
}

func (a *App) wireSQLite(ctx context.Context, path string) {
	store := media.Open(ctx, func(ctx context.Context) (*sql.DB, error) {
		return InitDatabase(ctx, path)
	}, a.log)

	var repo accounts.Repository = accounts.NewMemoryRepository()
	if sq, ok := store.(*media.SQLiteStore); ok {
		repo = accounts.NewSQLiteRepository(sq.DB())
	}
	a.wireLocal(store, repo)
}

func (a *App) wireRemote(ctx context.Context, cfg *config.Config) error {
	objects, err := newObjectStore(ctx, cfg.ObjectStore())
	if err != nil {
		return fmt.Errorf("%w: object store: %v", common.ErrBackendUnavailable, err)
	}
	a.Objects = objects

	db, err := openMediaRows(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("%w: metadata database: %v", common.ErrBackendUnavailable, err)
	}
	a.closers = append(a.closers, db.Close)

	cache, err := a.urlCache(cfg)
	if err != nil {
		return err
	}

	a.Store = media.NewRemoteStore(objects, mediarows.NewPostgresRepository(db), a.log)
	a.Resolver = resolver.NewRemoteResolver(objects, cfg.URLTTL, cache, a.log)

	remote := session.NewRemote(authclient.New(cfg.AuthServerURL), session.NewFileTokenStore(cfg.TokenFile), a.log)
	if err := remote.Restore(ctx, ""); err != nil && !errors.Is(err, common.ErrNotAuthenticated) {
		a.log.Warn(ctx, "saved session not restored", "error", err)
	}
	a.Session = remote
	return nil
}

func (a *App) urlCache(cfg *config.Config) (resolver.URLCache, error) {
	switch cfg.URLCache {
	case config.URLCacheNone, "":
		return nil, nil
	case config.URLCacheLRU:
		return resolver.NewLRUCache(cfg.URLCacheSize, resolver.CacheTTL(cfg.URLTTL)), nil
	case config.URLCacheRedis:
		c := resolver.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		a.closers = append(a.closers, c.Close)
		return c, nil
	default:
		return nil, fmt.Errorf("%w: unknown url cache %q", common.ErrInvalidInput, cfg.URLCache)
	}
}

// Close releases the gallery, waits for background deletes and closes the
// backend resources.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Gallery != nil {
		errs = append(errs, a.Gallery.Close(ctx))
	}
	errs = append(errs, a.closeAll())
	return errors.Join(errs...)
}

func (a *App) closeAll() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
