package client

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophgallery/internal/client/config"
	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/client/objectstore"
	"github.com/dmitrijs2005/gophgallery/internal/client/repositories/media"
	"github.com/dmitrijs2005/gophgallery/internal/client/resolver"
	"github.com/dmitrijs2005/gophgallery/internal/client/session"
	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	var cfg config.Config
	cfg.LoadDefaults()
	cfg.Backend = backend
	cfg.SQLitePath = filepath.Join(t.TempDir(), "gallery.db")
	cfg.TokenFile = filepath.Join(t.TempDir(), "token")
	return &cfg
}

func jpeg(name string) models.Upload {
	payload := []byte("not really a jpeg")
	return models.Upload{
		Name:        name,
		ContentType: "image/jpeg",
		Size:        int64(len(payload)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(payload)), nil
		},
	}
}

func TestNew_Memory(t *testing.T) {
	ctx := context.Background()
	app, err := New(ctx, testConfig(t, config.BackendMemory), logging.NewNop(), prometheus.NewRegistry())
	require.NoError(t, err)

	require.IsType(t, &media.MemoryStore{}, app.Store)
	require.IsType(t, &resolver.LocalResolver{}, app.Resolver)
	require.IsType(t, &session.Local{}, app.Session)
	require.Nil(t, app.Objects)

	require.NoError(t, app.Gallery.Add(ctx, jpeg("a.jpg")).Err())
	require.Len(t, app.Gallery.Items(), 1)
	require.NoError(t, app.Close(ctx))
}

func TestNew_SQLitePersistsAcrossRuns(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendSQLite)

	app, err := New(ctx, cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	require.IsType(t, &media.SQLiteStore{}, app.Store)

	require.NoError(t, app.Session.SignUp(ctx, "a@example.com", []byte("pw1")))
	require.NoError(t, app.Gallery.Add(ctx, jpeg("cat.jpg")).Err())
	require.NoError(t, app.Close(ctx))

	app, err = New(ctx, cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	defer app.Close(ctx)

	require.Empty(t, app.Gallery.Items(), "a new run starts as guest")
	require.NoError(t, app.Session.SignIn(ctx, "a@example.com", []byte("pw1")))
	items := app.Gallery.Items()
	require.Len(t, items, 1)
	require.Equal(t, "cat.jpg", items[0].Name)
}

func TestNew_SQLiteDegradesToMemory(t *testing.T) {
	ctx := context.Background()
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	cfg := testConfig(t, config.BackendSQLite)
	cfg.SQLitePath = filepath.Join(blocker, "sub", "gallery.db")

	app, err := New(ctx, cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	defer app.Close(ctx)

	require.IsType(t, &media.MemoryStore{}, app.Store)
	require.False(t, app.Store.Persistent())

	require.NoError(t, app.Session.SignUp(ctx, "a@example.com", []byte("pw1")))
	require.NoError(t, app.Gallery.Add(ctx, jpeg("a.jpg")).Err())
	require.Len(t, app.Gallery.Items(), 1)
}

func TestNew_RemoteStartsSignedOut(t *testing.T) {
	ctx := context.Background()
	objects := objectstore.NewMemoryStore()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	origObjects, origRows := newObjectStore, openMediaRows
	t.Cleanup(func() { newObjectStore, openMediaRows = origObjects, origRows })
	newObjectStore = func(context.Context, objectstore.Config) (objectstore.Store, error) { return objects, nil }
	openMediaRows = func(context.Context, string) (*sql.DB, error) { return db, nil }

	cfg := testConfig(t, config.BackendRemote)
	cfg.URLCache = config.URLCacheNone

	app, err := New(ctx, cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	require.IsType(t, &media.RemoteStore{}, app.Store)
	require.IsType(t, &resolver.RemoteResolver{}, app.Resolver)
	require.Same(t, objects, app.Objects)

	_, ok := app.Session.CurrentOwnerKey()
	require.False(t, ok)

	res := app.Gallery.Add(ctx, jpeg("a.jpg"))
	require.Len(t, res.Failed, 1)
	require.ErrorIs(t, res.Failed[0].Err, common.ErrNotAuthenticated)
	require.Empty(t, objects.Keys())

	require.NoError(t, app.Close(ctx))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_RemoteObjectStoreFailure(t *testing.T) {
	origObjects := newObjectStore
	t.Cleanup(func() { newObjectStore = origObjects })
	newObjectStore = func(context.Context, objectstore.Config) (objectstore.Store, error) {
		return nil, errors.New("no credentials")
	}

	_, err := New(context.Background(), testConfig(t, config.BackendRemote), logging.NewNop(), nil)
	require.ErrorIs(t, err, common.ErrBackendUnavailable)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), testConfig(t, "cloud"), logging.NewNop(), nil)
	require.ErrorIs(t, err, common.ErrInvalidInput)
}
