package client

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophgallery/internal/client/migrations"
	"github.com/dmitrijs2005/gophgallery/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// goose keeps its dialect and filesystem in globals.
var gooseMu sync.Mutex

func RunMigrations(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.SQLite)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, "sqlite")
}

// InitDatabase opens the SQLite database at path, creating its directory,
// and applies migrations.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
