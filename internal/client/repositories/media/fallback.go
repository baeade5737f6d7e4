package media

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
)

// Opener opens and migrates the embedded database.
type Opener func(ctx context.Context) (*sql.DB, error)

// Open returns a SQLiteStore over the database produced by open. If the
// database cannot be opened, a warning is logged and a MemoryStore is
// returned instead.
func Open(ctx context.Context, open Opener, log logging.Logger) Store {
	db, err := open(ctx)
	if err != nil {
		log.Warn(ctx, "embedded store unavailable, falling back to memory",
			"error", err, "reason", common.ErrBackendUnavailable)
		return NewMemoryStore()
	}
	return NewSQLiteStore(db)
}
