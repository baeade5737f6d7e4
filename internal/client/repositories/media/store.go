package media

import (
	"context"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
)

// Store persists media records for a single owner partition at a time.
type Store interface {
	// Put stores the upload under ownerKey and returns the new record once
	// it is durable. Errors wrap common.ErrIngestionFailed.
	Put(ctx context.Context, ownerKey string, up models.Upload, kind models.Kind) (*models.MediaRecord, error)

	// ListAll returns the owner's records, newest first.
	ListAll(ctx context.Context, ownerKey string) ([]*models.MediaRecord, error)

	// Delete removes one record. Unknown ids are a no-op.
	Delete(ctx context.Context, ownerKey, id string) error

	// Clear removes every record of the owner.
	Clear(ctx context.Context, ownerKey string) error

	// Persistent reports whether records survive a restart.
	Persistent() bool

	// Local reports whether records carry their payload (and must be
	// resolved into process-local handles) rather than an object key.
	Local() bool

	Close() error
}
