package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/client/objectstore"
	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/oklog/ulid/v2"
)

// RowRepository is the remote metadata table.
type RowRepository interface {
	// Insert stores rec and fills in the server-assigned ID and CreatedAt.
	Insert(ctx context.Context, rec *models.MediaRecord) error
	ListByOwner(ctx context.Context, ownerKey string) ([]*models.MediaRecord, error)
	// Delete removes one row and returns its object key. Missing rows
	// return common.ErrorNotFound.
	Delete(ctx context.Context, ownerKey, id string) (string, error)
	// DeleteByOwner removes all of the owner's rows and returns their
	// object keys.
	DeleteByOwner(ctx context.Context, ownerKey string) ([]string, error)
}

// RemoteStore keeps payloads in an object store and metadata in a remote
// table. Objects live under "<ownerKey>/".
type RemoteStore struct {
	objects objectstore.Store
	rows    RowRepository
	log     logging.Logger
	now     func() time.Time
}

var _ Store = (*RemoteStore)(nil)

func NewRemoteStore(objects objectstore.Store, rows RowRepository, log logging.Logger) *RemoteStore {
	return &RemoteStore{
		objects: objects,
		rows:    rows,
		log:     log.With("component", "remote-store"),
		now:     time.Now,
	}
}

// ObjectKey builds the object path for a new upload.
func ObjectKey(ownerKey, name string, at time.Time) string {
	return fmt.Sprintf("%s/%s-%s", ownerKey, ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()), models.SanitizeFilename(name))
}

func (s *RemoteStore) Put(ctx context.Context, ownerKey string, up models.Upload, kind models.Kind) (*models.MediaRecord, error) {
	if up.Open == nil {
		return nil, fmt.Errorf("%w: upload %q has no source", common.ErrIngestionFailed, up.Name)
	}
	rc, err := up.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", common.ErrIngestionFailed, up.Name, err)
	}
	defer rc.Close()

	counter := &countingReader{r: rc}
	key := ObjectKey(ownerKey, up.Name, s.now())
	if err := s.objects.Put(ctx, key, counter, up.Size, up.ContentType); err != nil {
		return nil, fmt.Errorf("%w: upload %s: %v", common.ErrIngestionFailed, up.Name, err)
	}

	size := up.Size
	if size < 0 {
		size = counter.n
	}
	rec := &models.MediaRecord{
		OwnerKey:  ownerKey,
		Kind:      kind,
		Name:      up.Name,
		Size:      size,
		ObjectKey: key,
	}
	if err := s.rows.Insert(ctx, rec); err != nil {
		s.log.Warn(ctx, "metadata insert failed, object left orphaned", "object_key", key, "error", err)
		return nil, fmt.Errorf("%w: insert metadata: %v", common.ErrIngestionFailed, err)
	}
	return rec, nil
}

func (s *RemoteStore) ListAll(ctx context.Context, ownerKey string) ([]*models.MediaRecord, error) {
	return s.rows.ListByOwner(ctx, ownerKey)
}

func (s *RemoteStore) Delete(ctx context.Context, ownerKey, id string) error {
	key, err := s.rows.Delete(ctx, ownerKey, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.objects.Remove(ctx, key); err != nil {
		s.log.Warn(ctx, "object removal failed", "object_key", key, "error", err)
	}
	return nil
}

func (s *RemoteStore) Clear(ctx context.Context, ownerKey string) error {
	keys, err := s.rows.DeleteByOwner(ctx, ownerKey)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.objects.Remove(ctx, keys...); err != nil {
		s.log.Warn(ctx, "object removal failed", "count", len(keys), "error", err)
	}
	return nil
}

func (s *RemoteStore) Persistent() bool { return true }
func (s *RemoteStore) Local() bool      { return false }
func (s *RemoteStore) Close() error     { return nil }

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
