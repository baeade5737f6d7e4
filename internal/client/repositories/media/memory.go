package media

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/google/uuid"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	byOwner map[string][]*models.MediaRecord
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byOwner: make(map[string][]*models.MediaRecord),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, ownerKey string, up models.Upload, kind models.Kind) (*models.MediaRecord, error) {
	payload, err := up.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrIngestionFailed, up.Name, err)
	}

	rec := &models.MediaRecord{
		ID:        uuid.NewString(),
		OwnerKey:  ownerKey,
		Kind:      kind,
		Name:      up.Name,
		Size:      int64(len(payload)),
		Payload:   payload,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.byOwner[ownerKey] = append(s.byOwner[ownerKey], rec)
	s.mu.Unlock()

	return rec.Clone(), nil
}

func (s *MemoryStore) ListAll(_ context.Context, ownerKey string) ([]*models.MediaRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.byOwner[ownerKey]
	out := make([]*models.MediaRecord, 0, len(recs))
	for i := len(recs) - 1; i >= 0; i-- {
		out = append(out, recs[i].Clone())
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, ownerKey, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byOwner[ownerKey] = slices.DeleteFunc(s.byOwner[ownerKey], func(r *models.MediaRecord) bool {
		return r.ID == id
	})
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, ownerKey string) error {
	s.mu.Lock()
	delete(s.byOwner, ownerKey)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Persistent() bool { return false }
func (s *MemoryStore) Local() bool      { return true }
func (s *MemoryStore) Close() error     { return nil }
