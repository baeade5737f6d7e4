package resolver

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/google/uuid"
)

// BlobScheme prefixes handles minted by LocalResolver.
const BlobScheme = "blob:"

// LocalResolver binds record payloads to process-local blob: handles. A
// handle stays valid until it is released.
type LocalResolver struct {
	mu      sync.Mutex
	handles map[string][]byte
}

var _ Resolver = (*LocalResolver)(nil)

func NewLocalResolver() *LocalResolver {
	return &LocalResolver{handles: make(map[string][]byte)}
}

func (r *LocalResolver) Resolve(_ context.Context, rec *models.MediaRecord) (*models.MediaRecord, error) {
	if rec.Payload == nil {
		return nil, fmt.Errorf("%w: record %s has no payload", common.ErrResolutionFailed, rec.ID)
	}

	uri := BlobScheme + uuid.NewString()
	r.mu.Lock()
	r.handles[uri] = rec.Payload
	r.mu.Unlock()

	out := rec.Clone()
	out.URI = uri
	out.Payload = nil
	return out, nil
}

func (r *LocalResolver) Release(rec *models.MediaRecord) {
	if rec == nil || !strings.HasPrefix(rec.URI, BlobScheme) {
		return
	}
	r.mu.Lock()
	delete(r.handles, rec.URI)
	r.mu.Unlock()
}

// ReleaseAll frees every outstanding handle.
func (r *LocalResolver) ReleaseAll() {
	r.mu.Lock()
	clear(r.handles)
	r.mu.Unlock()
}

// Open dereferences a live handle.
func (r *LocalResolver) Open(uri string) ([]byte, error) {
	r.mu.Lock()
	b, ok := r.handles[uri]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("handle %q: %w", uri, common.ErrorNotFound)
	}
	return b, nil
}

// Live reports the number of unreleased handles.
func (r *LocalResolver) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
