package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
)

// DefaultURLTTL is how long a signed URL stays valid.
const DefaultURLTTL = time.Hour

// cacheMargin is subtracted from the URL TTL so a cached URL is never
// handed out moments before it expires.
const cacheMargin = 5 * time.Minute

// Signer mints signed GET URLs. objectstore.Store satisfies it.
type Signer interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// RemoteResolver resolves records to signed object store URLs.
type RemoteResolver struct {
	signer Signer
	ttl    time.Duration
	cache  URLCache
	log    logging.Logger
}

var _ Resolver = (*RemoteResolver)(nil)

// NewRemoteResolver builds a resolver signing URLs for ttl. cache may be nil.
func NewRemoteResolver(signer Signer, ttl time.Duration, cache URLCache, log logging.Logger) *RemoteResolver {
	if ttl <= 0 {
		ttl = DefaultURLTTL
	}
	return &RemoteResolver{signer: signer, ttl: ttl, cache: cache, log: log.With("component", "remote-resolver")}
}

// CacheTTL is how long a signed URL may be served from cache.
func CacheTTL(urlTTL time.Duration) time.Duration {
	if urlTTL > 2*cacheMargin {
		return urlTTL - cacheMargin
	}
	return urlTTL / 2
}

func (r *RemoteResolver) Resolve(ctx context.Context, rec *models.MediaRecord) (*models.MediaRecord, error) {
	if rec.ObjectKey == "" {
		return nil, fmt.Errorf("%w: record %s has no object key", common.ErrResolutionFailed, rec.ID)
	}

	out := rec.Clone()
	out.Payload = nil

	if r.cache != nil {
		if u, ok := r.cache.Get(ctx, rec.ObjectKey); ok {
			out.URI = u
			return out, nil
		}
	}

	u, err := r.signer.PresignGet(ctx, rec.ObjectKey, r.ttl)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrResolutionFailed, err)
	}
	if u == "" {
		return nil, fmt.Errorf("%w: empty signed url for %s", common.ErrResolutionFailed, rec.ObjectKey)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, rec.ObjectKey, u, CacheTTL(r.ttl)); err != nil {
			r.log.Debug(ctx, "url cache set failed", "object_key", rec.ObjectKey, "error", err)
		}
	}

	out.URI = u
	return out, nil
}

// Release is a no-op: signed URLs expire on their own.
func (r *RemoteResolver) Release(*models.MediaRecord) {}

// Forget drops a cached URL, e.g. after the object was deleted.
func (r *RemoteResolver) Forget(ctx context.Context, objectKey string) {
	if r.cache == nil || objectKey == "" {
		return
	}
	if err := r.cache.Delete(ctx, objectKey); err != nil {
		r.log.Debug(ctx, "url cache delete failed", "object_key", objectKey, "error", err)
	}
}
