// Package resolver turns stored media records into display-ready
// references: process-local blob handles for records that carry their
// payload, and time-limited signed URLs for records kept in an object store.
package resolver

import (
	"context"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Resolver produces a display reference for a record.
type Resolver interface {
	// Resolve returns a copy of rec with URI set. The copy never carries
	// the payload. Failures wrap common.ErrResolutionFailed.
	Resolve(ctx context.Context, rec *models.MediaRecord) (*models.MediaRecord, error)

	// Release frees whatever Resolve allocated for rec.
	Release(rec *models.MediaRecord)
}

// resolveConcurrency bounds in-flight resolutions per batch.
const resolveConcurrency = 8

// ResolveAll resolves recs concurrently and returns the resolved records in
// input order. Records that fail to resolve are logged and dropped; a
// failure never cancels its siblings.
func ResolveAll(ctx context.Context, r Resolver, recs []*models.MediaRecord, log logging.Logger) []*models.MediaRecord {
	resolved := make([]*models.MediaRecord, len(recs))

	var g errgroup.Group
	g.SetLimit(resolveConcurrency)
	for i, rec := range recs {
		g.Go(func() error {
			out, err := r.Resolve(ctx, rec)
			if err != nil {
				log.Warn(ctx, "dropping unresolved record", "id", rec.ID, "name", rec.Name, "error", err)
				return nil
			}
			resolved[i] = out
			return nil
		})
	}
	_ = g.Wait()

	result := make([]*models.MediaRecord, 0, len(resolved))
	for _, rec := range resolved {
		if rec != nil {
			result = append(result, rec)
		}
	}
	return result
}
