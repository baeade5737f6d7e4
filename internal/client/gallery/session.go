package gallery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/client/repositories/media"
	"github.com/dmitrijs2005/gophgallery/internal/client/resolver"
	"github.com/dmitrijs2005/gophgallery/internal/client/session"
	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
)

// ErrClosed is returned by operations on a closed Session.
var ErrClosed = errors.New("gallery session closed")

const defaultDetachedTimeout = 30 * time.Second

// Failure is one upload of a batch that did not make it into the gallery.
type Failure struct {
	Name string
	Err  error
}

// BatchResult reports the outcome of Add per file.
type BatchResult struct {
	Added  []models.MediaRecord
	Failed []Failure
}

// Err joins the per-file failures, or returns nil.
func (b BatchResult) Err() error {
	errs := make([]error, 0, len(b.Failed))
	for _, f := range b.Failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.Name, f.Err))
	}
	return errors.Join(errs...)
}

type Option func(*Session)

// WithMetrics replaces the default unregistered metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithDetachedTimeout bounds each background delete.
func WithDetachedTimeout(d time.Duration) Option {
	return func(s *Session) { s.detachedTimeout = d }
}

// forgetter is implemented by resolvers that cache references by object key.
type forgetter interface {
	Forget(ctx context.Context, objectKey string)
}

// releaser is implemented by resolvers that can drop every handle at once.
type releaser interface {
	ReleaseAll()
}

// Session is the gallery view model for one session context.
type Session struct {
	store   media.Store
	res     resolver.Resolver
	sess    session.Context
	log     logging.Logger
	metrics *Metrics

	detachedTimeout time.Duration

	mu     sync.Mutex
	owner  string
	active bool
	items  []*models.MediaRecord
	gen    uint64
	closed bool

	listenersMu sync.Mutex
	nextID      int
	listeners   map[int]func()

	pending     sync.WaitGroup
	unsubscribe func()
}

// New builds a view model and subscribes it to sess. Every owner change
// reloads the list for the new owner; call Reload once for the initial load.
func New(store media.Store, res resolver.Resolver, sess session.Context, log logging.Logger, opts ...Option) *Session {
	s := &Session{
		store:           store,
		res:             res,
		sess:            sess,
		log:             log.With("component", "gallery"),
		detachedTimeout: defaultDetachedTimeout,
		listeners:       make(map[int]func()),
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	s.owner, s.active = sess.CurrentOwnerKey()

	s.unsubscribe = sess.Subscribe(func(string, bool) {
		if err := s.Reload(context.Background()); err != nil && !errors.Is(err, ErrClosed) {
			s.log.Error(context.Background(), "reload after session change failed", "error", err)
		}
	})
	return s
}

// Items returns a snapshot of the view, newest first.
func (s *Session) Items() []models.MediaRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.MediaRecord, len(s.items))
	for i, it := range s.items {
		out[i] = *it
	}
	return out
}

// Owner returns the owner key the view is scoped to.
func (s *Session) Owner() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner, s.active
}

// Find returns the item with id.
func (s *Session) Find(id string) (models.MediaRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return *s.items[i], true
	}
	return models.MediaRecord{}, false
}

// OnChange registers fn to run after every change of the item list.
func (s *Session) OnChange(fn func()) func() {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Session) notify() {
	s.listenersMu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Reload drops the current view, releasing its handles, and loads the
// active owner's records from the store.
func (s *Session) Reload(ctx context.Context) error {
	owner, active := s.sess.CurrentOwnerKey()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.gen++
	gen := s.gen
	s.owner, s.active = owner, active
	old := s.items
	s.items = nil
	s.metrics.items.Set(0)
	s.mu.Unlock()

	s.release(old)
	s.notify()

	if !active {
		return nil
	}

	recs, err := s.store.ListAll(ctx, owner)
	if err != nil {
		s.log.Error(ctx, "list failed", "owner", owner, "error", err)
		return err
	}

	resolved := resolver.ResolveAll(ctx, s.res, recs, s.log)
	s.metrics.resolutions.WithLabelValues("ok").Add(float64(len(resolved)))
	s.metrics.resolutions.WithLabelValues("dropped").Add(float64(len(recs) - len(resolved)))

	s.mu.Lock()
	if s.closed || s.gen != gen {
		// superseded by a newer reload or an owner switch
		s.mu.Unlock()
		s.release(resolved)
		return nil
	}
	merged, dups := mergeAdded(s.items, resolved)
	s.items = merged
	s.metrics.items.Set(float64(len(merged)))
	s.mu.Unlock()

	s.release(dups)
	s.notify()
	return nil
}

// mergeAdded keeps records added while a reload was listing the store. They
// are newer than anything listed, so they stay in front. An added record the
// listing already returned is a duplicate; its handle is returned for release.
func mergeAdded(added, listed []*models.MediaRecord) (merged, dups []*models.MediaRecord) {
	if len(added) == 0 {
		return listed, nil
	}
	seen := make(map[string]struct{}, len(listed))
	for _, r := range listed {
		seen[r.ID] = struct{}{}
	}
	merged = make([]*models.MediaRecord, 0, len(added)+len(listed))
	for _, r := range added {
		if _, ok := seen[r.ID]; ok {
			dups = append(dups, r)
			continue
		}
		merged = append(merged, r)
	}
	return append(merged, listed...), dups
}

// Add ingests uploads one by one. A failing file never aborts its siblings.
func (s *Session) Add(ctx context.Context, uploads ...models.Upload) BatchResult {
	var res BatchResult

	owner, active := s.sess.CurrentOwnerKey()
	if !active || !s.sess.CanUpload() {
		for _, up := range uploads {
			res.Failed = append(res.Failed, Failure{Name: up.Name, Err: common.ErrNotAuthenticated})
		}
		s.metrics.uploads.WithLabelValues("rejected").Add(float64(len(uploads)))
		return res
	}

	for _, up := range uploads {
		rec, err := s.addOne(ctx, owner, up)
		if err != nil {
			s.log.Warn(ctx, "upload failed", "name", up.Name, "error", err)
			s.metrics.uploads.WithLabelValues("failed").Inc()
			res.Failed = append(res.Failed, Failure{Name: up.Name, Err: err})
			continue
		}
		s.metrics.uploads.WithLabelValues("ok").Inc()
		res.Added = append(res.Added, rec)
	}
	return res
}

func (s *Session) addOne(ctx context.Context, owner string, up models.Upload) (models.MediaRecord, error) {
	if s.isClosed() {
		return models.MediaRecord{}, ErrClosed
	}

	kind := models.KindFromContentType(up.ContentType)
	stored, err := s.store.Put(ctx, owner, up, kind)
	if err != nil {
		return models.MediaRecord{}, err
	}

	resolved, err := s.res.Resolve(ctx, stored)
	if err != nil {
		// durable but not displayable; it will be retried on the next reload
		s.metrics.resolutions.WithLabelValues("dropped").Inc()
		return models.MediaRecord{}, err
	}
	s.metrics.resolutions.WithLabelValues("ok").Inc()

	s.mu.Lock()
	if s.closed || !s.active || s.owner != owner || s.indexOf(resolved.ID) >= 0 {
		// the owner switched while uploading, or a reload already picked it up
		s.mu.Unlock()
		s.res.Release(resolved)
		return *resolved, nil
	}
	s.items = append([]*models.MediaRecord{resolved}, s.items...)
	s.metrics.items.Set(float64(len(s.items)))
	s.mu.Unlock()

	s.notify()
	return *resolved, nil
}

// Remove deletes one item. Unknown ids are a no-op.
func (s *Session) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	owner, active := s.owner, s.active
	i := s.indexOf(id)
	s.mu.Unlock()

	if !active || i < 0 {
		return nil
	}

	if s.store.Local() {
		if err := s.store.Delete(ctx, owner, id); err != nil {
			s.log.Error(ctx, "delete failed", "id", id, "error", err)
			return err
		}
	}

	rec := s.drop(owner, id)
	if rec == nil {
		return nil
	}

	if !s.store.Local() {
		if f, ok := s.res.(forgetter); ok {
			f.Forget(ctx, rec.ObjectKey)
		}
		s.detach("delete", func(ctx context.Context) error {
			return s.store.Delete(ctx, owner, id)
		})
	}
	return nil
}

// Clear deletes every item of the active owner.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	owner, active := s.owner, s.active
	s.mu.Unlock()

	if !active {
		return nil
	}

	if s.store.Local() {
		if err := s.store.Clear(ctx, owner); err != nil {
			s.log.Error(ctx, "clear failed", "owner", owner, "error", err)
			return err
		}
	}

	s.mu.Lock()
	if s.owner != owner {
		s.mu.Unlock()
		return nil
	}
	old := s.items
	s.items = nil
	s.metrics.items.Set(0)
	s.mu.Unlock()

	s.release(old)
	s.notify()

	if !s.store.Local() {
		if f, ok := s.res.(forgetter); ok {
			for _, rec := range old {
				f.Forget(ctx, rec.ObjectKey)
			}
		}
		s.detach("clear", func(ctx context.Context) error {
			return s.store.Clear(ctx, owner)
		})
	}
	return nil
}

// Wait blocks until background deletes have finished.
func (s *Session) Wait() {
	s.pending.Wait()
}

// Close unsubscribes from the session context, waits for background
// deletes and releases every handle.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	old := s.items
	s.items = nil
	s.mu.Unlock()

	s.unsubscribe()
	s.release(old)
	if r, ok := s.res.(releaser); ok {
		r.ReleaseAll()
	}

	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) detach(op string, fn func(ctx context.Context) error) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.detachedTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.metrics.removals.WithLabelValues("failed").Inc()
			s.log.Warn(ctx, "background "+op+" failed", "error", err)
			return
		}
		s.metrics.removals.WithLabelValues("ok").Inc()
	}()
}

// drop removes id from the view if the owner is unchanged and returns it.
func (s *Session) drop(owner, id string) *models.MediaRecord {
	s.mu.Lock()
	if s.owner != owner {
		s.mu.Unlock()
		return nil
	}
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	rec := s.items[i]
	s.items = slices.Delete(s.items, i, i+1)
	s.metrics.items.Set(float64(len(s.items)))
	s.mu.Unlock()

	s.res.Release(rec)
	s.notify()
	return rec
}

func (s *Session) release(recs []*models.MediaRecord) {
	for _, r := range recs {
		s.res.Release(r)
	}
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// indexOf must be called with s.mu held.
func (s *Session) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(r *models.MediaRecord) bool { return r.ID == id })
}
