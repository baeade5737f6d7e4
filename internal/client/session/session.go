// Package session tracks which account is active and therefore which
// partition of the blob store the gallery shows.
package session

import (
	"context"
	"sync"
)

// Context identifies the active owner key and notifies subscribers when it
// changes.
type Context interface {
	// CurrentOwnerKey returns the active partition. ok is false while no
	// session is active (remote variant, signed out).
	CurrentOwnerKey() (key string, ok bool)

	SignUp(ctx context.Context, email string, secret []byte) error
	SignIn(ctx context.Context, email string, secret []byte) error
	SignOut(ctx context.Context) error

	// Subscribe registers fn to be called synchronously after every owner
	// key change. fn must not switch sessions itself.
	Subscribe(fn func(ownerKey string, ok bool)) (unsubscribe func())

	// CanUpload reports whether ingestion is currently allowed.
	CanUpload() bool

	// DisplayName is the signed-in email, "guest", or empty when signed out.
	DisplayName() string
}

type subscribers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(string, bool)
}

func (s *subscribers) add(fn func(string, bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func(string, bool))
	}
	id := s.next
	s.next++
	s.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

func (s *subscribers) notify(key string, ok bool) {
	s.mu.Lock()
	fns := make([]func(string, bool), 0, len(s.fns))
	for i := 0; i < s.next; i++ {
		if fn, found := s.fns[i]; found {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(key, ok)
	}
}
