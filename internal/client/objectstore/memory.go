package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/common"
)

// MemoryScheme prefixes URLs minted by MemoryStore.
const MemoryScheme = "mem://"

// MemoryStore is an in-process object store for tests and offline demos.
// Its signed URLs are mem://<key>?expires=<unix> and can be dereferenced with
// Open.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
	now     func() time.Time
}

type memObject struct {
	data        []byte
	contentType string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memObject), now: time.Now}
}

func (s *MemoryStore) Put(_ context.Context, key string, r io.Reader, size int64, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("memory: read %s: %w", key, err)
	}
	if size >= 0 && int64(len(b)) != size {
		return fmt.Errorf("memory: put %s: size mismatch: got %d, declared %d", key, len(b), size)
	}
	s.mu.Lock()
	s.objects[key] = memObject{data: b, contentType: contentType}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.objects, k)
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("memory: presign %s: %w", key, common.ErrorNotFound)
	}
	exp := s.now().Add(ttl).Unix()
	return fmt.Sprintf("%s%s?expires=%d", MemoryScheme, url.PathEscape(key), exp), nil
}

// Open resolves a mem:// URL back to the stored bytes.
func (s *MemoryStore) Open(rawURL string) ([]byte, error) {
	if !strings.HasPrefix(rawURL, MemoryScheme) {
		return nil, fmt.Errorf("memory: not a %s url", MemoryScheme)
	}
	rest := strings.TrimPrefix(rawURL, MemoryScheme)
	path, _, _ := strings.Cut(rest, "?")
	key, err := url.PathUnescape(path)
	if err != nil {
		return nil, fmt.Errorf("memory: bad key: %w", err)
	}
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("memory: open %s: no such object", key)
	}
	return obj.data, nil
}

// Keys lists stored keys in lexical order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
