// Package objectstore abstracts the S3-compatible bucket that holds remote
// media payloads. Objects are addressed by key; reads happen through
// time-limited signed GET URLs.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Store is the subset of object storage the gallery needs.
type Store interface {
	// Put uploads size bytes from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Remove deletes keys. Missing keys are not an error.
	Remove(ctx context.Context, keys ...string) error
	// PresignGet returns a URL that grants read access to key for ttl.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Provider names accepted by New.
const (
	ProviderS3     = "s3"
	ProviderMinio  = "minio"
	ProviderMemory = "memory"
)

// Config selects and parameterizes a provider.
type Config struct {
	Provider  string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PathStyle bool
}

// New builds the store named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Provider {
	case ProviderS3:
		return NewS3Store(ctx, cfg)
	case ProviderMinio:
		return NewMinioStore(ctx, cfg)
	case ProviderMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown object store provider %q", cfg.Provider)
	}
}
