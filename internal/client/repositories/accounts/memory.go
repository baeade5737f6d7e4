package accounts

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/common"
)

// MemoryRepository backs the local session when the embedded store is
// unavailable.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]models.Account
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]models.Account)}
}

func (r *MemoryRepository) Create(_ context.Context, acc *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[acc.Key]; ok {
		return common.ErrAlreadyExists
	}
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = time.Now().UTC()
	}
	c := *acc
	c.SecretHash = bytes.Clone(acc.SecretHash)
	r.byID[acc.Key] = c
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, key string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.byID[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &acc, nil
}
