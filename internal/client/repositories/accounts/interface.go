// Package accounts stores locally registered gallery accounts.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
)

type Repository interface {
	// Create inserts a new account. An existing key yields common.ErrAlreadyExists.
	Create(ctx context.Context, acc *models.Account) error
	// Get returns common.ErrorNotFound when the key is unknown.
	Get(ctx context.Context, key string) (*models.Account, error)
}
