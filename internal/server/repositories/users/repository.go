// Package users persists token server accounts and the tokens issued to them.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophgallery/internal/server/models"
)

type Repository interface {
	// Create stores a new user with its initial tokens. A duplicate email
	// yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) error

	// GetByEmail and GetByID yield common.ErrorNotFound for unknown users.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)

	// AddToken records a newly issued token for the user.
	AddToken(ctx context.Context, userID, token string) error
}
