// Package services implements the token server's account operations on top
// of the repository layer.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/cryptox"
	"github.com/dmitrijs2005/gophgallery/internal/server/auth"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/repomanager"
)

// Session is what signup and login hand back to the client.
type Session struct {
	ID    string
	Email string
	Token string
}

type UserService struct {
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	now         func() time.Time
}

func NewUserService(rm repomanager.RepositoryManager, secretKey string) *UserService {
	return &UserService{
		repomanager: rm,
		jwtSecret:   []byte(secretKey),
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a new account and issues its first token.
func (s *UserService) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ErrInvalidInput
	}

	repo := s.repomanager.Users()

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	hash, err := cryptox.HashSecret([]byte(password))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	id, err := common.MakeRandHexString(12)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	token, err := auth.GenerateToken(id, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user := &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: string(hash),
		Tokens:       []string{token},
		CreatedAt:    s.now().UTC(),
	}

	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return &Session{ID: id, Email: email, Token: token}, nil
}

// Login checks the password and issues an additional token; earlier tokens
// stay valid.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ErrInvalidInput
	}

	repo := s.repomanager.Users()

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredential
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := cryptox.CheckSecret([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredential
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := repo.AddToken(ctx, user.ID, token); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return &Session{ID: user.ID, Email: user.Email, Token: token}, nil
}

// Check resolves a bearer token to its user. The token must carry a valid
// signature and still be on the user's token list.
func (s *UserService) Check(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrInvalidToken
	}

	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if !user.HasToken(token) {
		return nil, common.ErrInvalidToken
	}

	return user, nil
}
