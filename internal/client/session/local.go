package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/cryptox"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/validation"
)

type signUpInput struct {
	Email  string `json:"email" validate:"required,email"`
	Secret []byte `json:"password" validate:"required,min=1"`
}

type signInInput struct {
	Email  string `json:"email" validate:"required"`
	Secret []byte `json:"password" validate:"required,min=1"`
}

// Local keeps accounts on this machine. The guest partition is always
// available and is the initial state.
type Local struct {
	accounts accounts.Repository
	log      logging.Logger

	// switchMu serializes key changes with their notifications.
	switchMu sync.Mutex

	mu    sync.RWMutex
	key   string
	email string

	subs subscribers
}

var _ Context = (*Local)(nil)

func NewLocal(repo accounts.Repository, log logging.Logger) *Local {
	return &Local{
		accounts: repo,
		log:      log.With("component", "local-session"),
		key:      common.GuestOwnerKey,
	}
}

func (l *Local) CurrentOwnerKey() (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.key, true
}

func (l *Local) DisplayName() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.key == common.GuestOwnerKey {
		return common.GuestOwnerKey
	}
	return l.email
}

func (l *Local) CanUpload() bool { return true }

func (l *Local) Subscribe(fn func(string, bool)) func() {
	return l.subs.add(fn)
}

// SignUp registers a new account and makes it active.
func (l *Local) SignUp(ctx context.Context, email string, secret []byte) error {
	key := models.NormalizeEmail(email)
	if key == common.GuestOwnerKey {
		return common.ErrAlreadyExists
	}
	if err := validation.ValidateStruct(signUpInput{Email: key, Secret: secret}); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, validation.FieldErrors(err))
	}

	hash, err := cryptox.HashSecret(secret)
	if err != nil {
		return err
	}

	acc := &models.Account{Key: key, Email: email, SecretHash: hash}
	if err := l.accounts.Create(ctx, acc); err != nil {
		return err
	}
	l.log.Info(ctx, "account registered", "account", key)

	l.activate(key, email)
	return nil
}

// SignIn activates an existing account. "guest" is accepted with any secret.
func (l *Local) SignIn(ctx context.Context, email string, secret []byte) error {
	key := models.NormalizeEmail(email)
	if key == common.GuestOwnerKey {
		l.activate(common.GuestOwnerKey, "")
		return nil
	}
	if err := validation.ValidateStruct(signInInput{Email: key, Secret: secret}); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, validation.FieldErrors(err))
	}

	acc, err := l.accounts.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrInvalidCredential
	}
	if err != nil {
		return err
	}
	if err := cryptox.CheckSecret(acc.SecretHash, secret); err != nil {
		if errors.Is(err, cryptox.ErrSecretMismatch) {
			return common.ErrInvalidCredential
		}
		return err
	}

	l.activate(acc.Key, acc.Email)
	return nil
}

// SignOut always succeeds and returns to the guest partition.
func (l *Local) SignOut(context.Context) error {
	l.activate(common.GuestOwnerKey, "")
	return nil
}

func (l *Local) activate(key, email string) {
	l.switchMu.Lock()
	defer l.switchMu.Unlock()

	l.mu.Lock()
	changed := l.key != key
	l.key, l.email = key, email
	l.mu.Unlock()

	if changed {
		l.subs.notify(key, true)
	}
}
