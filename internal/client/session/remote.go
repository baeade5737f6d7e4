package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophgallery/internal/client/authclient"
	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
)

// AuthService is the token server as seen by the remote session.
type AuthService interface {
	SignUp(ctx context.Context, email string, password []byte) (*authclient.Session, error)
	Login(ctx context.Context, email string, password []byte) (*authclient.Session, error)
	Check(ctx context.Context, token string) (*authclient.Identity, error)
}

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Remote delegates identity to the token server. There is no active owner
// until a sign-in, sign-up or Restore succeeds.
type Remote struct {
	auth   AuthService
	tokens TokenStore
	log    logging.Logger

	switchMu sync.Mutex

	mu    sync.RWMutex
	id    string
	email string
	token string

	subs subscribers
}

var _ Context = (*Remote)(nil)

// NewRemote builds a signed-out remote session. tokens may be nil.
func NewRemote(auth AuthService, tokens TokenStore, log logging.Logger) *Remote {
	return &Remote{auth: auth, tokens: tokens, log: log.With("component", "remote-session")}
}

func (r *Remote) CurrentOwnerKey() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.id, r.id != ""
}

func (r *Remote) DisplayName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.email
}

func (r *Remote) CanUpload() bool {
	_, ok := r.CurrentOwnerKey()
	return ok
}

// Token returns the current bearer token, empty while signed out.
func (r *Remote) Token() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.token
}

func (r *Remote) Subscribe(fn func(string, bool)) func() {
	return r.subs.add(fn)
}

func (r *Remote) SignUp(ctx context.Context, email string, secret []byte) error {
	s, err := r.auth.SignUp(ctx, email, secret)
	if err != nil {
		return err
	}
	r.begin(ctx, s.ID, s.Email, s.Token)
	return nil
}

func (r *Remote) SignIn(ctx context.Context, email string, secret []byte) error {
	s, err := r.auth.Login(ctx, email, secret)
	if err != nil {
		return err
	}
	r.begin(ctx, s.ID, s.Email, s.Token)
	return nil
}

// Restore re-validates a saved token. An empty token loads one from the
// token store.
func (r *Remote) Restore(ctx context.Context, token string) error {
	if token == "" && r.tokens != nil {
		t, err := r.tokens.Load()
		if err != nil {
			return fmt.Errorf("load token: %w", err)
		}
		token = t
	}
	if token == "" {
		return common.ErrNotAuthenticated
	}

	id, err := r.auth.Check(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) && r.tokens != nil {
			_ = r.tokens.Clear()
		}
		return err
	}
	r.begin(ctx, id.ID, id.Email, token)
	return nil
}

func (r *Remote) SignOut(ctx context.Context) error {
	if r.tokens != nil {
		if err := r.tokens.Clear(); err != nil {
			r.log.Warn(ctx, "failed to clear saved token", "error", err)
		}
	}
	r.set("", "", "")
	return nil
}

func (r *Remote) begin(ctx context.Context, id, email, token string) {
	if r.tokens != nil {
		if err := r.tokens.Save(token); err != nil {
			r.log.Warn(ctx, "failed to save token", "error", err)
		}
	}
	r.set(id, email, token)
}

func (r *Remote) set(id, email, token string) {
	r.switchMu.Lock()
	defer r.switchMu.Unlock()

	r.mu.Lock()
	changed := r.id != id
	r.id, r.email, r.token = id, email, token
	r.mu.Unlock()

	if changed {
		r.subs.notify(id, id != "")
	}
}
