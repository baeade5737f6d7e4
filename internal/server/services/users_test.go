package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/server/auth"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newFileService(t *testing.T) (*UserService, *repomanager.FileRepositoryManager) {
	t.Helper()
	rm, err := repomanager.NewFileRepositoryManager(t.TempDir())
	require.NoError(t, err)
	return NewUserService(rm, testSecret), rm
}

// brokenRepo fails every call with a storage error.
type brokenRepo struct{}

var errDisk = errors.New("disk on fire")

func (brokenRepo) Create(context.Context, *models.User) error { return errDisk }
func (brokenRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, errDisk
}
func (brokenRepo) GetByID(context.Context, string) (*models.User, error) { return nil, errDisk }
func (brokenRepo) AddToken(context.Context, string, string) error      { return errDisk }

type brokenManager struct{}

func (brokenManager) Users() users.Repository { return brokenRepo{} }
func (brokenManager) Close() error            { return nil }

func TestSignUp_CreatesUserWithToken(t *testing.T) {
	s, rm := newFileService(t)
	ctx := context.Background()

	sess, err := s.SignUp(ctx, "  Alice@Example.COM ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", sess.Email)
	assert.Len(t, sess.ID, 24)
	assert.NotEmpty(t, sess.Token)

	u, err := rm.Users().GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{sess.Token}, u.Tokens)
	assert.NotEqual(t, "pw", u.PasswordHash)

	sub, err := auth.GetUserIDFromToken(sess.Token, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, sess.ID, sub)
}

func TestSignUp_Errors(t *testing.T) {
	s, _ := newFileService(t)
	ctx := context.Background()

	_, err := s.SignUp(ctx, "", "pw")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = s.SignUp(ctx, "a@example.com", "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = s.SignUp(ctx, "a@example.com", "pw")
	require.NoError(t, err)
	_, err = s.SignUp(ctx, "A@example.com", "other")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	_, err = NewUserService(brokenManager{}, testSecret).SignUp(ctx, "b@example.com", "pw")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestLogin(t *testing.T) {
	s, rm := newFileService(t)
	ctx := context.Background()

	first, err := s.SignUp(ctx, "bob@example.com", "secret")
	require.NoError(t, err)

	second, err := s.Login(ctx, "BOB@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.Token, second.Token)

	u, err := rm.Users().GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{first.Token, second.Token}, u.Tokens)

	_, err = s.Login(ctx, "bob@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredential)
	_, err = s.Login(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, common.ErrInvalidCredential)
	_, err = s.Login(ctx, "", "secret")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = NewUserService(brokenManager{}, testSecret).Login(ctx, "bob@example.com", "secret")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestCheck(t *testing.T) {
	s, _ := newFileService(t)
	ctx := context.Background()

	sess, err := s.SignUp(ctx, "carol@example.com", "pw")
	require.NoError(t, err)

	u, err := s.Check(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, u.ID)
	assert.Equal(t, "carol@example.com", u.Email)

	_, err = s.Check(ctx, "")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = s.Check(ctx, "garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	// Correctly signed but never issued.
	forged, err := auth.GenerateToken(sess.ID, []byte(testSecret))
	require.NoError(t, err)
	_, err = s.Check(ctx, forged)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	// Signed for a user that does not exist.
	ghost, err := auth.GenerateToken("ghost", []byte(testSecret))
	require.NoError(t, err)
	_, err = s.Check(ctx, ghost)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	// Signed with a different secret.
	other := NewUserService(brokenManager{}, "another-secret")
	_, err = other.Check(ctx, sess.Token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestCheck_HonoursEditsToUsersFile(t *testing.T) {
	dir := t.TempDir()
	rm, err := repomanager.NewFileRepositoryManager(dir)
	require.NoError(t, err)
	s := NewUserService(rm, testSecret)
	ctx := context.Background()

	sess, err := s.SignUp(ctx, "dave@example.com", "pw")
	require.NoError(t, err)
	_, err = s.Check(ctx, sess.Token)
	require.NoError(t, err)

	// revoke every token by editing the file directly
	path := filepath.Join(dir, users.FileName)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk []*models.User
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	require.Len(t, onDisk, 1)
	onDisk[0].Tokens = nil
	raw, err = json.Marshal(onDisk)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	_, err = s.Check(ctx, sess.Token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
