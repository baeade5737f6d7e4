package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/filex"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
)

// FileName is the users file inside the data directory.
const FileName = "users.json"

// FileRepository keeps every user in a single JSON array. The file is read on
// every call and rewritten atomically on each change, so edits made to it by
// hand or by another process take effect without a restart.
type FileRepository struct {
	path string

	// serializes read-modify-write cycles within this process
	mu sync.Mutex
}

var _ Repository = (*FileRepository)(nil)

// NewFileRepository opens <dataDir>/users.json, creating dataDir if needed.
// A missing file is an empty user list; an unreadable one is an error.
func NewFileRepository(dataDir string) (*FileRepository, error) {
	dir, err := filex.EnsureDir(dataDir)
	if err != nil {
		return nil, err
	}

	r := &FileRepository{path: filepath.Join(dir, FileName)}
	if _, err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}
	if findByEmail(users, user.Email) != nil {
		return common.ErrAlreadyExists
	}

	return r.save(append(users, user.Clone()))
}

func (r *FileRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, err
	}
	if u := findByEmail(users, email); u != nil {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (r *FileRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, err
	}
	if u := findByID(users, id); u != nil {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (r *FileRepository) AddToken(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}
	u := findByID(users, userID)
	if u == nil {
		return common.ErrorNotFound
	}

	u.Tokens = append(u.Tokens, token)
	return r.save(users)
}

// load returns a fresh decode of the file; callers own the result.
func (r *FileRepository) load() ([]*models.User, error) {
	b, err := os.ReadFile(r.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	var users []*models.User
	if err := json.Unmarshal(b, &users); err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.path, err)
	}
	return users, nil
}

func (r *FileRepository) save(users []*models.User) error {
	if users == nil {
		users = []*models.User{}
	}
	b, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(r.path, b, 0o600)
}

func findByEmail(users []*models.User, email string) *models.User {
	for _, u := range users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func findByID(users []*models.User, id string) *models.User {
	for _, u := range users {
		if u.ID == id {
			return u
		}
	}
	return nil
}
