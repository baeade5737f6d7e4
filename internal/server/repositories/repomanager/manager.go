// Package repomanager picks the token server's user storage: a JSON file in
// the data directory, or PostgreSQL when a DSN is configured.
package repomanager

import (
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Close() error
}

// FileRepositoryManager stores users in <dataDir>/users.json.
type FileRepositoryManager struct {
	users *users.FileRepository
}

func NewFileRepositoryManager(dataDir string) (*FileRepositoryManager, error) {
	r, err := users.NewFileRepository(dataDir)
	if err != nil {
		return nil, err
	}
	return &FileRepositoryManager{users: r}, nil
}

func (m *FileRepositoryManager) Users() users.Repository { return m.users }
func (m *FileRepositoryManager) Close() error            { return nil }
