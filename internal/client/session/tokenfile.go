package session

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophgallery/internal/filex"
)

// FileTokenStore keeps the bearer token in a single file.
type FileTokenStore struct {
	path string
}

var _ TokenStore = (*FileTokenStore)(nil)

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load returns an empty token when the file does not exist.
func (s *FileTokenStore) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *FileTokenStore) Save(token string) error {
	return filex.WriteFileAtomic(s.path, []byte(token), 0o600)
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
