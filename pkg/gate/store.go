package gate

import (
	"errors"
	"os"
	"strings"
)

// FileTokenStore persists the token in a single file, the CLI-client
// equivalent of browser local storage.
type FileTokenStore struct {
	Path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{Path: path}
}

// Load returns the stored token, or empty when none has been saved.
func (s *FileTokenStore) Load() (string, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *FileTokenStore) Save(token string) error {
	return os.WriteFile(s.Path, []byte(token), 0o600)
}

// Clear removes the token file. A missing file is not an error.
func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
