package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmontano/testbank/config"
)

// FileStore abstracts where uploaded questionnaires and generated documents
// live. Keys are slash-separated relative paths such as
// "questionnaires/CCIS/IT101/abc_quiz.pdf".
type FileStore interface {
	Put(key string, r io.Reader) (string, error)
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
	Path(key string) string
}

type FSStore struct {
	base string
}

func NewFSStore(cfg *config.Config) (FileStore, error) {
	base := cfg.Storage.MediaRoot
	if base == "" {
		base = "./media"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base}, nil
}

func (s *FSStore) Put(key string, r io.Reader) (string, error) {
	if key == "" {
		return "", errors.New("empty storage key")
	}
	// Codes in the key come from admin input; a ".." segment must not
	// climb out of the media root.
	if cleaned := filepath.Clean(key); cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("storage key %q escapes the media root", key)
	}
	dst := s.Path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return key, nil
}

func (s *FSStore) Get(key string) (io.ReadCloser, error) {
	return os.Open(s.Path(key))
}

func (s *FSStore) Delete(key string) error {
	err := os.Remove(s.Path(key))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Path resolves a key below the base directory. Rooting the key before
// cleaning discards any ".." prefix, so the result never leaves base.
func (s *FSStore) Path(key string) string {
	return filepath.Join(s.base, filepath.Join(string(filepath.Separator), key))
}
