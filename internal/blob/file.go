package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists the state blob as a single file under a base directory.
type FileStore struct {
	path string
}

// NewFileStore ensures the parent directory exists and returns a handle for
// the given key (used as the file name, with a .json extension).
func NewFileStore(baseDir, key string) (*FileStore, error) {
	if baseDir == "" {
		baseDir = "./data"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{path: filepath.Join(baseDir, key+".json")}, nil
}

// Get reads the blob, returning ErrNotFound when nothing was written yet.
func (s *FileStore) Get(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	return data, nil
}

// Set writes the blob through a temp file so a crash mid-write cannot leave
// a truncated state file behind.
func (s *FileStore) Set(ctx context.Context, data []byte) error {
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
