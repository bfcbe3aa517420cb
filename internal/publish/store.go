package publish

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-md2wechat/internal/fileutil"
)

// Store keeps the files produced by a run.
type Store interface {
	// Path returns where a file with this name is or would be stored.
	Path(name string) string
	// Write stores data under name and returns its path.
	Write(name string, data []byte) (string, error)
}

// DirStore stores files in a single directory.
type DirStore struct {
	dir string
}

// Compile-time interface check.
var _ Store = (*DirStore)(nil)

// NewDirStore creates dir if needed and returns a store writing into it.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

// Path returns the path of name inside the directory.
func (s *DirStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Write writes data to name inside the directory.
func (s *DirStore) Write(name string, data []byte) (string, error) {
	path := s.Path(name)
	if err := fileutil.WriteAtomic(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}
