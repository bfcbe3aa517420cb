package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirLoader reads assets from a directory on disk.
type DirLoader struct {
	dir string
}

// NewDirLoader checks that dir can be opened as a directory root.
// Returns ErrInvalidBasePath otherwise.
func NewDirLoader(dir string) (*DirLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if _, err := root.Stat("."); err != nil {
		_ = root.Close()
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	_ = root.Close()
	return &DirLoader{dir: abs}, nil
}

// Dir returns the absolute directory.
func (d *DirLoader) Dir() string { return d.dir }

// LoadTheme reads {dir}/themes/{name}.html.
func (d *DirLoader) LoadTheme(name string) (string, error) {
	return d.read(themeKind, name)
}

// LoadTemplate reads {dir}/templates/{name}.html.
func (d *DirLoader) LoadTemplate(name string) (string, error) {
	return d.read(templateKind, name)
}

// read opens a fresh root per lookup so no descriptor outlives the call.
// A symlink pointing outside the root fails as a read error, never as
// not-found.
func (d *DirLoader) read(k kind, name string) (string, error) {
	p, err := k.path(name)
	if err != nil {
		return "", err
	}
	root, err := os.OpenRoot(d.dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer func() { _ = root.Close() }()
	return classify(k, name, func() ([]byte, error) {
		return root.ReadFile(filepath.FromSlash(p))
	})
}

var _ AssetLoader = (*DirLoader)(nil)
