package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"unicode"
)

// AssetLoader loads themes and templates by bare name (no extension).
type AssetLoader interface {
	LoadTheme(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// kind is a family of assets sharing a directory and a not-found error.
type kind struct {
	dir      string
	notFound error
}

var (
	themeKind    = kind{dir: "themes", notFound: ErrThemeNotFound}
	templateKind = kind{dir: "templates", notFound: ErrTemplateNotFound}
)

// path returns the slash-separated location of name, or
// ErrInvalidAssetName when name is not a plain identifier.
func (k kind) path(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	return k.dir + "/" + name + ".html", nil
}

// checkName accepts letters, digits, '-' and '_' only, which rules out
// separators, dots and traversal.
func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}

// readAsset reads name of kind k from fsys.
func readAsset(fsys fs.FS, k kind, name string) (string, error) {
	p, err := k.path(name)
	if err != nil {
		return "", err
	}
	return classify(k, name, func() ([]byte, error) { return fs.ReadFile(fsys, p) })
}

// classify runs read and maps a missing file to k's not-found error and
// anything else to ErrAssetRead.
func classify(k kind, name string, read func() ([]byte, error)) (string, error) {
	data, err := read()
	switch {
	case err == nil:
		return string(data), nil
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	default:
		return "", fmt.Errorf("%w: %q: %v", ErrAssetRead, name, err)
	}
}

// isNotFound reports whether err means the asset is absent, the only case
// where a lookup falls through to the next loader.
func isNotFound(err error) bool {
	return errors.Is(err, ErrThemeNotFound) || errors.Is(err, ErrTemplateNotFound)
}
