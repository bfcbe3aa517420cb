package md2wechat

import (
	"fmt"

	"github.com/alnah/go-md2wechat/internal/assets"
)

// AssetLoader loads theme templates and other HTML templates by name.
// Implementations may read from disk, embedded files or anywhere else.
type AssetLoader interface {
	// LoadTheme returns the template text of a theme.
	// Returns ErrThemeNotFound if the theme doesn't exist.
	LoadTheme(name string) (string, error)

	// LoadTemplate returns an auxiliary HTML template such as the cover card.
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

// Compile-time interface check.
var _ assets.AssetLoader = AssetLoader(nil)

// NewAssetLoader creates an AssetLoader for basePath.
// If basePath is empty, only embedded assets are used; otherwise files under
// basePath take precedence over the embedded ones.
//
// Returns ErrInvalidAssetPath if basePath is set but not a readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewResolver(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	return resolver, nil
}
