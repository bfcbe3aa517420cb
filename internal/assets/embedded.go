package assets

import "embed"

//go:embed themes/*.html templates/*.html
var builtin embed.FS

// EmbeddedLoader serves the assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader returns the built-in loader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadTheme returns themes/{name}.html.
func (*EmbeddedLoader) LoadTheme(name string) (string, error) {
	return readAsset(builtin, themeKind, name)
}

// LoadTemplate returns templates/{name}.html.
func (*EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return readAsset(builtin, templateKind, name)
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
