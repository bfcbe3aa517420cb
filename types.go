package md2wechat

import "github.com/alnah/go-md2wechat/internal/pipeline"

// Built-in themes.
const (
	ThemeDefault = pipeline.ThemeDefault
	ThemeGrace   = pipeline.ThemeGrace
	ThemeSimple  = pipeline.ThemeSimple
)

// DefaultTitle is used when no title can be resolved.
const DefaultTitle = pipeline.DefaultTitle

// Themes returns the built-in theme names.
func Themes() []string {
	return pipeline.ThemeNames()
}

// HighlightStyles lists the style names accepted by WithHighlightStyle.
func HighlightStyles() []string {
	return pipeline.HighlightStyles()
}

// RenderOptions controls a single rendering.
type RenderOptions struct {
	Theme     string // default, grace or simple; anything else means default
	Title     string // overrides frontmatter and heading
	Author    string // overrides frontmatter
	KeepTitle bool   // keep the first level-1 heading in the body
}

// Article is a rendered document with its resolved metadata.
type Article struct {
	HTML     string
	Title    string
	Author   string
	Theme    string            // theme actually used
	Metadata map[string]string // frontmatter, empty when absent
}

// Option configures a Converter.
type Option func(*Converter)

// WithAssetPath loads theme templates from dir, falling back to the
// embedded ones.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithAssetLoader sets a custom source of theme templates.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.assetLoader = loader
	}
}

// WithHighlightStyle colors fenced code with a chroma style, using inline
// styles. Empty disables highlighting.
func WithHighlightStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.highlightStyle = style
	}
}

// WithSanitize strips unsafe markup from the rendered body before it is
// placed in the theme.
func WithSanitize(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.sanitize = enabled
	}
}
