package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Built-in theme names.
const (
	ThemeDefault = "default"
	ThemeGrace   = "grace"
	ThemeSimple  = "simple"
)

// Template slots substituted by ThemeCompositor.
const (
	SlotTitle   = "{title}"
	SlotContent = "{content}"
	SlotAuthor  = "{author}"
)

// ErrMissingTheme indicates a compositor was built without one of the built-in themes.
var ErrMissingTheme = errors.New("theme template missing")

// ThemeNames returns the built-in theme names in display order.
func ThemeNames() []string {
	return []string{ThemeDefault, ThemeGrace, ThemeSimple}
}

// ResolveTheme maps a requested theme name to a built-in theme.
// Unknown or empty names resolve to ThemeDefault.
func ResolveTheme(name string) string {
	switch name {
	case ThemeDefault, ThemeGrace, ThemeSimple:
		return name
	default:
		return ThemeDefault
	}
}

// ThemeData holds the values substituted into a theme template.
type ThemeData struct {
	Title   string
	Content string
	Author  string
}

// ThemeCompositor wraps an HTML fragment in a theme template.
type ThemeCompositor struct {
	templates map[string]string
}

// NewThemeCompositor creates a ThemeCompositor from template text keyed by theme name.
// Every built-in theme must be present.
func NewThemeCompositor(templates map[string]string) (*ThemeCompositor, error) {
	tpl := make(map[string]string, len(templates))
	for _, name := range ThemeNames() {
		t, ok := templates[name]
		if !ok || t == "" {
			return nil, fmt.Errorf("%w: %q", ErrMissingTheme, name)
		}
		tpl[name] = t
	}
	return &ThemeCompositor{templates: tpl}, nil
}

// Compose substitutes data into the template of the resolved theme and
// returns the document along with the theme name actually used.
//
// Substitution is literal and single-pass: values are not HTML-escaped, and
// slot markers appearing inside values are not expanded again.
func (c *ThemeCompositor) Compose(theme string, data ThemeData) (html, resolved string) {
	resolved = ResolveTheme(theme)
	r := strings.NewReplacer(
		SlotTitle, data.Title,
		SlotContent, data.Content,
		SlotAuthor, data.Author,
	)
	return r.Replace(c.templates[resolved]), resolved
}
