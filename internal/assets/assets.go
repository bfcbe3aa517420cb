package assets

import "fmt"

// CoverTemplateName is the template rendered into cover images.
const CoverTemplateName = "cover"

var embeddedLoader = NewEmbeddedLoader()

// LoadTheme returns a built-in theme.
func LoadTheme(name string) (string, error) {
	return embeddedLoader.LoadTheme(name)
}

// LoadTemplate returns a built-in template.
func LoadTemplate(name string) (string, error) {
	return embeddedLoader.LoadTemplate(name)
}

// LoadThemes loads every named theme from loader, keyed by name.
// Fails on the first theme that cannot be loaded.
func LoadThemes(loader AssetLoader, names []string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		content, err := loader.LoadTheme(name)
		if err != nil {
			return nil, fmt.Errorf("loading theme %q: %w", name, err)
		}
		out[name] = content
	}
	return out, nil
}
