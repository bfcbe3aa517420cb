package assets

// Resolver tries a custom directory first and falls back to the embedded
// assets when the custom copy does not exist. Invalid names and read
// failures are returned as they are.
type Resolver struct {
	layers []AssetLoader
}

// NewResolver returns a Resolver over the embedded assets, with dir layered
// on top when it is not empty.
func NewResolver(dir string) (*Resolver, error) {
	r := &Resolver{}
	if dir != "" {
		custom, err := NewDirLoader(dir)
		if err != nil {
			return nil, err
		}
		r.layers = append(r.layers, custom)
	}
	r.layers = append(r.layers, NewEmbeddedLoader())
	return r, nil
}

// LoadTheme returns the first theme found.
func (r *Resolver) LoadTheme(name string) (string, error) {
	return r.first(func(l AssetLoader) (string, error) { return l.LoadTheme(name) })
}

// LoadTemplate returns the first template found.
func (r *Resolver) LoadTemplate(name string) (string, error) {
	return r.first(func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

// HasCustomDir reports whether a custom directory is layered in.
func (r *Resolver) HasCustomDir() bool {
	return len(r.layers) > 1
}

func (r *Resolver) first(load func(AssetLoader) (string, error)) (string, error) {
	var err error
	for _, l := range r.layers {
		var content string
		content, err = load(l)
		if err == nil || !isNotFound(err) {
			return content, err
		}
	}
	return "", err
}

var _ AssetLoader = (*Resolver)(nil)
