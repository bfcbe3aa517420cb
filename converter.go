package md2wechat

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-md2wechat/internal/assets"
	"github.com/alnah/go-md2wechat/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.Sanitizer     = (*pipeline.UGCSanitizer)(nil)
)

// converterConfig holds options resolved in NewConverter.
type converterConfig struct {
	assetPath      string
	highlightStyle string
	sanitize       bool
}

// Converter renders Markdown articles into themed HTML.
// It holds no per-call state and is safe for concurrent use.
type Converter struct {
	cfg           converterConfig
	assetLoader   AssetLoader
	htmlConverter pipeline.HTMLConverter
	sanitizer     pipeline.Sanitizer
	compositor    *pipeline.ThemeCompositor
}

// NewConverter creates a Converter with the embedded themes.
// Returns an error if an option is invalid or a theme cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		assetLoader: assets.NewEmbeddedLoader(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		loader, err := NewAssetLoader(c.cfg.assetPath)
		if err != nil {
			return nil, err
		}
		c.assetLoader = loader
	}

	if c.htmlConverter == nil {
		conv, err := pipeline.NewGoldmarkConverter(c.cfg.highlightStyle)
		if err != nil {
			return nil, err
		}
		c.htmlConverter = conv
	}

	if c.cfg.sanitize && c.sanitizer == nil {
		c.sanitizer = pipeline.NewUGCSanitizer()
	}

	themes, err := assets.LoadThemes(c.assetLoader, pipeline.ThemeNames())
	if err != nil {
		return nil, err
	}
	c.compositor, err = pipeline.NewThemeCompositor(themes)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Render converts markdown into a themed HTML document.
//
// Title resolution order: opts.Title, frontmatter "title", the opening
// heading of the body, DefaultTitle. Author: opts.Author, frontmatter
// "author", frontmatter "description", empty.
func (c *Converter) Render(ctx context.Context, markdown string, opts RenderOptions) (*Article, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, ErrEmptyMarkdown
	}

	meta, body := pipeline.ParseFrontmatter(pipeline.NormalizeLineEndings(markdown))

	title := pipeline.Resolve(DefaultTitle,
		pipeline.Const(opts.Title),
		pipeline.Const(meta["title"]),
		func() string { return pipeline.ExtractTitle(body) },
	)
	author := pipeline.Resolve("",
		pipeline.Const(opts.Author),
		pipeline.Const(meta["author"]),
		pipeline.Const(meta["description"]),
	)

	if !opts.KeepTitle {
		body = pipeline.StripTitle(body)
	}

	content, err := c.htmlConverter.ToHTML(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}
	if c.sanitizer != nil {
		content = c.sanitizer.Sanitize(content)
	}
	content = pipeline.ConvertAlerts(content)

	doc, theme := c.compositor.Compose(opts.Theme, pipeline.ThemeData{
		Title:   title,
		Content: content,
		Author:  author,
	})

	return &Article{
		HTML:     doc,
		Title:    title,
		Author:   author,
		Theme:    theme,
		Metadata: meta,
	}, nil
}

// InlineStyles moves the styling of common tags into style attributes,
// since the editor drops <style> blocks. Matching is per tag and
// non-recursive: nested elements of the same tag are only partly styled.
func InlineStyles(html string) string {
	return pipeline.InlineStyles(html)
}

// PrepareForWeChat finishes an inline-styled document for the draft API:
// style blocks removed, images constrained, paragraphs spaced.
func PrepareForWeChat(html string) string {
	return pipeline.PrepareForWeChat(html)
}
