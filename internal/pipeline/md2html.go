package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Sentinel errors for HTML conversion.
var (
	ErrHTMLConversion        = errors.New("HTML conversion failed")
	ErrUnknownHighlightStyle = errors.New("unknown highlight style")
)

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter converts Markdown to an HTML fragment using goldmark (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with tables, footnotes and
// fenced code blocks. Fenced code carries the bare language name as its class.
//
// When highlightStyle is non-empty, code blocks are colored by chroma with
// inline styles instead, since WeChat drops external stylesheets.
// Returns ErrUnknownHighlightStyle if the style is not registered in chroma.
func NewGoldmarkConverter(highlightStyle string) (*GoldmarkConverter, error) {
	exts := []goldmark.Extender{
		extension.NewTable(
			extension.WithTableCellAlignMethod(extension.TableCellAlignAttribute),
		),
		extension.Footnote,
	}
	rendererOpts := []renderer.Option{
		html.WithUnsafe(), // raw HTML passes through, like most Markdown dialects
	}

	if highlightStyle != "" {
		if _, ok := styles.Registry[highlightStyle]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownHighlightStyle, highlightStyle)
		}
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(highlightStyle),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(false),
			),
		))
	} else {
		rendererOpts = append(rendererOpts,
			renderer.WithNodeRenderers(util.Prioritized(&fencedCodeRenderer{}, 100)),
		)
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &GoldmarkConverter{md: md}, nil
}

// HighlightStyles lists the chroma style names accepted by NewGoldmarkConverter.
func HighlightStyles() []string {
	return styles.Names()
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// fencedCodeRenderer renders fenced code as <pre><code class="LANG">,
// without goldmark's default "language-" prefix.
type fencedCodeRenderer struct{}

func (r *fencedCodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *fencedCodeRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</code></pre>\n")
		return ast.WalkContinue, nil
	}

	n := node.(*ast.FencedCodeBlock)
	_, _ = w.WriteString("<pre><code")
	if lang := n.Language(source); lang != nil {
		_, _ = w.WriteString(` class="`)
		html.DefaultWriter.Write(w, lang)
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		html.DefaultWriter.RawWrite(w, line.Value(source))
	}
	return ast.WalkContinue, nil
}

// Compile-time interface checks.
var (
	_ HTMLConverter         = (*GoldmarkConverter)(nil)
	_ renderer.NodeRenderer = (*fencedCodeRenderer)(nil)
)
