package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ImageUploader publishes a local image and returns the URL that replaces it.
type ImageUploader func(ctx context.Context, absPath string) (string, error)

// RewriteLocalImages uploads images referenced by relative paths and points
// their src at the returned URLs. WeChat rejects articles whose images are
// hosted anywhere but its own CDN.
//
// Paths are resolved against sourceDir and must stay under it; anything else
// (URLs, data URIs, absolute paths, traversal) is left as is. The same path is
// uploaded once. If sourceDir is empty or no local image is referenced, the
// content is returned unchanged without re-serialization.
func RewriteLocalImages(ctx context.Context, htmlContent, sourceDir string, upload ImageUploader) (string, error) {
	if sourceDir == "" || !strings.Contains(htmlContent, "<img") {
		return htmlContent, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	var targets []*html.Attribute
	collectLocalImages(doc, &targets)
	if len(targets) == 0 {
		return htmlContent, nil
	}

	uploaded := make(map[string]string)
	for _, attr := range targets {
		absPath := filepath.Join(absSourceDir, attr.Val)
		if !isPathUnderDir(absPath, absSourceDir) {
			continue
		}
		if u, ok := uploaded[absPath]; ok {
			attr.Val = u
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		u, err := upload(ctx, absPath)
		if err != nil {
			return "", fmt.Errorf("uploading image %q: %w", attr.Val, err)
		}
		uploaded[absPath] = u
		attr.Val = u
	}

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// collectLocalImages gathers img[src] attributes holding relative paths.
func collectLocalImages(n *html.Node, out *[]*html.Attribute) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i := range n.Attr {
			if n.Attr[i].Key == "src" && isRelativePath(n.Attr[i].Val) {
				*out = append(*out, &n.Attr[i])
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectLocalImages(c, out)
	}
}

// isRelativePath returns true if the path refers to a file next to the document.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}

	// URLs (http, https, file, data, protocol-relative)
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "file://") ||
		strings.HasPrefix(path, "data:") ||
		strings.HasPrefix(path, "//") {
		return false
	}

	if strings.HasPrefix(path, "#") {
		return false
	}

	return !filepath.IsAbs(path)
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}
