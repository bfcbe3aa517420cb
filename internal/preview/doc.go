// Package preview serves a Markdown file as rendered HTML on a local port
// and reloads open browser tabs when the file changes.
package preview
