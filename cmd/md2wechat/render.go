package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	md2wechat "github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/config"
	"github.com/alnah/go-md2wechat/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// maxInputSize bounds Markdown read from stdin or a file.
const maxInputSize = 32 << 20

// renderResult is the --json summary of a rendering.
type renderResult struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	HTMLPath string `json:"htmlPath"`
	Theme    string `json:"theme"`
}

// runRender renders Markdown from a file, literal text or stdin.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}

	cfg, err := resolveConfig(flags.common.config, env.Stderr)
	if err != nil {
		return err
	}
	mergeRenderFlags(&flags.render, cfg)
	env.Config = cfg

	markdown, err := readInput(positional, flags.stdin, env)
	if err != nil {
		return err
	}

	conv, err := newConverter(cfg)
	if err != nil {
		return err
	}
	warnUnknownTheme(env.Stderr, cfg.Theme, flags.common.quiet)

	article, err := conv.Render(ctx, markdown, md2wechat.RenderOptions{
		Theme:     cfg.Theme,
		Title:     flags.render.title,
		Author:    flags.render.author,
		KeepTitle: flags.render.keepTitle,
	})
	if err != nil {
		return err
	}

	if flags.output != "" {
		if err := writeOutput(flags.output, article.HTML); err != nil {
			return err
		}
		if !flags.json && !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
		}
	}

	if flags.json {
		return writeJSON(env.Stdout, renderResult{
			Title:    article.Title,
			Author:   article.Author,
			HTMLPath: flags.output,
			Theme:    article.Theme,
		})
	}
	if flags.output == "" {
		fmt.Fprintln(env.Stdout, article.HTML)
	}
	return nil
}

// mergeRenderFlags applies set render flags over cfg.
func mergeRenderFlags(f *renderFlags, cfg *config.Config) {
	setString(&cfg.Theme, f.theme)
	setString(&cfg.Render.Highlight, f.highlight)
	setString(&cfg.Assets.BasePath, f.assetPath)
	if f.sanitize {
		cfg.Render.Sanitize = true
	}
}

// newConverter builds the renderer described by cfg.
func newConverter(cfg *config.Config) (*md2wechat.Converter, error) {
	return md2wechat.NewConverter(
		md2wechat.WithAssetPath(cfg.Assets.BasePath),
		md2wechat.WithHighlightStyle(cfg.Render.Highlight),
		md2wechat.WithSanitize(cfg.Render.Sanitize),
	)
}

// warnUnknownTheme notes that an unknown theme falls back to the default.
func warnUnknownTheme(w io.Writer, theme string, quiet bool) {
	if quiet || theme == "" || slices.Contains(md2wechat.Themes(), theme) {
		return
	}
	fmt.Fprintf(w, "warning: unknown theme %q, using %s\n", theme, md2wechat.ThemeDefault)
}

// readInput resolves the Markdown source. With --stdin or no argument the
// content comes from stdin, unless stdin is a terminal. An argument naming
// an existing file is read; anything else is the Markdown itself.
func readInput(positional []string, fromStdin bool, env *Environment) (string, error) {
	var content string
	switch {
	case fromStdin || len(positional) == 0:
		if !fromStdin && env.StdinIsTerminal != nil && env.StdinIsTerminal() {
			return "", fmt.Errorf("%w: pass a file, Markdown text, or pipe content on stdin", ErrUsage)
		}
		data, err := io.ReadAll(io.LimitReader(env.Stdin, maxInputSize))
		if err != nil {
			return "", fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
		}
		content = string(data)
	case len(positional) == 1 && fileutil.FileExists(positional[0]):
		data, err := readFile(positional[0])
		if err != nil {
			return "", err
		}
		content = data
	default:
		content = strings.Join(positional, " ")
	}

	if strings.TrimSpace(content) == "" {
		return "", ErrNoContent
	}
	return content, nil
}

// readFile reads a Markdown file, refusing oversized input.
func readFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	if info.Size() > maxInputSize {
		return "", fmt.Errorf("%w: %s is larger than %d bytes", ErrReadInput, path, maxInputSize)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is user-provided
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return string(data), nil
}

// writeOutput writes content to path, creating the parent directory.
func writeOutput(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	}
	if err := fileutil.WriteAtomic(path, []byte(content), filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// writeJSON prints v indented, leaving HTML and non-ASCII characters as is.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// runInline writes an inline-styled copy of an HTML file.
func runInline(args []string, env *Environment) error {
	fs := newFlagSet(cmdInline, printInlineUsage, env.Stderr)
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: inline takes exactly one HTML file", ErrUsage)
	}
	input := fs.Arg(0)

	data, err := readFile(input)
	if err != nil {
		return err
	}
	if strings.TrimSpace(data) == "" {
		return ErrNoContent
	}

	styled := md2wechat.InlineStyles(data)
	output := fileutil.SuffixedPath(input, "_styled")
	if err := writeOutput(output, styled); err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "Created %s\n", output)
	fmt.Fprintf(env.Stdout, "  original: %d bytes\n", len(data))
	fmt.Fprintf(env.Stdout, "  styled:   %d bytes\n", len(styled))
	return nil
}

