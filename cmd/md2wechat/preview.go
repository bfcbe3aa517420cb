package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	md2wechat "github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/fileutil"
	"github.com/alnah/go-md2wechat/internal/preview"
)

// previewHost keeps the preview server local.
const previewHost = "127.0.0.1"

// runPreview serves a live preview of one Markdown file until ctx is done.
func runPreview(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePreviewFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: preview takes exactly one Markdown file", ErrUsage)
	}
	if flags.port < 1 || flags.port > 65535 {
		return fmt.Errorf("%w: port must be between 1 and 65535, got %d", ErrUsage, flags.port)
	}
	path := positional[0]
	if !fileutil.FileExists(path) {
		return fmt.Errorf("%w: %s is not a file", ErrReadInput, path)
	}

	cfg, err := resolveConfig(flags.common.config, env.Stderr)
	if err != nil {
		return err
	}
	mergeRenderFlags(&flags.render, cfg)
	env.Config = cfg

	conv, err := newConverter(cfg)
	if err != nil {
		return err
	}
	warnUnknownTheme(env.Stderr, cfg.Theme, flags.common.quiet)

	opts := md2wechat.RenderOptions{
		Theme:     cfg.Theme,
		Title:     flags.render.title,
		Author:    flags.render.author,
		KeepTitle: flags.render.keepTitle,
	}
	render := func(ctx context.Context, markdown string) (string, error) {
		article, err := conv.Render(ctx, markdown, opts)
		if err != nil {
			return "", err
		}
		return article.HTML, nil
	}

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	srv := preview.NewServer(path, render, logger)

	addr := net.JoinHostPort(previewHost, strconv.Itoa(flags.port))
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Previewing %s at http://%s (Ctrl+C to stop)\n", path, addr)
	}
	return srv.ListenAndServe(ctx, addr)
}
