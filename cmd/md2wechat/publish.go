package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	md2wechat "github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/assets"
	"github.com/alnah/go-md2wechat/internal/config"
	"github.com/alnah/go-md2wechat/internal/cover"
	"github.com/alnah/go-md2wechat/internal/dateutil"
	"github.com/alnah/go-md2wechat/internal/imagegen"
	"github.com/alnah/go-md2wechat/internal/llm"
	"github.com/alnah/go-md2wechat/internal/publish"
	"github.com/alnah/go-md2wechat/internal/wechat"
)

// Compile-time interface implementation checks.
var (
	_ publish.ArticleWriter  = (*llm.Writer)(nil)
	_ publish.CoverGenerator = (*imagegen.Client)(nil)
	_ publish.CoverRenderer  = (*cover.Renderer)(nil)
)

// runPublish renders an article and creates a draft on the platform.
func runPublish(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePublishFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: unexpected argument %q (use --file or --content)", ErrUsage, positional[0])
	}

	cfg, err := resolveConfig(flags.common.config, env.Stderr)
	if err != nil {
		return err
	}
	if err := mergePublishFlags(flags, cfg); err != nil {
		return err
	}
	env.Config = cfg

	req, err := buildRequest(flags, cfg)
	if err != nil {
		return err
	}
	warnUnknownTheme(env.Stderr, req.Theme, flags.common.quiet)

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	p, cleanup, err := buildPipeline(cfg, env.Now(), logger)
	if err != nil {
		return err
	}
	defer cleanup()

	start := env.Now()
	res, err := p.Run(ctx, req)
	if err != nil {
		return err
	}
	logger.Debug("publish finished", "elapsed", env.Now().Sub(start).Round(time.Millisecond))

	if !flags.common.quiet {
		printPublishResult(env.Stdout, res, req)
	}
	return nil
}

// mergePublishFlags applies set publish flags over cfg and revalidates.
func mergePublishFlags(f *publishFlags, cfg *config.Config) error {
	setString(&cfg.Author, f.author)
	setString(&cfg.Theme, f.theme)
	setString(&cfg.Output.DefaultDir, f.outputDir)
	setString(&cfg.WeChat.AppID, f.appID)
	setString(&cfg.WeChat.AppSecret, f.appSecret)
	setString(&cfg.Cover.BackupPath, f.backupCover)
	setString(&cfg.Cover.Source, f.coverSource)
	return cfg.Validate()
}

// buildRequest turns flags into a publish request. Exactly one of
// --topic, --content and --file may be set.
func buildRequest(f *publishFlags, cfg *config.Config) (publish.Request, error) {
	set := 0
	for _, s := range []string{f.topic, f.content, f.file} {
		if strings.TrimSpace(s) != "" {
			set++
		}
	}
	if set > 1 {
		return publish.Request{}, fmt.Errorf("%w: use only one of --topic, --content, --file", publish.ErrAmbiguousSource)
	}

	req := publish.Request{
		Topic:       f.topic,
		Content:     strings.ReplaceAll(f.content, `\n`, "\n"),
		Title:       f.title,
		Author:      cfg.Author,
		Theme:       cfg.Theme,
		PreviewOnly: f.preview,
		CoverOnly:   f.coverOnly,
		CoverSource: cfg.Cover.Source,
		CoverPrompt: cfg.ImageGen.Prompt,
		BackupCover: cfg.Cover.BackupPath,
		OpenComment: cfg.WeChat.OpenComment,
	}

	if f.file != "" {
		content, err := readFile(f.file)
		if err != nil {
			return publish.Request{}, err
		}
		abs, err := filepath.Abs(f.file)
		if err != nil {
			return publish.Request{}, fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		req.Content = content
		req.SourceDir = filepath.Dir(abs)
	}
	return req, nil
}

// buildPipeline wires the configured collaborators. Services without
// credentials are left out; the pipeline reports them only when a run
// needs them. The returned cleanup releases the browser.
func buildPipeline(cfg *config.Config, now time.Time, logger *slog.Logger) (*publish.Pipeline, func(), error) {
	conv, err := newConverter(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := publish.NewDirStore(cfg.Output.DefaultDir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	opts := []publish.Option{publish.WithLogger(logger)}

	if cfg.LLM.APIKey != "" {
		w, err := llm.NewWriter(cfg.LLM.APIKey,
			llm.WithBaseURL(cfg.LLM.BaseURL),
			llm.WithModel(cfg.LLM.Model),
			llm.WithMaxTokens(cfg.LLM.MaxTokens),
			llm.WithTimeout(time.Duration(cfg.LLM.TimeoutSeconds)*time.Second),
		)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, publish.WithWriter(w))
	}

	if cfg.ImageGen.APIKey != "" {
		g, err := imagegen.NewClient(cfg.ImageGen.APIKey,
			imagegen.WithBaseURL(cfg.ImageGen.BaseURL),
			imagegen.WithModel(cfg.ImageGen.Model),
			imagegen.WithSize(cfg.ImageGen.Size),
			imagegen.WithPolling(time.Duration(cfg.ImageGen.PollIntervalSeconds)*time.Second, cfg.ImageGen.MaxPolls),
		)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, publish.WithCoverGenerator(g))
	}

	if cfg.WeChat.AppID != "" && cfg.WeChat.AppSecret != "" {
		c, err := wechat.NewClient(cfg.WeChat.AppID, cfg.WeChat.AppSecret,
			wechat.WithBaseURL(cfg.WeChat.BaseURL),
		)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, publish.WithPlatform(c))
	}

	coverOpts, err := coverOptions(cfg, now)
	if err != nil {
		return nil, nil, err
	}
	r, err := cover.NewRenderer(coverOpts...)
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, publish.WithCoverRenderer(r))

	cleanup := func() {
		if err := r.Close(); err != nil {
			logger.Debug("closing browser", "error", err)
		}
	}
	return publish.New(conv, store, opts...), cleanup, nil
}

// coverOptions resolves the cover date at now and loads the cover
// template from the custom asset directory when one is configured.
func coverOptions(cfg *config.Config, now time.Time) ([]cover.Option, error) {
	date, err := dateutil.ResolveDate(cfg.Cover.Date, now)
	if err != nil {
		return nil, fmt.Errorf("%w: cover.date: %w", config.ErrInvalidValue, err)
	}
	opts := []cover.Option{cover.WithDate(date)}
	if cfg.Assets.BasePath == "" {
		return opts, nil
	}
	loader, err := md2wechat.NewAssetLoader(cfg.Assets.BasePath)
	if err != nil {
		return nil, err
	}
	tmpl, err := loader.LoadTemplate(assets.CoverTemplateName)
	if err != nil {
		return nil, err
	}
	return append(opts, cover.WithTemplate(tmpl)), nil
}

// newLogger returns a text logger on w: debug when verbose, warnings
// only when quiet.
func newLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// printPublishResult prints what a run produced.
func printPublishResult(w io.Writer, res *publish.Result, req publish.Request) {
	fmt.Fprintf(w, "Title:  %s\n", res.Title)
	fmt.Fprintf(w, "Author: %s\n", res.Author)
	fmt.Fprintf(w, "Theme:  %s\n", res.Theme)
	if res.Excerpt != "" {
		fmt.Fprintf(w, "Excerpt: %s\n", res.Excerpt)
	}
	fmt.Fprintln(w)

	printFile(w, "Original", res.Files.Original)
	if req.PreviewOnly {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Preview:")
		fmt.Fprintln(w, res.Preview)
		return
	}
	printFile(w, "HTML", res.Files.HTML)
	printFile(w, "Cover", res.Files.Cover)
	if req.CoverOnly {
		return
	}
	printFile(w, "Fixed", res.Files.Fixed)
	fmt.Fprintln(w)

	if res.CoverMediaID != "" {
		fmt.Fprintf(w, "Cover media id: %s\n", res.CoverMediaID)
	}
	fmt.Fprintf(w, "Draft created: %s\n", res.DraftMediaID)
}

// printFile prints one artifact line, "none" when it was not produced.
func printFile(w io.Writer, label, path string) {
	if path == "" {
		path = "none"
	}
	fmt.Fprintf(w, "  %-9s %s\n", label+":", path)
}
