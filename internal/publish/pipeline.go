package publish

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/config"
	"github.com/alnah/go-md2wechat/internal/fileutil"
	"github.com/alnah/go-md2wechat/internal/pipeline"
	"github.com/alnah/go-md2wechat/internal/wechat"
)

// Renderer turns Markdown into a themed document.
type Renderer interface {
	Render(ctx context.Context, markdown string, opts md2wechat.RenderOptions) (*md2wechat.Article, error)
}

// ArticleWriter generates an article from a topic.
type ArticleWriter interface {
	WriteArticle(ctx context.Context, topic string) (string, error)
}

// CoverGenerator writes a generated cover image to path.
type CoverGenerator interface {
	GenerateFile(ctx context.Context, prompt, path string) error
}

// CoverRenderer writes a title card image to path.
type CoverRenderer interface {
	Render(ctx context.Context, title, author, path string) error
}

// Platform is the publishing API.
type Platform interface {
	UploadImage(ctx context.Context, path string) (string, error)
	UploadContentImage(ctx context.Context, path string) (string, error)
	AddDraft(ctx context.Context, a wechat.Article) (string, error)
}

// Compile-time interface checks.
var (
	_ Renderer = (*md2wechat.Converter)(nil)
	_ Platform = (*wechat.Client)(nil)
)

// PreviewLength is how many runes of HTML a preview run returns.
const PreviewLength = 2000

// excerptLength bounds the plain-text excerpt reported for a run.
const excerptLength = 120

// Request describes one run.
type Request struct {
	Topic     string // generate the article from this topic
	Content   string // or publish this Markdown
	SourceDir string // resolves relative image paths in Content; empty skips image upload

	Title  string // overrides the derived title
	Author string
	Theme  string

	PreviewOnly bool // stop after rendering
	CoverOnly   bool // stop after the cover

	CoverSource string // config.CoverSource*; empty means generate
	CoverPrompt string
	BackupCover string // copied when the cover cannot be produced
	OpenComment bool
}

// Files lists the artifacts a run wrote. Empty fields were not produced.
type Files struct {
	Original string
	HTML     string
	Cover    string
	Fixed    string
}

// Result describes a finished run.
type Result struct {
	Title   string
	Author  string
	Theme   string
	Files   Files
	Preview string // truncated HTML, set when PreviewOnly
	Excerpt string // start of the article's visible text

	CoverMediaID string
	DraftMediaID string
}

// Pipeline runs publish requests. Collaborators are optional; a run only
// fails for a missing one when it actually needs it.
type Pipeline struct {
	renderer  Renderer
	store     Store
	writer    ArticleWriter
	generator CoverGenerator
	cover     CoverRenderer
	platform  Platform
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWriter sets the article generator used for topic requests.
func WithWriter(w ArticleWriter) Option {
	return func(p *Pipeline) { p.writer = w }
}

// WithCoverGenerator sets the image generation service.
func WithCoverGenerator(g CoverGenerator) Option {
	return func(p *Pipeline) { p.generator = g }
}

// WithCoverRenderer sets the local title card renderer.
func WithCoverRenderer(r CoverRenderer) Option {
	return func(p *Pipeline) { p.cover = r }
}

// WithPlatform sets the publishing API.
func WithPlatform(pl Platform) Option {
	return func(p *Pipeline) { p.platform = pl }
}

// WithLogger sets the logger for progress messages.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Pipeline rendering with r and writing files to store.
func New(r Renderer, store Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		renderer: r,
		store:    store,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes req. Failures to obtain the article, render it, save it or
// create the draft abort with a *StageError. Cover and image upload
// failures are logged and the run continues without them.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	content, title, err := p.article(ctx, req)
	if err != nil {
		return nil, err
	}
	if !req.PreviewOnly && !req.CoverOnly && p.platform == nil {
		return nil, &StageError{Stage: StageDraft, Err: ErrNoPlatform}
	}

	stem := SafeTitle(title)
	res := &Result{Title: title, Author: req.Author}

	if res.Files.Original, err = p.store.Write(stem+"_original.md", []byte(content)); err != nil {
		return nil, &StageError{Stage: StageSave, Err: err}
	}
	p.logger.Info("saved original", "path", res.Files.Original)

	article, err := p.renderer.Render(ctx, content, md2wechat.RenderOptions{
		Theme:     req.Theme,
		Title:     title,
		Author:    req.Author,
		KeepTitle: true,
	})
	if err != nil {
		return nil, &StageError{Stage: StageRender, Err: err}
	}
	res.Theme = article.Theme
	res.Excerpt = pipeline.PlainText(article.HTML, excerptLength)
	p.logger.Info("rendered", "theme", article.Theme, "bytes", len(article.HTML))

	if req.PreviewOnly {
		res.Preview = preview(article.HTML)
		return res, nil
	}

	if res.Files.HTML, err = p.store.Write(stem+"_content.html", []byte(article.HTML)); err != nil {
		return nil, &StageError{Stage: StageSave, Err: err}
	}
	p.logger.Info("saved html", "path", res.Files.HTML)

	res.Files.Cover = p.produceCover(ctx, req, title, p.store.Path(stem+"_cover.jpg"))
	if req.CoverOnly {
		return res, nil
	}

	if res.Files.Cover != "" {
		res.CoverMediaID, err = p.platform.UploadImage(ctx, res.Files.Cover)
		if err != nil {
			p.logger.Warn("cover upload failed, continuing without cover", "error", err)
			res.CoverMediaID = ""
		} else {
			p.logger.Info("cover uploaded", "media_id", res.CoverMediaID)
		}
	} else {
		p.logger.Warn("no cover, skipping cover upload")
	}

	html := p.uploadContentImages(ctx, article.HTML, req.SourceDir)
	fixed := md2wechat.PrepareForWeChat(md2wechat.InlineStyles(html))
	if res.Files.Fixed, err = p.store.Write(stem+"_fixed.html", []byte(fixed)); err != nil {
		return nil, &StageError{Stage: StageSave, Err: err}
	}
	p.logger.Info("saved styled html", "path", res.Files.Fixed)

	draftTitle := pipeline.StripTags(title)
	res.DraftMediaID, err = p.platform.AddDraft(ctx, wechat.Article{
		Title:           draftTitle,
		Author:          req.Author,
		Content:         fixed,
		ThumbMediaID:    res.CoverMediaID,
		Digest:          Digest(req.Author, draftTitle),
		NeedOpenComment: req.OpenComment,
	})
	if err != nil {
		return nil, &StageError{Stage: StageDraft, Err: err}
	}
	p.logger.Info("draft created", "media_id", res.DraftMediaID)
	return res, nil
}

// article resolves the Markdown and title of the run.
func (p *Pipeline) article(ctx context.Context, req Request) (content, title string, err error) {
	topic := strings.TrimSpace(req.Topic)
	switch {
	case topic != "" && strings.TrimSpace(req.Content) != "":
		return "", "", &StageError{Stage: StageArticle, Err: ErrAmbiguousSource}
	case topic != "":
		if p.writer == nil {
			return "", "", &StageError{Stage: StageArticle, Err: ErrNoWriter}
		}
		p.logger.Info("generating article", "topic", topic)
		content, err = p.writer.WriteArticle(ctx, topic)
		if err != nil {
			return "", "", &StageError{Stage: StageArticle, Err: err}
		}
		return content, pipeline.Resolve(topic, pipeline.Const(req.Title)), nil
	case strings.TrimSpace(req.Content) != "":
		title = pipeline.Resolve("", pipeline.Const(req.Title), func() string {
			return TitleFromContent(req.Content)
		})
		return req.Content, title, nil
	default:
		return "", "", &StageError{Stage: StageArticle, Err: ErrNoContent}
	}
}

// produceCover writes the cover to path and returns it, or "" when no
// cover could be produced. The configured source is tried first, then the
// backup image, then the title card renderer.
func (p *Pipeline) produceCover(ctx context.Context, req Request, title, path string) string {
	source := strings.ToLower(req.CoverSource)
	if source == "" {
		source = config.CoverSourceGenerate
	}

	var err error
	switch source {
	case config.CoverSourceNone:
		p.logger.Info("cover disabled")
		return ""
	case config.CoverSourceGenerate:
		err = p.generateCover(ctx, req.CoverPrompt, path)
	case config.CoverSourceRender:
		err = p.renderCover(ctx, title, req.Author, path)
	}
	if err == nil && fileutil.FileExists(path) {
		p.logger.Info("cover ready", "source", source, "path", path)
		return path
	}
	p.logger.Warn("cover failed", "source", source, "error", err)

	if req.BackupCover != "" && fileutil.FileExists(req.BackupCover) {
		err := fileutil.CopyFile(req.BackupCover, path)
		if err == nil {
			p.logger.Info("using backup cover", "backup", req.BackupCover)
			return path
		}
		p.logger.Warn("backup cover copy failed", "error", err)
	}

	if source != config.CoverSourceRender && p.cover != nil {
		err := p.renderCover(ctx, title, req.Author, path)
		if err == nil {
			p.logger.Info("using rendered title card")
			return path
		}
		p.logger.Warn("title card failed", "error", err)
	}

	p.logger.Warn("no cover available")
	return ""
}

var (
	errNoGenerator = errors.New("cover generation is not configured")
	errNoRenderer  = errors.New("cover rendering is not configured")
)

func (p *Pipeline) generateCover(ctx context.Context, prompt, path string) error {
	if p.generator == nil {
		return errNoGenerator
	}
	if prompt == "" {
		prompt = config.DefaultImageGenPrompt
	}
	return p.generator.GenerateFile(ctx, prompt, path)
}

func (p *Pipeline) renderCover(ctx context.Context, title, author, path string) error {
	if p.cover == nil {
		return errNoRenderer
	}
	return p.cover.Render(ctx, title, author, path)
}

// uploadContentImages points local images at the platform CDN. On failure
// the document is returned unchanged.
func (p *Pipeline) uploadContentImages(ctx context.Context, html, sourceDir string) string {
	if sourceDir == "" {
		return html
	}
	out, err := pipeline.RewriteLocalImages(ctx, html, sourceDir, func(ctx context.Context, absPath string) (string, error) {
		p.logger.Debug("uploading content image", "path", filepath.Base(absPath))
		return p.platform.UploadContentImage(ctx, absPath)
	})
	if err != nil {
		p.logger.Warn("content image upload failed, keeping local paths", "error", err)
		return html
	}
	return out
}

// preview returns the first PreviewLength runes of html, marked when cut.
func preview(html string) string {
	cut := wechat.TruncateRunes(html, PreviewLength)
	if len(cut) < len(html) {
		return cut + "..."
	}
	return cut
}
