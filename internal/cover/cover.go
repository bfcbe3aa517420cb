package cover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-md2wechat/internal/assets"
	"github.com/alnah/go-md2wechat/internal/fileutil"
	"github.com/alnah/go-md2wechat/internal/process"
)

// Sentinel errors for cover rendering.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrScreenshot     = errors.New("failed to capture cover")
	ErrTemplate       = errors.New("invalid cover template")
)

// Cover dimensions, the platform's 2.35:1 header ratio.
const (
	Width  = 900
	Height = 383
)

const defaultTimeout = 30 * time.Second

// Data fills the cover template.
type Data struct {
	Title  string
	Author string
	Date   string // optional, already formatted
	Width  int
	Height int
}

// BuildHTML executes tmpl with d. Text fields are trimmed and
// HTML-escaped; the size always matches the cover dimensions.
func BuildHTML(tmpl string, d Data) (string, error) {
	t, err := template.New(assets.CoverTemplateName).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	var buf bytes.Buffer
	d.Title = strings.TrimSpace(d.Title)
	d.Author = strings.TrimSpace(d.Author)
	d.Date = strings.TrimSpace(d.Date)
	d.Width, d.Height = Width, Height
	if err := t.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return buf.String(), nil
}

// Renderer turns the cover template into a JPEG.
type Renderer struct {
	template string
	date     string
	timeout  time.Duration
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTemplate replaces the embedded cover template.
func WithTemplate(tmpl string) Option {
	return func(r *Renderer) {
		if tmpl != "" {
			r.template = tmpl
		}
	}
}

// WithDate prints date under the author line.
func WithDate(date string) Option {
	return func(r *Renderer) {
		r.date = date
	}
}

// WithTimeout bounds page loading. Non-positive keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRenderer creates a Renderer using the embedded cover template.
// The browser is started on first use.
func NewRenderer(opts ...Option) (*Renderer, error) {
	tmpl, err := assets.LoadTemplate(assets.CoverTemplateName)
	if err != nil {
		return nil, err
	}
	r := &Renderer{template: tmpl, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// ensureBrowser lazily connects to the browser.
func (r *Renderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	} else if bin, ok := launcher.LookPath(); ok {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") != "" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		r.stopLauncher()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources, including Chrome helper processes
// that outlive the main one.
func (r *Renderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.stopLauncher()
	return err
}

// stopLauncher kills the launched process tree and removes its profile.
func (r *Renderer) stopLauncher() {
	if r.launcher == nil {
		return
	}
	// The launcher's own Kill below covers a failed tree kill.
	_ = process.KillTree(r.launcher.PID())
	r.launcher.Kill()
	r.launcher.Cleanup()
	r.launcher = nil
}

// Render writes a JPEG title card for the article to outPath.
func (r *Renderer) Render(ctx context.Context, title, author, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	page, err := BuildHTML(r.template, Data{Title: title, Author: author, Date: r.date})
	if err != nil {
		return err
	}
	tmpPath, cleanup, err := fileutil.WriteTempFile(page, "html")
	if err != nil {
		return err
	}
	defer cleanup()

	data, err := r.capture(ctx, tmpPath)
	if err != nil {
		return err
	}
	if err := fileutil.WriteAtomic(outPath, data, 0o600); err != nil {
		return fmt.Errorf("writing cover: %w", err)
	}
	return nil
}

// capture opens a local HTML file at cover size and screenshots it.
func (r *Renderer) capture(ctx context.Context, filePath string) ([]byte, error) {
	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             Width,
		Height:            Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.Context(ctx).Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatJpeg,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	return data, nil
}
