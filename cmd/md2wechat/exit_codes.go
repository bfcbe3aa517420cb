package main

import (
	"errors"
	"os"

	md2wechat "github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/config"
	"github.com/alnah/go-md2wechat/internal/cover"
	"github.com/alnah/go-md2wechat/internal/imagegen"
	"github.com/alnah/go-md2wechat/internal/llm"
	"github.com/alnah/go-md2wechat/internal/publish"
	"github.com/alnah/go-md2wechat/internal/wechat"
)

// Exit codes for the md2wechat CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Command completed
	ExitGeneral  = 1 // General error, including missing content
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitExternal = 4 // Browser, platform or generation service errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Missing content (exit 1), checked first so it wins over the stage.
	if errors.Is(err, ErrNoContent) ||
		errors.Is(err, publish.ErrNoContent) ||
		errors.Is(err, md2wechat.ErrEmptyMarkdown) {
		return ExitGeneral
	}

	// External services (exit 4)
	var apiErr *wechat.APIError
	if errors.As(err, &apiErr) ||
		errors.Is(err, wechat.ErrUnexpectedResponse) ||
		errors.Is(err, cover.ErrBrowserConnect) ||
		errors.Is(err, cover.ErrPageCreate) ||
		errors.Is(err, cover.ErrPageLoad) ||
		errors.Is(err, cover.ErrScreenshot) ||
		errors.Is(err, imagegen.ErrTaskFailed) ||
		errors.Is(err, imagegen.ErrPollLimit) ||
		errors.Is(err, imagegen.ErrUnexpectedResponse) ||
		errors.Is(err, llm.ErrEmptyCompletion) {
		return ExitExternal
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, md2wechat.ErrInvalidAssetPath) ||
		errors.Is(err, md2wechat.ErrThemeNotFound) ||
		errors.Is(err, md2wechat.ErrTemplateNotFound) ||
		errors.Is(err, md2wechat.ErrUnknownHighlightStyle) ||
		errors.Is(err, publish.ErrAmbiguousSource) ||
		errors.Is(err, publish.ErrNoWriter) ||
		errors.Is(err, publish.ErrNoPlatform) ||
		errors.Is(err, wechat.ErrMissingCredentials) ||
		errors.Is(err, imagegen.ErrMissingAPIKey) ||
		errors.Is(err, llm.ErrMissingAPIKey) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
