package md2wechat

import (
	"errors"

	"github.com/alnah/go-md2wechat/internal/assets"
	"github.com/alnah/go-md2wechat/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown    = errors.New("markdown content cannot be empty")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrHTMLConversion   = pipeline.ErrHTMLConversion

	// Asset loading errors.
	ErrThemeNotFound    = assets.ErrThemeNotFound
	ErrTemplateNotFound = assets.ErrTemplateNotFound

	// Renderer configuration errors.
	ErrUnknownHighlightStyle = pipeline.ErrUnknownHighlightStyle
)
