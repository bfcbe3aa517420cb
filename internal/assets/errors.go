package assets

import "errors"

// Sentinel errors for asset lookups.
var (
	ErrThemeNotFound    = errors.New("theme not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid asset directory")
	ErrAssetRead        = errors.New("failed to read asset")
)
