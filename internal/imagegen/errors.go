package imagegen

import "errors"

// Sentinel errors for image generation.
var (
	ErrMissingAPIKey      = errors.New("image generation API key is not set")
	ErrEmptyPrompt        = errors.New("image prompt cannot be empty")
	ErrTaskFailed         = errors.New("image generation task failed")
	ErrPollLimit          = errors.New("image generation did not finish in time")
	ErrUnexpectedResponse = errors.New("unexpected image generation response")
)
