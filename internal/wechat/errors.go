package wechat

import (
	"errors"
	"fmt"
)

// Sentinel errors for client operations.
var (
	ErrMissingCredentials = errors.New("wechat: app id and app secret are required")
	ErrUnexpectedResponse = errors.New("wechat: unexpected response")
	ErrEmptyContent       = errors.New("wechat: article content is empty")
)

// APIError is a non-zero errcode returned by the platform.
type APIError struct {
	Op      string // token, upload, uploadimg, draft
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wechat %s: errcode %d: %s", e.Op, e.Code, e.Message)
}
