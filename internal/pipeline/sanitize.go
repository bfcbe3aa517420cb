package pipeline

import (
	"html"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer removes unsafe markup from rendered HTML.
type Sanitizer interface {
	Sanitize(content string) string
}

// UGCSanitizer applies bluemonday's user-generated-content policy, extended
// to keep what the renderer and the WeChat styles rely on: code language
// classes, table cell alignment and chroma's inline styles.
type UGCSanitizer struct {
	policy *bluemonday.Policy
}

// NewUGCSanitizer creates a UGCSanitizer.
func NewUGCSanitizer() *UGCSanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[\w+#.-]+$`)).OnElements("code")
	p.AllowAttrs("align").Matching(regexp.MustCompile(`^(left|center|right)$`)).OnElements("th", "td")
	p.AllowAttrs("style").OnElements("pre", "span")
	return &UGCSanitizer{policy: p}
}

// Sanitize returns content with disallowed elements and attributes removed.
func (s *UGCSanitizer) Sanitize(content string) string {
	return s.policy.Sanitize(content)
}

// StripTags removes all markup and returns the remaining text unescaped.
// Used for values that end up in plain-text fields such as article titles.
func StripTags(content string) string {
	return html.UnescapeString(bluemonday.StrictPolicy().Sanitize(content))
}

// Compile-time interface check.
var _ Sanitizer = (*UGCSanitizer)(nil)
