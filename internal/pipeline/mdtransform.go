package pipeline

import (
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Frontmatter block: opening fence, lazy block, closing fence, rest of document.
	frontmatterPattern = regexp.MustCompile(`(?s)\A---\n(.*?)\n---\n(.*)\z`)

	// First level-1 heading line, used by StripTitle.
	titleLinePattern = regexp.MustCompile(`(?m)^# .+$`)
)

// Metadata holds frontmatter key/value pairs. Values are kept as raw strings.
type Metadata map[string]string

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// ParseFrontmatter splits a leading "---" delimited block from the document.
//
// Each line of the block containing a colon is split on its first colon and
// both halves are trimmed. Lines without a colon are ignored. When the text
// does not open with a frontmatter block, the metadata is empty and the body
// is the input unchanged.
func ParseFrontmatter(content string) (Metadata, string) {
	m := frontmatterPattern.FindStringSubmatch(content)
	if m == nil {
		return Metadata{}, content
	}

	meta := Metadata{}
	for _, line := range strings.Split(strings.TrimSpace(m[1]), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		meta[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return meta, m[2]
}

// StripTitle removes the first line that is a level-1 heading ("# text"),
// together with its line terminator. Other text is left untouched.
func StripTitle(body string) string {
	loc := titleLinePattern.FindStringIndex(body)
	if loc == nil {
		return body
	}
	end := loc[1]
	if end < len(body) && body[end] == '\n' {
		end++
	}
	return body[:loc[0]] + body[end:]
}
