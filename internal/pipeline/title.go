package pipeline

import "strings"

// DefaultTitle is returned by ExtractTitle when the body does not open with a heading.
const DefaultTitle = "Article"

// ExtractTitle derives a title from the first line of the trimmed body.
// A level-1 heading wins, then a level-2 heading; anything else yields DefaultTitle.
// Headings that appear after leading prose are not considered.
func ExtractTitle(body string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(body), "\n")
	for _, prefix := range []string{"# ", "## "} {
		if text, ok := strings.CutPrefix(first, prefix); ok && text != "" {
			return text
		}
	}
	return DefaultTitle
}

// Resolve returns the first non-empty candidate, or fallback when all are empty.
// Candidates are evaluated lazily and in order, so expensive derivations such as
// title extraction only run when every higher-priority source is empty.
func Resolve(fallback string, candidates ...func() string) string {
	for _, c := range candidates {
		if v := c(); v != "" {
			return v
		}
	}
	return fallback
}

// Const wraps a literal value as a Resolve candidate.
func Const(v string) func() string {
	return func() string { return v }
}
