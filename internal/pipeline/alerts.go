package pipeline

import (
	"regexp"
	"strings"
)

var (
	// Opening of a blockquote whose first paragraph starts with an alert marker.
	alertOpenPattern = regexp.MustCompile(`^<blockquote(?:\s[^>]*)?>\s*<p>\[!(NOTE|WARNING|TIP|IMPORTANT)\][ \t]*\n?`)

	// Any opening or closing blockquote tag, used for depth tracking.
	blockquoteTagPattern = regexp.MustCompile(`<(/?)blockquote(?:\s[^>]*)?>`)
)

const blockquoteOpen = "<blockquote"

// ConvertAlerts rewrites alert blockquotes into styled containers.
//
// A rendered <blockquote> whose first paragraph begins with [!NOTE], [!WARNING],
// [!TIP] or [!IMPORTANT] becomes
//
//	<div class="alert alert-tip"><strong>TIP:</strong>...</div>
//
// with the marker removed from the content. The container ends at the
// matching </blockquote>, so nested blockquotes stay inside it. Unknown
// markers such as [!DANGER] are left as ordinary blockquotes.
func ConvertAlerts(content string) string {
	if !strings.Contains(content, blockquoteOpen) {
		return content
	}

	var b strings.Builder
	b.Grow(len(content))

	i := 0
	for {
		j := strings.Index(content[i:], blockquoteOpen)
		if j < 0 {
			b.WriteString(content[i:])
			break
		}
		j += i
		b.WriteString(content[i:j])

		m := alertOpenPattern.FindStringSubmatchIndex(content[j:])
		if m == nil {
			b.WriteString(blockquoteOpen)
			i = j + len(blockquoteOpen)
			continue
		}

		bodyStart := j + m[1]
		closeStart, closeEnd, ok := matchingBlockquoteClose(content, bodyStart)
		if !ok {
			b.WriteString(blockquoteOpen)
			i = j + len(blockquoteOpen)
			continue
		}

		kind := content[j+m[2] : j+m[3]]
		inner := "<p>" + content[bodyStart:closeStart]
		if rest, found := strings.CutPrefix(inner, "<p></p>"); found {
			inner = strings.TrimPrefix(rest, "\n")
		}

		b.WriteString(`<div class="alert alert-`)
		b.WriteString(strings.ToLower(kind))
		b.WriteString(`"><strong>`)
		b.WriteString(kind)
		b.WriteString(":</strong>")
		b.WriteString(ConvertAlerts(inner))
		b.WriteString("</div>")

		i = closeEnd
	}

	return b.String()
}

// matchingBlockquoteClose finds the </blockquote> closing a blockquote whose
// content starts at from. Returns false when the markup is unbalanced.
func matchingBlockquoteClose(content string, from int) (start, end int, ok bool) {
	depth := 1
	for _, loc := range blockquoteTagPattern.FindAllStringSubmatchIndex(content[from:], -1) {
		if loc[3] > loc[2] { // closing tag
			depth--
		} else {
			depth++
		}
		if depth == 0 {
			return from + loc[0], from + loc[1], true
		}
	}
	return 0, 0, false
}
