package pipeline

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// inlineTags do not separate words when stripped.
var inlineTags = map[string]bool{
	"a": true, "b": true, "code": true, "em": true, "i": true,
	"mark": true, "s": true, "span": true, "strong": true, "sub": true, "sup": true,
}

// PlainText extracts the visible text of an HTML document or fragment,
// collapsing whitespace runs to single spaces. Text inside <style>, <script>
// and <title> is skipped. The result holds at most limit runes; limit <= 0
// means no limit.
func PlainText(htmlContent string, limit int) string {
	z := html.NewTokenizer(strings.NewReader(htmlContent))

	var b strings.Builder
	runes := 0
	emit := func(r rune) bool {
		if limit > 0 && runes >= limit {
			return false
		}
		b.WriteRune(r)
		runes++
		return true
	}

	hidden := 0
	pendingSpace := false
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case tag == "style" || tag == "script" || tag == "title":
				if tt == html.StartTagToken {
					hidden++
				} else if tt == html.EndTagToken && hidden > 0 {
					hidden--
				}
			case !inlineTags[tag]:
				pendingSpace = b.Len() > 0
			}
		case html.TextToken:
			if hidden > 0 {
				continue
			}
			for _, r := range string(z.Text()) {
				if unicode.IsSpace(r) {
					pendingSpace = b.Len() > 0
					continue
				}
				if pendingSpace {
					if !emit(' ') {
						return strings.TrimSpace(b.String())
					}
					pendingSpace = false
				}
				if !emit(r) {
					return strings.TrimSpace(b.String())
				}
			}
		}
	}
}
