package publish

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/alnah/go-md2wechat/internal/wechat"
)

// UntitledTitle is used when supplied content has no heading near the top.
const UntitledTitle = "未命名文章"

const (
	maxSafeTitleRunes = 30
	titleScanLines    = 5
	digestTitleRunes  = 20
	fallbackFileStem  = "article"
)

// SafeTitle turns a title into a file name stem: letters, digits, spaces,
// '-' and '_' are kept, anything else is dropped, and the result is cut to
// 30 runes.
func SafeTitle(title string) string {
	var b strings.Builder
	n := 0
	for _, r := range title {
		if n == maxSafeTitleRunes {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
			n++
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return fallbackFileStem
	}
	return b.String()
}

// TitleFromContent returns the text of the first "# " line among the first
// five lines of content, or UntitledTitle.
func TitleFromContent(content string) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	for _, line := range lines[:min(titleScanLines, len(lines))] {
		if text, ok := strings.CutPrefix(line, "# "); ok {
			if text = strings.TrimSpace(text); text != "" {
				return text
			}
			break
		}
	}
	return UntitledTitle
}

// Digest builds the summary shown under the article in feeds.
func Digest(author, title string) string {
	return fmt.Sprintf("%s - %s...", author, wechat.TruncateRunes(title, digestTitleRunes))
}
