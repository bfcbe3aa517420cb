package pipeline

import (
	"regexp"
	"strings"
)

// Inline styles applied per tag. WeChat's editor strips <style> blocks, so
// every element that needs styling carries it in a style attribute.
const (
	styleH1         = "font-size: 24px; font-weight: 600; margin: 24px 0 16px; color: #1a1a1a; text-align: center; border-bottom: 2px solid #007aff; padding-bottom: 12px;"
	styleH2         = "font-size: 20px; font-weight: 600; margin: 24px 0 12px; color: #ffffff; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 8px 16px; border-radius: 4px;"
	styleH3         = "font-size: 18px; font-weight: 600; margin: 20px 0 10px; color: #333333;"
	styleParagraph  = "margin: 16px 0; line-height: 1.8; color: #333333;"
	styleList       = "padding-left: 24px; margin: 16px 0;"
	styleListItem   = "margin: 8px 0; line-height: 1.7; color: #333333;"
	styleTable      = "width: 100%; border-collapse: collapse; margin: 16px 0;"
	styleTableHead  = "background: #f5f5f5;"
	styleHeaderCell = "padding: 10px; border: 1px solid #ddd; text-align: left; font-weight: 600;"
	styleDataCell   = "padding: 10px; border: 1px solid #ddd;"
	styleBlockquote = "border-left: 4px solid #667eea; padding-left: 16px; margin: 16px 0; color: #666666; background: #f9f9f9; padding: 12px 16px;"
	styleRule       = "border: none; border-top: 1px solid #eeeeee; margin: 24px 0;"
	styleStrong     = "font-weight: 600; color: #1a1a1a;"
	styleCode       = "background: #f5f5f5; padding: 2px 6px; border-radius: 3px; font-family: monospace;"
	stylePre        = "background: #f5f5f5; padding: 12px; border-radius: 4px; overflow-x: auto; margin: 16px 0; font-size: 14px;"

	styleImage   = "max-width:100%;height:auto;"
	styleBarePre = "background:#f5f5f5;padding:12px;border-radius:4px;overflow-x:auto;"
)

// rewrite replaces every match of pattern with replacement.
func rewrite(pattern, replacement string) func(string) string {
	re := regexp.MustCompile(pattern)
	return func(s string) string { return re.ReplaceAllString(s, replacement) }
}

// inlineRewrites run in order. Patterns are line-oriented: "." does not
// cross newlines, so an element spanning several lines only has its opening
// tag styled when the rule targets the opening tag alone.
var inlineRewrites = []func(string) string{
	rewrite(`<h1[^>]*>(.*?)</h1>`, `<h1 style="`+styleH1+`">${1}</h1>`),
	rewrite(`<h2[^>]*>(.*?)</h2>`, `<h2 style="`+styleH2+`">${1}</h2>`),
	rewrite(`<h3[^>]*>(.*?)</h3>`, `<h3 style="`+styleH3+`">${1}</h3>`),
	rewrite(`<p>(.*?)</p>`, `<p style="`+styleParagraph+`">${1}</p>`),
	rewrite(`<ul[^>]*>`, `<ul style="`+styleList+`">`),
	rewrite(`<li(?:\s[^>]*)?>(.*?)</li>`, `<li style="`+styleListItem+`">${1}</li>`),
	rewrite(`<table[^>]*>`, `<table style="`+styleTable+`">`),
	rewrite(`<thead[^>]*>`, `<thead style="`+styleTableHead+`">`),
	cellRewrite("th", styleHeaderCell),
	cellRewrite("td", styleDataCell),
	rewrite(`<blockquote[^>]*>`, `<blockquote style="`+styleBlockquote+`">`),
	rewrite(`<hr\s*/?>`, `<hr style="`+styleRule+`" />`),
	rewrite(`<strong>(.*?)</strong>`, `<strong style="`+styleStrong+`">${1}</strong>`),
	rewrite(`<code[^>]*>(.*?)</code>`, `<code style="`+styleCode+`">${1}</code>`),
	rewrite(`<pre[^>]*>`, `<pre style="`+stylePre+`">`),
	rewrite(`<br>\s*<br>`, `<br><br>`),
}

var (
	styleAttrPattern = regexp.MustCompile(`\s+style\s*=\s*(?:"[^"]*"|'[^']*')`)

	styleBlockPattern   = regexp.MustCompile(`(?s)<style[^>]*>.*?</style>`)
	imagePattern        = regexp.MustCompile(`<img(\s[^>]*?)?\s*/?>`)
	adjacentParagraphs  = regexp.MustCompile(`(</p>)\s*(<p)`)
	excessiveBlankLines = regexp.MustCompile(`\n{3,}`)
)

// InlineStyles moves presentation into style attributes for WeChat.
//
// Headings (h1-h3), paragraphs, lists, tables, blockquotes, rules, strong,
// code and pre elements receive fixed inline styles. The rewrite is
// regex-based and best-effort: it expects the flat, one-element-per-line
// markup produced by the Markdown renderer, and nested elements of the same
// tag are not handled. Applying it twice yields the same result.
func InlineStyles(content string) string {
	for _, apply := range inlineRewrites {
		content = apply(content)
	}
	return excessiveBlankLines.ReplaceAllString(content, "\n\n")
}

// cellRewrite styles opening table cell tags. Cells keep their other
// attributes (align, colspan) but any existing style is replaced.
func cellRewrite(tag, style string) func(string) string {
	re := regexp.MustCompile(`<` + tag + `(\s[^>]*)?>`)
	return func(s string) string {
		return re.ReplaceAllStringFunc(s, func(m string) string {
			attrs := styleAttrPattern.ReplaceAllString(re.FindStringSubmatch(m)[1], "")
			return "<" + tag + attrs + ` style="` + style + `">`
		})
	}
}

// PrepareForWeChat applies the final fixes WeChat's editor needs.
//
// It drops <style> blocks, constrains image width, styles bare <pre> blocks,
// separates adjacent paragraphs with a double line break, and collapses runs
// of blank lines.
func PrepareForWeChat(content string) string {
	content = styleBlockPattern.ReplaceAllString(content, "")
	content = imagePattern.ReplaceAllStringFunc(content, func(m string) string {
		attrs := imagePattern.FindStringSubmatch(m)[1]
		attrs = styleAttrPattern.ReplaceAllString(attrs, "")
		return "<img" + strings.TrimRight(attrs, " \t\n/") + ` style="` + styleImage + `" />`
	})
	content = strings.ReplaceAll(content, "<pre>", `<pre style="`+styleBarePre+`">`)
	content = adjacentParagraphs.ReplaceAllString(content, "${1}<br><br>${2}")
	return excessiveBlankLines.ReplaceAllString(content, "\n\n")
}
