package pipeline

import "strings"

// InjectBeforeBodyEnd inserts snippet into an HTML document.
// Tries before </body> first, then before </html>, then appends to the HTML.
// Tag matching is case-insensitive and uses the last occurrence, so markup
// quoted inside code blocks earlier in the document is not affected.
func InjectBeforeBodyEnd(htmlContent, snippet string) string {
	if snippet == "" {
		return htmlContent
	}

	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.LastIndex(lowerHTML, "</body>"); idx != -1 {
		return htmlContent[:idx] + snippet + htmlContent[idx:]
	}

	if idx := strings.LastIndex(lowerHTML, "</html>"); idx != -1 {
		return htmlContent[:idx] + snippet + htmlContent[idx:]
	}

	return htmlContent + snippet
}
