//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// BenchmarkInlineStyles benchmarks the per-tag style rewrite on rendered output.
func BenchmarkInlineStyles(b *testing.B) {
	converter, err := NewGoldmarkConverter("")
	if err != nil {
		b.Fatal(err)
	}

	for _, sections := range []int{10, 50, 200} {
		fragment, err := converter.ToHTML(context.Background(), articleMarkdown(sections))
		if err != nil {
			b.Fatal(err)
		}
		b.Run(fmt.Sprintf("sections_%d", sections), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = InlineStyles(fragment)
			}
		})
	}
}

// BenchmarkConvertAlerts benchmarks alert rewriting with and without alerts present.
func BenchmarkConvertAlerts(b *testing.B) {
	inputs := []struct {
		name    string
		content string
	}{
		{"no_blockquotes", generateTestHTML(100)},
		{"plain_blockquotes", strings.Repeat("<blockquote>\n<p>quoted</p>\n</blockquote>\n", 50)},
		{"alerts", generateAlertHTML(50)},
	}

	for _, input := range inputs {
		b.Run(input.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = ConvertAlerts(input.content)
			}
		})
	}
}

// BenchmarkPrepareForWeChat benchmarks the final editor fixes.
func BenchmarkPrepareForWeChat(b *testing.B) {
	content := generateTestHTML(200)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = PrepareForWeChat(content)
	}
}

// BenchmarkPlainText benchmarks excerpt extraction.
func BenchmarkPlainText(b *testing.B) {
	content := generateTestHTML(200)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = PlainText(content, 300)
	}
}

func generateTestHTML(paragraphs int) string {
	var sb strings.Builder
	sb.WriteString("<h1>Title</h1>\n")
	for i := 0; i < paragraphs; i++ {
		sb.WriteString(fmt.Sprintf("<p>Paragraph %d with <strong>bold</strong> and <code>code</code>.</p>\n", i+1))
		if i%10 == 0 {
			sb.WriteString(`<img src="figure.png" alt="figure">` + "\n")
		}
	}
	return sb.String()
}

func generateAlertHTML(count int) string {
	kinds := []string{"NOTE", "WARNING", "TIP", "IMPORTANT"}
	var sb strings.Builder
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("<blockquote>\n<p>[!%s]\nAlert body %d.</p>\n</blockquote>\n", kinds[i%len(kinds)], i))
	}
	return sb.String()
}
