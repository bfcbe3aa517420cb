package pipeline

import "testing"

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		html  string
		limit int
		want  string
	}{
		{"blocks separated by spaces", "<h1>Title</h1><p>Hello <strong>world</strong>.</p>", 0, "Title Hello world."},
		{"style and script skipped", "<style>p{color:red}</style><p>text</p><script>x()</script>", 0, "text"},
		{"title skipped", "<html><head><title>Doc</title></head><body><p>body</p></body></html>", 0, "body"},
		{"whitespace collapsed", "<p>a\n\n   b</p>", 0, "a b"},
		{"entities unescaped", "<p>A &amp; B</p>", 0, "A & B"},
		{"limit in runes", "<p>abcdef</p>", 3, "abc"},
		{"unicode limit", "<p>你好世界</p>", 2, "你好"},
		{"limit does not end on space", "<p>ab cd</p>", 3, "ab"},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := PlainText(tt.html, tt.limit); got != tt.want {
				t.Errorf("PlainText(%q, %d) = %q, want %q", tt.html, tt.limit, got, tt.want)
			}
		})
	}
}
