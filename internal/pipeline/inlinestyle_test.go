package pipeline

import (
	"strings"
	"testing"
)

func TestInlineStyles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"h1", "<h1>Title</h1>", `<h1 style="` + styleH1 + `">Title</h1>`},
		{"h2 with id", `<h2 id="x">Sub</h2>`, `<h2 style="` + styleH2 + `">Sub</h2>`},
		{"h3", "<h3>Deep</h3>", `<h3 style="` + styleH3 + `">Deep</h3>`},
		{"h4 untouched", "<h4>Deeper</h4>", "<h4>Deeper</h4>"},
		{"paragraph", "<p>text</p>", `<p style="` + styleParagraph + `">text</p>`},
		{"list", "<ul>\n<li>one</li>\n</ul>", `<ul style="` + styleList + `">` + "\n" + `<li style="` + styleListItem + `">one</li>` + "\n</ul>"},
		{"ordered list items styled", "<ol>\n<li>one</li>\n</ol>", "<ol>\n" + `<li style="` + styleListItem + `">one</li>` + "\n</ol>"},
		{"link tag untouched", `<link rel="stylesheet">`, `<link rel="stylesheet">`},
		{"table", "<table>", `<table style="` + styleTable + `">`},
		{"header cell keeps align", `<th align="left">a</th>`, `<th align="left" style="` + styleHeaderCell + `">a</th>`},
		{"header cell style replaced", `<th align="left" style="color:red">a</th>`, `<th align="left" style="` + styleHeaderCell + `">a</th>`},
		{"data cell", "<td>1</td>", `<td style="` + styleDataCell + `">1</td>`},
		{"blockquote", "<blockquote>", `<blockquote style="` + styleBlockquote + `">`},
		{"rule", "<hr>", `<hr style="` + styleRule + `" />`},
		{"self-closing rule", "<hr />", `<hr style="` + styleRule + `" />`},
		{"strong", "<strong>b</strong>", `<strong style="` + styleStrong + `">b</strong>`},
		{"inline code", `<code class="x">v</code>`, `<code style="` + styleCode + `">v</code>`},
		{"double break", "<br> <br>", "<br><br>"},
		{"blank lines collapsed", "a\n\n\n\nb", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := InlineStyles(tt.input); got != tt.want {
				t.Errorf("InlineStyles(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestInlineStyles_TableHead(t *testing.T) {
	t.Parallel()

	input := "<table>\n<thead>\n<tr>\n<th align=\"left\">a</th>\n</tr>\n</thead>\n<tbody>\n<tr>\n<td align=\"left\">1</td>\n</tr>\n</tbody>\n</table>"
	got := InlineStyles(input)

	for _, line := range strings.Split(got, "\n") {
		if n := strings.Count(line, "style="); n > 1 {
			t.Errorf("line %q has %d style attributes, want at most 1", line, n)
		}
	}
	wantThead := `<thead style="` + styleTableHead + `">`
	if !strings.Contains(got, wantThead) {
		t.Errorf("InlineStyles() = %q, want containing %q", got, wantThead)
	}
	if strings.Contains(got, "<tbody style=") {
		t.Errorf("InlineStyles() = %q, tbody should stay unstyled", got)
	}
}

func TestInlineStyles_MultilineCodeBlock(t *testing.T) {
	t.Parallel()

	input := "<pre><code class=\"go\">a := 1\nb := 2\n</code></pre>"
	got := InlineStyles(input)

	if !strings.HasPrefix(got, `<pre style="`+stylePre+`">`) {
		t.Errorf("InlineStyles() = %q, want styled <pre>", got)
	}
	if !strings.Contains(got, "a := 1\nb := 2\n") {
		t.Errorf("InlineStyles() = %q, want code body preserved", got)
	}
}

func TestInlineStyles_Idempotent(t *testing.T) {
	t.Parallel()

	input := "<h1>T</h1>\n<p>a <strong>b</strong> <code>c</code></p>\n<ul>\n<li>x</li>\n</ul>\n<hr>\n<table>\n<thead>\n<tr>\n<th>h</th>\n</tr>\n</thead>\n<tbody>\n<tr>\n<td>d</td>\n</tr>\n</tbody>\n</table>\n<blockquote>\n<p>q</p>\n</blockquote>\n<pre><code>z\n</code></pre>"
	once := InlineStyles(input)
	twice := InlineStyles(once)
	if once != twice {
		t.Errorf("InlineStyles not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestPrepareForWeChat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"style block removed", "<style>\np { color: red; }\n</style><p>x</p>", "<p>x</p>"},
		{"image constrained", `<img src="a.png">`, `<img src="a.png" style="` + styleImage + `" />`},
		{"self-closing image", `<img src="a.png" alt="x" />`, `<img src="a.png" alt="x" style="` + styleImage + `" />`},
		{"image style replaced", `<img style="width:2000px" src="a.png">`, `<img src="a.png" style="` + styleImage + `" />`},
		{"bare pre styled", "<pre>x</pre>", `<pre style="` + styleBarePre + `">x</pre>`},
		{"adjacent paragraphs separated", "<p>a</p>\n<p>b</p>", "<p>a</p><br><br><p>b</p>"},
		{"blank lines collapsed", "<div>\n\n\n\n</div>", "<div>\n\n</div>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := PrepareForWeChat(tt.input); got != tt.want {
				t.Errorf("PrepareForWeChat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPrepareForWeChat_Idempotent(t *testing.T) {
	t.Parallel()

	input := `<img src="a.png"><pre>x</pre>`
	once := PrepareForWeChat(input)
	if twice := PrepareForWeChat(once); twice != once {
		t.Errorf("PrepareForWeChat not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}
