package pipeline

import "testing"

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"level one heading", "# Hello\ntext", "Hello"},
		{"level two heading", "## Sub\ntext", "Sub"},
		{"leading blank lines trimmed", "\n\n  # Padded\ntext", "Padded"},
		{"heading after prose ignored", "intro\n# Late", DefaultTitle},
		{"level three heading ignored", "### Deep", DefaultTitle},
		{"heading without text", "# \ntext", DefaultTitle},
		{"empty body", "", DefaultTitle},
		{"only heading", "# Solo", "Solo"},
		{"unicode title", "# 你好，世界\n正文", "你好，世界"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ExtractTitle(tt.body); got != tt.want {
				t.Errorf("ExtractTitle(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	t.Run("first non-empty wins", func(t *testing.T) {
		t.Parallel()

		got := Resolve("fallback", Const(""), Const("second"), Const("third"))
		if got != "second" {
			t.Errorf("Resolve() = %q, want %q", got, "second")
		}
	})

	t.Run("fallback when all empty", func(t *testing.T) {
		t.Parallel()

		got := Resolve("fallback", Const(""), Const(""))
		if got != "fallback" {
			t.Errorf("Resolve() = %q, want %q", got, "fallback")
		}
	})

	t.Run("later candidates are not evaluated", func(t *testing.T) {
		t.Parallel()

		called := false
		got := Resolve("", Const("explicit"), func() string {
			called = true
			return "derived"
		})
		if got != "explicit" {
			t.Errorf("Resolve() = %q, want %q", got, "explicit")
		}
		if called {
			t.Error("Resolve() evaluated a candidate after a non-empty one")
		}
	})
}
