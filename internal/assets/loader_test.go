package assets

import (
	"errors"
	"testing"
)

func TestCheckName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "default", false},
		{"hyphen and underscore", "my-theme_2", false},
		{"unicode letters", "主题", false},
		{"empty", "", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"parent", "..", true},
		{"extension", "grace.html", true},
		{"space", "my theme", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := checkName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAssetName) {
					t.Errorf("checkName(%q) error = %v, want ErrInvalidAssetName", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Errorf("checkName(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

func TestKindPath(t *testing.T) {
	t.Parallel()

	got, err := themeKind.path("grace")
	if err != nil {
		t.Fatalf("path() unexpected error: %v", err)
	}
	if got != "themes/grace.html" {
		t.Errorf("path(grace) = %q, want themes/grace.html", got)
	}
	if got, _ := templateKind.path("cover"); got != "templates/cover.html" {
		t.Errorf("path(cover) = %q, want templates/cover.html", got)
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{ErrThemeNotFound, true},
		{ErrTemplateNotFound, true},
		{ErrInvalidAssetName, false},
		{ErrAssetRead, false},
		{errors.New("other"), false},
	}
	for _, tt := range tests {
		if got := isNotFound(tt.err); got != tt.want {
			t.Errorf("isNotFound(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
