package main

// Notes:
// - readInput: we test every input source and the terminal refusal.
// - runRender: we test stdout, -o, --json and the empty-content exit code
//   through runMain, which is what users observe.
// - runInline: we test the _styled output path and size report.

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestReadInput - Input source resolution
// ---------------------------------------------------------------------------

func TestReadInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "post.md")
	if err := os.WriteFile(file, []byte("# From file"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		positional []string
		stdinFlag  bool
		stdin      string
		tty        bool
		want       string
		wantErr    error
	}{
		{"stdin by default", nil, false, "# Piped", false, "# Piped", nil},
		{"stdin flag wins over argument", []string{file}, true, "# Piped", false, "# Piped", nil},
		{"stdin flag on terminal is read", nil, true, "# Typed", true, "# Typed", nil},
		{"terminal without input", nil, false, "", true, "", ErrUsage},
		{"existing file", []string{file}, false, "", true, "# From file", nil},
		{"literal text", []string{"# Literal"}, false, "", true, "# Literal", nil},
		{"several words", []string{"hello", "world"}, false, "", true, "hello world", nil},
		{"empty stdin", nil, false, "  \n", false, "", ErrNoContent},
		{"blank literal", []string{"   "}, false, "", true, "", ErrNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := testEnv(tt.stdin, tt.tty)
			got, err := readInput(tt.positional, tt.stdinFlag, env)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("readInput() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("readInput() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("readInput() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunRender - Output modes
// ---------------------------------------------------------------------------

func TestRunRender_Stdout(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv("---\ntitle: T\nauthor: A\n---\n# T\nHello **world**", false)
	code := runMain(context.Background(), []string{"render", "--theme", "simple"}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
	}

	out := stdout.String()
	for _, want := range []string{"<!DOCTYPE html>", "<title>T</title>", "<strong>world</strong>"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q", want)
		}
	}
}

func TestRunRender_OutputFile(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "nested", "post.html")
	env, stdout, _ := testEnv("", true)

	code := runMain(context.Background(), []string{"render", "-o", out, "# Title\n\nbody"}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
	}
	if got := stdout.String(); got != "Created "+out+"\n" {
		t.Errorf("stdout = %q, want Created line", got)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(string(data), "<p>body</p>") {
		t.Errorf("output missing body:\n%s", data)
	}
}

func TestRunRender_OutputFileQuiet(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "post.html")
	env, stdout, _ := testEnv("", true)

	if code := runMain(context.Background(), []string{"render", "-q", "-o", out, "text"}, env); code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty with --quiet", stdout.String())
	}
}

func TestRunRender_JSON(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "post.html")
	env, stdout, _ := testEnv("", true)

	args := []string{"render", "--json", "-o", out, "--theme", "grace", "-a", "作者", "# 你好 & <World>\n\nbody"}
	if code := runMain(context.Background(), args, env); code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
	}

	raw := stdout.String()
	if !strings.Contains(raw, `"title": "你好 & <World>"`) {
		t.Errorf("JSON should keep HTML and non-ASCII characters unescaped:\n%s", raw)
	}

	var got renderResult
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, raw)
	}
	want := renderResult{Title: "你好 & <World>", Author: "作者", HTMLPath: out, Theme: "grace"}
	if got != want {
		t.Errorf("JSON = %+v, want %+v", got, want)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("--json with -o should still write the file: %v", err)
	}
}

func TestRunRender_JSONWithoutOutput(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv("", true)
	if code := runMain(context.Background(), []string{"render", "--json", "--theme", "unknown", "plain"}, env); code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
	}

	var got renderResult
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("stdout is not JSON: %v", err)
	}
	if got.HTMLPath != "" || got.Theme != "default" || got.Title != "Article" {
		t.Errorf("JSON = %+v, want empty htmlPath, default theme and title", got)
	}
}

func TestRunRender_UnknownThemeWarns(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv("", true)
	if code := runMain(context.Background(), []string{"render", "--theme", "neon", "x"}, env); code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
	}
	if !strings.Contains(stderr.String(), `unknown theme "neon"`) {
		t.Errorf("stderr = %q, want theme warning", stderr.String())
	}
}

func TestRunRender_NoContent(t *testing.T) {
	t.Parallel()

	env, stdout, stderr := testEnv("", false)
	code := runMain(context.Background(), []string{"render"}, env)
	if code != ExitGeneral {
		t.Errorf("exit code = %d, want %d", code, ExitGeneral)
	}
	if !strings.Contains(stderr.String(), "no content provided") {
		t.Errorf("stderr = %q, want no content message", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}

func TestRunRender_TerminalWithoutInput(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv("", true)
	if code := runMain(context.Background(), []string{"render"}, env); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
}

func TestRunRender_UnknownHighlightStyle(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv("", true)
	if code := runMain(context.Background(), []string{"render", "--highlight", "no-such-style", "x"}, env); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
}

// ---------------------------------------------------------------------------
// TestRunInline - Standalone style inlining
// ---------------------------------------------------------------------------

func TestRunInline(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "post.html")
	if err := os.WriteFile(in, []byte("<html><body><p>hi</p></body></html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	env, stdout, _ := testEnv("", true)
	if code := runMain(context.Background(), []string{"inline", in}, env); code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
	}

	want := filepath.Join(dir, "post_styled.html")
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("styled file not written: %v", err)
	}
	if !strings.Contains(string(data), `<p style="`) {
		t.Errorf("styled output has no inline style:\n%s", data)
	}
	for _, s := range []string{"Created " + want, "original:", "styled:"} {
		if !strings.Contains(stdout.String(), s) {
			t.Errorf("stdout missing %q:\n%s", s, stdout.String())
		}
	}
}

func TestRunInline_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no file", []string{"inline"}, ExitUsage},
		{"two files", []string{"inline", "a.html", "b.html"}, ExitUsage},
		{"missing file", []string{"inline", filepath.Join(t.TempDir(), "missing.html")}, ExitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := testEnv("", true)
			if code := runMain(context.Background(), tt.args, env); code != tt.want {
				t.Errorf("exit code = %d, want %d", code, tt.want)
			}
		})
	}
}
