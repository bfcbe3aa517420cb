package main

// Notes:
// - Scripts are checked for the structure each shell needs and for the
//   flags taken from the real flag sets. Running them in a shell is left
//   to manual testing.

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestFlagSpecs
// ---------------------------------------------------------------------------

func TestFlagSpecs_Render(t *testing.T) {
	t.Parallel()

	specs := flagSpecs(renderFlagSet(&renderCmdFlags{}, io.Discard))
	byName := make(map[string]flagSpec, len(specs))
	for _, s := range specs {
		byName[s.long] = s
	}

	tests := []struct {
		name      string
		wantShort string
		wantKind  argKind
	}{
		{"output", "o", argFile},
		{"stdin", "", argNone},
		{"theme", "", argEnum},
		{"highlight", "", argEnum},
		{"asset-path", "", argDir},
		{"title", "t", argText},
		{"config", "c", argFile},
	}

	for _, tt := range tests {
		got, ok := byName[tt.name]
		if !ok {
			t.Errorf("flag %q missing from render specs", tt.name)
			continue
		}
		if got.short != tt.wantShort {
			t.Errorf("%s short = %q, want %q", tt.name, got.short, tt.wantShort)
		}
		if got.value.kind != tt.wantKind {
			t.Errorf("%s kind = %d, want %d", tt.name, got.value.kind, tt.wantKind)
		}
	}
	if specs[0].long != "output" {
		t.Errorf("first flag = %q, want registration order starting with output", specs[0].long)
	}
}

func TestCompletionCommands_CoverEveryCommand(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, c := range completionCommands() {
		seen[c.name] = true
		if !isCommand(c.name) {
			t.Errorf("completion lists %q, which is not a command", c.name)
		}
	}
	for _, name := range commandNames() {
		if !seen[name] {
			t.Errorf("command %q has no completion entry", name)
		}
	}
}

func TestValuedFlags(t *testing.T) {
	t.Parallel()

	in := []flagSpec{
		{long: "json", value: completion{kind: argNone}},
		{long: "title", value: completion{kind: argText}},
		{long: "theme", value: completion{kind: argEnum, values: []string{"default"}}},
	}
	got := valuedFlags(in)
	if len(got) != 1 || got[0].long != "theme" {
		t.Errorf("valuedFlags = %+v, want only theme", got)
	}
	if len(in) != 3 {
		t.Error("valuedFlags modified its input")
	}
}

// ---------------------------------------------------------------------------
// TestGenerateCompletion
// ---------------------------------------------------------------------------

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell Shell
		want  []string
	}{
		{ShellBash, []string{
			"_md2wechat() {",
			"complete -o filenames -F _md2wechat md2wechat",
			"--cover-source) COMPREPLY=($(compgen -W \"generate render none\"",
			"-o|--output)",
			"compgen -d",
		}},
		{ShellZsh, []string{
			"#compdef md2wechat",
			"_describe -t commands",
			"'publish:Render an article and create a WeChat draft'",
			"'(-o --output)-o[output HTML file (default",
			"(generate render none)",
			"compdef _md2wechat md2wechat",
		}},
		{ShellFish, []string{
			"complete -c md2wechat -n __fish_use_subcommand -a render",
			"'__fish_seen_subcommand_from publish'",
			"-l cover-source -x -a 'generate render none'",
			"-s o -l output -r -F",
			"__fish_complete_directories",
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion: %v", err)
			}
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("%s script missing %q", tt.shell, w)
				}
			}
		})
	}
}

func TestGenerateCompletion_Unsupported(t *testing.T) {
	t.Parallel()

	err := GenerateCompletion(io.Discard, Shell("powershell"))
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("error = %v, want ErrUnsupportedShell", err)
	}
}

func TestZshDesc(t *testing.T) {
	t.Parallel()

	got := zshDesc(`cover source: generate [x]`)
	if want := "cover source generate (x)"; got != want {
		t.Errorf("zshDesc = %q, want %q", got, want)
	}
}

func TestShellQuoting(t *testing.T) {
	t.Parallel()

	if got, want := zshQuote("it's"), `'it'\''s'`; got != want {
		t.Errorf("zshQuote = %q, want %q", got, want)
	}
	if got, want := fishQuote(`it's \x`), `'it\'s \\x'`; got != want {
		t.Errorf("fishQuote = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestRunMain - completion
// ---------------------------------------------------------------------------

func TestRunMain_Completion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{"bash", []string{"completion", "bash"}, ExitSuccess, "_md2wechat()"},
		{"no shell prints usage", []string{"completion"}, ExitSuccess, "Usage: md2wechat completion"},
		{"help flag", []string{"completion", "--help"}, ExitSuccess, "Usage: md2wechat completion"},
		{"help command", []string{"help", "completion"}, ExitSuccess, "bash|zsh|fish"},
		{"unknown shell", []string{"completion", "tcsh"}, ExitUsage, ""},
		{"too many args", []string{"completion", "bash", "zsh"}, ExitUsage, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, stdout, _ := testEnv("", true)
			if code := runMain(context.Background(), tt.args, env); code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(stdout.String(), tt.wantOut) {
				t.Errorf("stdout = %q, want substring %q", stdout.String(), tt.wantOut)
			}
		})
	}
}
