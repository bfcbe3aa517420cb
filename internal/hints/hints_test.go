package hints

// Notes:
// - Browser and CI tests are not parallel: they use t.Setenv and stub the
//   package-level IsInContainer.

import (
	"strings"
	"testing"
)

// clearCI unsets every CI variable for the test.
func clearCI(t *testing.T) {
	t.Helper()
	for _, v := range CIVars {
		t.Setenv(v, "")
	}
}

// stubContainer replaces IsInContainer for the test.
func stubContainer(t *testing.T, in bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return in }
}

// ---------------------------------------------------------------------------
// InCI
// ---------------------------------------------------------------------------

func TestInCI(t *testing.T) {
	clearCI(t)
	if InCI() {
		t.Error("InCI() = true with no CI variables")
	}
	t.Setenv("GITLAB_CI", "true")
	if !InCI() {
		t.Error("InCI() = false with GITLAB_CI set")
	}
}

// ---------------------------------------------------------------------------
// ForBrowserConnect
// ---------------------------------------------------------------------------

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name        string
		ci          bool
		container   bool
		noSandbox   string
		browserBin  string
		wantSandbox bool
		wantBin     bool
	}{
		{name: "ci", ci: true, wantSandbox: true, wantBin: true},
		{name: "docker", container: true, wantSandbox: true, wantBin: true},
		{name: "sandbox already disabled", ci: true, noSandbox: "1", wantBin: true},
		{name: "binary set", container: true, browserBin: "/usr/bin/chromium", wantSandbox: true},
		{name: "desktop", wantBin: true},
		{name: "all configured", ci: true, noSandbox: "1", browserBin: "/usr/bin/chromium"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCI(t)
			if tt.ci {
				t.Setenv("CI", "true")
			}
			stubContainer(t, tt.container)
			t.Setenv("ROD_NO_SANDBOX", tt.noSandbox)
			t.Setenv("ROD_BROWSER_BIN", tt.browserBin)

			got := ForBrowserConnect()
			if has := strings.Contains(got, "ROD_NO_SANDBOX"); has != tt.wantSandbox {
				t.Errorf("ForBrowserConnect() = %q, sandbox hint %v, want %v", got, has, tt.wantSandbox)
			}
			if has := strings.Contains(got, "ROD_BROWSER_BIN"); has != tt.wantBin {
				t.Errorf("ForBrowserConnect() = %q, binary hint %v, want %v", got, has, tt.wantBin)
			}
			if !tt.wantSandbox && !tt.wantBin && got != "" {
				t.Errorf("ForBrowserConnect() = %q, want empty", got)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Static hints
// ---------------------------------------------------------------------------

func TestStaticHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"config", ForConfigNotFound(), "MD2WECHAT_CONFIG"},
		{"output", ForOutputDirectory(), "--output-dir"},
		{"themes", ForThemeNotFound([]string{"default", "grace"}), "available: default, grace"},
		{"credentials", ForMissingCredentials(), "--app-secret"},
		{"api key", ForMissingAPIKey("MD2WECHAT_LLM_API_KEY", "llm.apiKey"), "set MD2WECHAT_LLM_API_KEY or llm.apiKey"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !strings.HasPrefix(tt.got, "\n  hint: ") {
				t.Errorf("%s hint = %q, want hint prefix", tt.name, tt.got)
			}
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("%s hint = %q, want it to contain %q", tt.name, tt.got, tt.want)
			}
		})
	}

	if got := ForThemeNotFound(nil); got != "" {
		t.Errorf("ForThemeNotFound(nil) = %q, want empty", got)
	}
}

// ---------------------------------------------------------------------------
// ForWeChatError
// ---------------------------------------------------------------------------

func TestForWeChatError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code int
		want string
	}{
		{-1, "busy"},
		{40001, "app secret"},
		{40125, "app secret"},
		{40013, "app id"},
		{40164, "whitelist"},
		{40007, "cover media id"},
		{45009, "quota"},
		{45003, "size limit"},
		{48001, "verified account"},
		{99999, ""},
		{0, ""},
	}

	for _, tt := range tests {
		got := ForWeChatError(tt.code)
		if tt.want == "" {
			if got != "" {
				t.Errorf("ForWeChatError(%d) = %q, want empty", tt.code, got)
			}
			continue
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("ForWeChatError(%d) = %q, want it to contain %q", tt.code, got, tt.want)
		}
	}
}
