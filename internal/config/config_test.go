package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeConfig writes content to dir/name and returns the path.
func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Author != DefaultAuthor {
		t.Errorf("Author = %q, want %q", cfg.Author, DefaultAuthor)
	}
	if cfg.Theme != "default" {
		t.Errorf("Theme = %q, want %q", cfg.Theme, "default")
	}
	if cfg.WeChat.AppID != "" || cfg.WeChat.AppSecret != "" {
		t.Error("default config must not carry credentials")
	}
	if cfg.ImageGen.APIKey != "" || cfg.LLM.APIKey != "" {
		t.Error("default config must not carry API keys")
	}
	if cfg.ImageGen.MaxPolls != 60 || cfg.ImageGen.PollIntervalSeconds != 5 {
		t.Errorf("ImageGen polling = %d x %ds, want 60 x 5s", cfg.ImageGen.MaxPolls, cfg.ImageGen.PollIntervalSeconds)
	}
	if cfg.Cover.Source != CoverSourceGenerate {
		t.Errorf("Cover.Source = %q, want %q", cfg.Cover.Source, CoverSourceGenerate)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{"empty value is valid", "", 10, false},
		{"value at limit is valid", "1234567890", 10, false},
		{"value over limit is invalid", "12345678901", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test", tt.value, tt.maxLength)
			if tt.wantErr && !errors.Is(err, ErrFieldTooLong) {
				t.Errorf("validateFieldLength() error = %v, want ErrFieldTooLong", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validateFieldLength() unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
		wantMsg string
	}{
		{
			name:    "author too long",
			modify:  func(c *Config) { c.Author = strings.Repeat("a", MaxAuthorLength+1) },
			wantErr: ErrFieldTooLong,
			wantMsg: "author",
		},
		{
			name:    "secret too long",
			modify:  func(c *Config) { c.WeChat.AppSecret = strings.Repeat("s", MaxSecretLength+1) },
			wantErr: ErrFieldTooLong,
			wantMsg: "wechat.appSecret",
		},
		{
			name:    "base URL must be http",
			modify:  func(c *Config) { c.LLM.BaseURL = "ftp://example.com" },
			wantErr: ErrInvalidValue,
			wantMsg: "llm.baseURL",
		},
		{
			name:    "unknown cover source",
			modify:  func(c *Config) { c.Cover.Source = "paint" },
			wantErr: ErrInvalidValue,
			wantMsg: "cover.source",
		},
		{
			name:   "cover source is case-insensitive",
			modify: func(c *Config) { c.Cover.Source = "Render" },
		},
		{
			name:   "cover date preset",
			modify: func(c *Config) { c.Cover.Date = "auto:iso" },
		},
		{
			name:    "malformed cover date",
			modify:  func(c *Config) { c.Cover.Date = "auto:[YYYY" },
			wantErr: ErrInvalidValue,
			wantMsg: "cover.date",
		},
		{
			name:    "negative poll count",
			modify:  func(c *Config) { c.ImageGen.MaxPolls = -1 },
			wantErr: ErrInvalidValue,
			wantMsg: "imageGen.maxPolls",
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.LLM.TimeoutSeconds = -5 },
			wantErr: ErrInvalidValue,
			wantMsg: "llm.timeoutSeconds",
		},
		{
			name:   "empty config is valid",
			modify: func(c *Config) { *c = Config{} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() error = %q, want mention of %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config over defaults", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "test.yaml", `author: "Jane"
theme: grace
wechat:
  appId: "wx123"
imageGen:
  maxPolls: 3
`)

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Author != "Jane" {
			t.Errorf("Author = %q, want %q", cfg.Author, "Jane")
		}
		if cfg.Theme != "grace" {
			t.Errorf("Theme = %q, want %q", cfg.Theme, "grace")
		}
		if cfg.WeChat.AppID != "wx123" {
			t.Errorf("WeChat.AppID = %q, want %q", cfg.WeChat.AppID, "wx123")
		}
		if cfg.WeChat.BaseURL != DefaultWeChatBaseURL {
			t.Errorf("WeChat.BaseURL = %q, want default %q", cfg.WeChat.BaseURL, DefaultWeChatBaseURL)
		}
		if cfg.ImageGen.MaxPolls != 3 {
			t.Errorf("ImageGen.MaxPolls = %d, want 3", cfg.ImageGen.MaxPolls)
		}
		if cfg.ImageGen.PollIntervalSeconds != DefaultPollIntervalSecs {
			t.Errorf("ImageGen.PollIntervalSeconds = %d, want default", cfg.ImageGen.PollIntervalSeconds)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "bad.yaml", "unknownField: 1\n")

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid yaml returns ErrConfigParse", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "bad.yaml", "author: [unclosed\n")

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("validation failure is returned", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "bad.yaml", "cover:\n  source: paint\n")

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("config name resolves yaml in current directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "myconfig.yaml", "author: fromname\n")
		t.Chdir(dir)

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Author != "fromname" {
			t.Errorf("Author = %q, want %q", cfg.Author, "fromname")
		}
	})

	t.Run("config name prefers yaml over yml", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "myconfig.yaml", "author: yaml\n")
		writeConfig(t, dir, "myconfig.yml", "author: yml\n")
		t.Chdir(dir)

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Author != "yaml" {
			t.Errorf("Author = %q, want %q (should prefer .yaml)", cfg.Author, "yaml")
		}
	})

	t.Run("config name resolves from user config directory", func(t *testing.T) {
		if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
			t.Skip("XDG_CONFIG_HOME only drives os.UserConfigDir on unix")
		}

		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)
		appDir := filepath.Join(xdg, "md2wechat")
		if err := os.MkdirAll(appDir, 0755); err != nil {
			t.Fatalf("setup mkdir: %v", err)
		}
		writeConfig(t, appDir, "team.yml", "author: userdir\n")
		t.Chdir(t.TempDir())

		cfg, err := LoadConfig("team")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Author != "userdir" {
			t.Errorf("Author = %q, want %q", cfg.Author, "userdir")
		}
	})

	t.Run("config name not found lists tried paths", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := LoadConfig("nonexistent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "nonexistent.yaml") {
			t.Errorf("error = %q, want tried paths", err)
		}
	})
}
