package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2wechat/internal/dateutil"
	"github.com/alnah/go-md2wechat/internal/fileutil"
	"github.com/alnah/go-md2wechat/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxAuthorLength = 100  // Article author
	MaxThemeLength  = 50   // Theme name
	MaxPathLength   = 4096 // Filesystem paths
	MaxURLLength    = 2048 // Browser limit
	MaxIDLength     = 128  // App IDs, model names
	MaxSecretLength = 256  // App secrets, API keys
	MaxPromptLength = 2000 // Image prompt
	MaxSizeLength   = 20   // "900x383"
)

// Cover sources accepted by CoverConfig.Source.
const (
	CoverSourceGenerate = "generate" // image generation service
	CoverSourceRender   = "render"   // local title card via headless Chrome
	CoverSourceNone     = "none"     // no cover
)

// Service defaults.
const (
	DefaultAuthor           = "AI观察"
	DefaultOutputDir        = "wechat_output"
	DefaultWeChatBaseURL    = "https://api.weixin.qq.com"
	DefaultImageGenBaseURL  = "https://api-inference.modelscope.cn"
	DefaultImageGenModel    = "Tongyi-MAI/Z-Image"
	DefaultImageGenSize     = "900x383"
	DefaultImageGenPrompt   = "Minimalist tech cover, blue gradient background, abstract AI neural network patterns, clean white text space, professional business style --ar 2.35:1 --v 6.1"
	DefaultPollIntervalSecs = 5
	DefaultMaxPolls         = 60
	DefaultLLMBaseURL       = "https://open.bigmodel.cn/api/paas/v4"
	DefaultLLMModel         = "glm-4.7"
	DefaultLLMMaxTokens     = 4000
	DefaultLLMTimeoutSecs   = 180
)

// Config holds all configuration for rendering and publishing.
type Config struct {
	Author   string         `yaml:"author"` // Default article author
	Theme    string         `yaml:"theme"`  // default, grace, simple
	Output   OutputConfig   `yaml:"output"`
	Assets   AssetsConfig   `yaml:"assets"`
	Render   RenderConfig   `yaml:"render"`
	WeChat   WeChatConfig   `yaml:"wechat"`
	ImageGen ImageGenConfig `yaml:"imageGen"`
	LLM      LLMConfig      `yaml:"llm"`
	Cover    CoverConfig    `yaml:"cover"`
}

// OutputConfig defines where publish artifacts are written.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// RenderConfig defines Markdown rendering options.
type RenderConfig struct {
	Highlight string `yaml:"highlight"` // Chroma style name (empty = plain code blocks)
	Sanitize  bool   `yaml:"sanitize"`
}

// WeChatConfig defines the official account credentials and endpoint.
type WeChatConfig struct {
	AppID       string `yaml:"appId"`
	AppSecret   string `yaml:"appSecret"`
	BaseURL     string `yaml:"baseURL"`
	OpenComment bool   `yaml:"openComment"`
}

// ImageGenConfig defines the cover image generation service.
type ImageGenConfig struct {
	BaseURL             string `yaml:"baseURL"`
	APIKey              string `yaml:"apiKey"`
	Model               string `yaml:"model"`
	Size                string `yaml:"size"`
	Prompt              string `yaml:"prompt"`
	PollIntervalSeconds int    `yaml:"pollIntervalSeconds"`
	MaxPolls            int    `yaml:"maxPolls"`
}

// LLMConfig defines the chat completion service used to draft articles.
type LLMConfig struct {
	BaseURL        string `yaml:"baseURL"`
	APIKey         string `yaml:"apiKey"`
	Model          string `yaml:"model"`
	MaxTokens      int    `yaml:"maxTokens"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// CoverConfig defines how the article cover is produced.
type CoverConfig struct {
	Source     string `yaml:"source"`     // generate, render, none
	BackupPath string `yaml:"backupPath"` // Copied when generation fails
	Date       string `yaml:"date"`       // Rendered cards only: literal, "auto" or "auto:FORMAT"
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"author", c.Author, MaxAuthorLength},
		{"theme", c.Theme, MaxThemeLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"render.highlight", c.Render.Highlight, MaxThemeLength},
		{"wechat.appId", c.WeChat.AppID, MaxIDLength},
		{"wechat.appSecret", c.WeChat.AppSecret, MaxSecretLength},
		{"wechat.baseURL", c.WeChat.BaseURL, MaxURLLength},
		{"imageGen.baseURL", c.ImageGen.BaseURL, MaxURLLength},
		{"imageGen.apiKey", c.ImageGen.APIKey, MaxSecretLength},
		{"imageGen.model", c.ImageGen.Model, MaxIDLength},
		{"imageGen.size", c.ImageGen.Size, MaxSizeLength},
		{"imageGen.prompt", c.ImageGen.Prompt, MaxPromptLength},
		{"llm.baseURL", c.LLM.BaseURL, MaxURLLength},
		{"llm.apiKey", c.LLM.APIKey, MaxSecretLength},
		{"llm.model", c.LLM.Model, MaxIDLength},
		{"cover.backupPath", c.Cover.BackupPath, MaxPathLength},
		{"cover.date", c.Cover.Date, MaxThemeLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	for name, u := range map[string]string{
		"wechat.baseURL":   c.WeChat.BaseURL,
		"imageGen.baseURL": c.ImageGen.BaseURL,
		"llm.baseURL":      c.LLM.BaseURL,
	} {
		if u != "" && !fileutil.IsURL(u) {
			return fmt.Errorf("%w: %s must be an http(s) URL, got %q", ErrInvalidValue, name, u)
		}
	}

	switch strings.ToLower(c.Cover.Source) {
	case "", CoverSourceGenerate, CoverSourceRender, CoverSourceNone:
	default:
		return fmt.Errorf("%w: cover.source %q (must be generate, render, or none)", ErrInvalidValue, c.Cover.Source)
	}

	if _, err := dateutil.ResolveDate(c.Cover.Date, time.Time{}); err != nil {
		return fmt.Errorf("%w: cover.date: %w", ErrInvalidValue, err)
	}

	if c.ImageGen.PollIntervalSeconds < 0 {
		return fmt.Errorf("%w: imageGen.pollIntervalSeconds must not be negative, got %d", ErrInvalidValue, c.ImageGen.PollIntervalSeconds)
	}
	if c.ImageGen.MaxPolls < 0 {
		return fmt.Errorf("%w: imageGen.maxPolls must not be negative, got %d", ErrInvalidValue, c.ImageGen.MaxPolls)
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("%w: llm.maxTokens must not be negative, got %d", ErrInvalidValue, c.LLM.MaxTokens)
	}
	if c.LLM.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: llm.timeoutSeconds must not be negative, got %d", ErrInvalidValue, c.LLM.TimeoutSeconds)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
// Credentials are left empty.
func DefaultConfig() *Config {
	return &Config{
		Author: DefaultAuthor,
		Theme:  "default",
		Output: OutputConfig{DefaultDir: DefaultOutputDir},
		WeChat: WeChatConfig{
			BaseURL:     DefaultWeChatBaseURL,
			OpenComment: true,
		},
		ImageGen: ImageGenConfig{
			BaseURL:             DefaultImageGenBaseURL,
			Model:               DefaultImageGenModel,
			Size:                DefaultImageGenSize,
			Prompt:              DefaultImageGenPrompt,
			PollIntervalSeconds: DefaultPollIntervalSecs,
			MaxPolls:            DefaultMaxPolls,
		},
		LLM: LLMConfig{
			BaseURL:        DefaultLLMBaseURL,
			Model:          DefaultLLMModel,
			MaxTokens:      DefaultLLMMaxTokens,
			TimeoutSeconds: DefaultLLMTimeoutSecs,
		},
		Cover: CoverConfig{Source: CoverSourceGenerate},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values absent from the file keep their DefaultConfig value.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/md2wechat/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "md2wechat", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
