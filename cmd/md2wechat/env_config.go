package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-md2wechat/internal/config"
)

// envPrefix is shared by every recognized variable.
const envPrefix = "MD2WECHAT_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides, and keeps secrets out of YAML files.
type envConfig struct {
	ConfigPath string // MD2WECHAT_CONFIG: config file name or path

	// Rendering
	Theme     string // MD2WECHAT_THEME
	Highlight string // MD2WECHAT_HIGHLIGHT: chroma style
	AssetPath string // MD2WECHAT_ASSET_PATH

	// Publishing
	Author      string // MD2WECHAT_AUTHOR
	OutputDir   string // MD2WECHAT_OUTPUT_DIR
	CoverSource string // MD2WECHAT_COVER_SOURCE: generate, render, none
	BackupCover string // MD2WECHAT_BACKUP_COVER
	CoverDate   string // MD2WECHAT_COVER_DATE

	// Credentials
	AppID       string // MD2WECHAT_APP_ID
	AppSecret   string // MD2WECHAT_APP_SECRET
	ImageAPIKey string // MD2WECHAT_IMAGE_API_KEY
	LLMAPIKey   string // MD2WECHAT_LLM_API_KEY

	// Services
	LLMModel  string // MD2WECHAT_LLM_MODEL
	MaxPolls  int    // MD2WECHAT_MAX_POLLS
	LLMTokens int    // MD2WECHAT_LLM_MAX_TOKENS
}

// knownEnvVars lists valid MD2WECHAT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2WECHAT_CONFIG":         true,
	"MD2WECHAT_THEME":          true,
	"MD2WECHAT_HIGHLIGHT":      true,
	"MD2WECHAT_ASSET_PATH":     true,
	"MD2WECHAT_AUTHOR":         true,
	"MD2WECHAT_OUTPUT_DIR":     true,
	"MD2WECHAT_COVER_SOURCE":   true,
	"MD2WECHAT_BACKUP_COVER":   true,
	"MD2WECHAT_COVER_DATE":     true,
	"MD2WECHAT_APP_ID":         true,
	"MD2WECHAT_APP_SECRET":     true,
	"MD2WECHAT_IMAGE_API_KEY":  true,
	"MD2WECHAT_LLM_API_KEY":    true,
	"MD2WECHAT_LLM_MODEL":      true,
	"MD2WECHAT_MAX_POLLS":      true,
	"MD2WECHAT_LLM_MAX_TOKENS": true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid numbers are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("MD2WECHAT_CONFIG"),
		Theme:       os.Getenv("MD2WECHAT_THEME"),
		Highlight:   os.Getenv("MD2WECHAT_HIGHLIGHT"),
		AssetPath:   os.Getenv("MD2WECHAT_ASSET_PATH"),
		Author:      os.Getenv("MD2WECHAT_AUTHOR"),
		OutputDir:   os.Getenv("MD2WECHAT_OUTPUT_DIR"),
		CoverSource: os.Getenv("MD2WECHAT_COVER_SOURCE"),
		BackupCover: os.Getenv("MD2WECHAT_BACKUP_COVER"),
		CoverDate:   os.Getenv("MD2WECHAT_COVER_DATE"),
		AppID:       os.Getenv("MD2WECHAT_APP_ID"),
		AppSecret:   os.Getenv("MD2WECHAT_APP_SECRET"),
		ImageAPIKey: os.Getenv("MD2WECHAT_IMAGE_API_KEY"),
		LLMAPIKey:   os.Getenv("MD2WECHAT_LLM_API_KEY"),
		LLMModel:    os.Getenv("MD2WECHAT_LLM_MODEL"),
	}
	cfg.MaxPolls = positiveEnvInt("MD2WECHAT_MAX_POLLS")
	cfg.LLMTokens = positiveEnvInt("MD2WECHAT_LLM_MAX_TOKENS")
	return cfg
}

// positiveEnvInt parses a positive integer variable, 0 when unset or invalid.
func positiveEnvInt(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// warnUnknownEnvVars prints warnings for unrecognized MD2WECHAT_* variables.
// Helps catch typos like MD2WECHAT_APPID instead of MD2WECHAT_APP_ID.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig layers set environment values over cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString(&cfg.Theme, env.Theme)
	setString(&cfg.Render.Highlight, env.Highlight)
	setString(&cfg.Assets.BasePath, env.AssetPath)

	setString(&cfg.Author, env.Author)
	setString(&cfg.Output.DefaultDir, env.OutputDir)
	setString(&cfg.Cover.Source, env.CoverSource)
	setString(&cfg.Cover.BackupPath, env.BackupCover)
	setString(&cfg.Cover.Date, env.CoverDate)

	setString(&cfg.WeChat.AppID, env.AppID)
	setString(&cfg.WeChat.AppSecret, env.AppSecret)
	setString(&cfg.ImageGen.APIKey, env.ImageAPIKey)
	setString(&cfg.LLM.APIKey, env.LLMAPIKey)

	setString(&cfg.LLM.Model, env.LLMModel)
	if env.MaxPolls > 0 {
		cfg.ImageGen.MaxPolls = env.MaxPolls
	}
	if env.LLMTokens > 0 {
		cfg.LLM.MaxTokens = env.LLMTokens
	}
}

// setString overwrites *dst when v is set.
func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// resolveConfig builds the effective configuration: defaults, then the
// config file (flag, else MD2WECHAT_CONFIG), then environment variables.
// The result is validated again since env values bypass LoadConfig.
func resolveConfig(flagConfig string, stderr io.Writer) (*config.Config, error) {
	warnUnknownEnvVars(stderr)
	env := loadEnvConfig()

	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
