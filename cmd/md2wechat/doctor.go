package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-md2wechat/internal/config"
	"github.com/alnah/go-md2wechat/internal/hints"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status      string          `json:"status"`
	Config      configInfo      `json:"config"`
	Credentials credentialsInfo `json:"credentials"`
	Output      outputInfo      `json:"output"`
	Chrome      chromeInfo      `json:"chrome"`
	Env         envInfo         `json:"environment"`
	Warnings    []string        `json:"warnings,omitempty"`
	Errors      []string        `json:"errors,omitempty"`
}

// configInfo reports which configuration was loaded.
type configInfo struct {
	Source string `json:"source"` // file name, or "defaults"
	Valid  bool   `json:"valid"`
}

// credentialsInfo reports which services are configured, never the values.
type credentialsInfo struct {
	WeChat   bool `json:"wechat"`
	ImageGen bool `json:"image_gen"`
	LLM      bool `json:"llm"`
}

// outputInfo reports whether artifacts can be written.
type outputInfo struct {
	Dir      string `json:"dir"`
	Writable bool   `json:"writable"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Container  bool   `json:"container"`
	CI         bool   `json:"ci"`
	NoSandbox  string `json:"rod_no_sandbox"`
	BrowserBin string `json:"rod_browser_bin"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(args []string, env *Environment) int {
	cfgName, jsonOutput, err := parseConfigFlags(cmdDoctor, args, printDoctorUsage, env.Stderr, true)
	if err != nil {
		return exitCodeFor(usageError(err))
	}

	result := runDoctor(cfgName, env.Stderr)

	if jsonOutput {
		_ = writeJSON(env.Stdout, result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfgName string, stderr io.Writer) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	cfg := checkConfig(result, cfgName, stderr)
	checkCredentials(result, cfg)
	checkOutput(result, cfg)
	checkChrome(result)
	checkEnvironment(result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkConfig loads the effective configuration. On failure the defaults
// are used for the remaining checks.
func checkConfig(result *doctorResult, cfgName string, stderr io.Writer) *config.Config {
	result.Config.Source = "defaults"
	if cfgName != "" {
		result.Config.Source = cfgName
	} else if env := os.Getenv("MD2WECHAT_CONFIG"); env != "" {
		result.Config.Source = env
	}

	cfg, err := resolveConfig(cfgName, stderr)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		return config.DefaultConfig()
	}
	result.Config.Valid = true
	return cfg
}

// checkCredentials reports which services can be used.
func checkCredentials(result *doctorResult, cfg *config.Config) {
	result.Credentials = credentialsInfo{
		WeChat:   cfg.WeChat.AppID != "" && cfg.WeChat.AppSecret != "",
		ImageGen: cfg.ImageGen.APIKey != "",
		LLM:      cfg.LLM.APIKey != "",
	}
	if !result.Credentials.WeChat {
		result.Warnings = append(result.Warnings,
			"WeChat credentials not set; publish only works with --preview or --cover-only"+hints.ForMissingCredentials())
	}
	if !result.Credentials.ImageGen && strings.EqualFold(cfg.Cover.Source, config.CoverSourceGenerate) {
		result.Warnings = append(result.Warnings,
			"Image generation key not set; covers fall back to the backup or title card"+
				hints.ForMissingAPIKey("MD2WECHAT_IMAGE_API_KEY", "imageGen.apiKey"))
	}
	if !result.Credentials.LLM {
		result.Warnings = append(result.Warnings,
			"LLM key not set; publish --topic is unavailable"+
				hints.ForMissingAPIKey("MD2WECHAT_LLM_API_KEY", "llm.apiKey"))
	}
}

// checkOutput verifies the artifact directory can be written.
func checkOutput(result *doctorResult, cfg *config.Config) {
	dir := cfg.Output.DefaultDir
	result.Output.Dir = dir

	// The directory is created on first publish; probe its nearest
	// existing ancestor.
	probe := dir
	for {
		info, err := os.Stat(probe)
		if err == nil {
			if !info.IsDir() {
				result.Errors = append(result.Errors,
					fmt.Sprintf("Output directory blocked by a file: %s", probe))
				return
			}
			break
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			break
		}
		probe = parent
	}

	f, err := os.CreateTemp(probe, ".md2wechat-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Output directory not writable: %s%s", dir, hints.ForOutputDirectory()))
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	result.Output.Writable = true
}

// checkChrome detects Chrome/Chromium, needed for title card covers only.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; title card covers are unavailable. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- browser path from env or lookup
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container = hints.IsInContainer()

	result.Env.CI = hints.InCI()

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" && result.Chrome.Found {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2wechat doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Configuration")
	if r.Config.Valid {
		fmt.Fprintf(w, "  [OK] Loaded: %s\n", r.Config.Source)
	} else {
		fmt.Fprintf(w, "  [ERROR] Invalid: %s\n", r.Config.Source)
	}
	fmt.Fprintf(w, "  %s WeChat credentials\n", mark(r.Credentials.WeChat))
	fmt.Fprintf(w, "  %s Image generation key\n", mark(r.Credentials.ImageGen))
	fmt.Fprintf(w, "  %s LLM key\n", mark(r.Credentials.LLM))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Output")
	if r.Output.Writable {
		fmt.Fprintf(w, "  [OK] %s: writable\n", r.Output.Dir)
	} else {
		fmt.Fprintf(w, "  [ERROR] %s: not writable\n", r.Output.Dir)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to publish")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

// mark renders a boolean check.
func mark(ok bool) string {
	if ok {
		return "[OK]"
	}
	return "[--]"
}
