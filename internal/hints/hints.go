// Package hints turns common failures into one-line suggestions.
// Every hint is rendered as "\n  hint: <text>" so it can be appended to an
// error message as is; an empty string means nothing useful to add.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-md2wechat/internal/fileutil"
)

// IsInContainer reports whether the process runs inside Docker.
// A variable so tests can stub it.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// CIVars are the variables CI providers set.
var CIVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// InCI reports whether any of CIVars is set.
func InCI() bool {
	for _, v := range CIVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// wechatCodes maps platform error codes to what the user can do about them.
var wechatCodes = map[int]string{
	-1:    "WeChat is busy, retry in a few seconds",
	40001: "check the app secret; it may have been reset in the official account console",
	40125: "check the app secret; it may have been reset in the official account console",
	40013: "check the app id",
	40164: "add this machine's public IP to the official account IP whitelist",
	40007: "the cover media id is invalid; re-upload the cover or use --cover-source",
	45009: "daily API quota reached; retry tomorrow or reset the quota in the console",
	45002: "content, title or digest exceeds WeChat's size limit",
	45003: "content, title or digest exceeds WeChat's size limit",
	45004: "content, title or digest exceeds WeChat's size limit",
	48001: "the account is not authorized for this API; drafts require a verified account",
}

// ForWeChatError explains a platform error code. Unknown codes yield "".
func ForWeChatError(code int) string {
	return line(wechatCodes[code])
}

// ForBrowserConnect suggests the rod variables that usually fix a failed
// Chrome launch: no sandbox under Docker or CI, and an explicit binary.
func ForBrowserConnect() string {
	var parts []string
	if (InCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		parts = append(parts, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		parts = append(parts, "set ROD_BROWSER_BIN to use a specific Chrome")
	}
	return line(strings.Join(parts, "; "))
}

// ForConfigNotFound points at the ways to name a config file.
func ForConfigNotFound() string {
	return line("pass --config with a file path, or set MD2WECHAT_CONFIG")
}

// ForOutputDirectory is shown when artifacts cannot be written.
func ForOutputDirectory() string {
	return line("check the output directory's parent exists and is writable, or use --output-dir")
}

// ForThemeNotFound lists the available themes.
func ForThemeNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return line("available: " + strings.Join(available, ", "))
}

// ForMissingCredentials lists where the WeChat app id and secret come from.
func ForMissingCredentials() string {
	return line("pass --app-id and --app-secret, set MD2WECHAT_APP_ID and MD2WECHAT_APP_SECRET, or add wechat.appId/appSecret to the config file")
}

// ForMissingAPIKey names the variable and config field holding a key.
func ForMissingAPIKey(envVar, configField string) string {
	return line("set " + envVar + " or " + configField + " in the config file")
}

func line(text string) string {
	if text == "" {
		return ""
	}
	return "\n  hint: " + text
}
