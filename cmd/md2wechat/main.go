package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	md2wechat "github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/config"
	"github.com/alnah/go-md2wechat/internal/cover"
	"github.com/alnah/go-md2wechat/internal/hints"
	"github.com/alnah/go-md2wechat/internal/imagegen"
	"github.com/alnah/go-md2wechat/internal/llm"
	"github.com/alnah/go-md2wechat/internal/publish"
	"github.com/alnah/go-md2wechat/internal/wechat"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for CLI operations.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrNoContent   = errors.New("no content provided")
	ErrReadInput   = errors.New("failed to read input")
	ErrWriteOutput = errors.New("failed to write output")
)

// Command names.
const (
	cmdRender     = "render"
	cmdInline     = "inline"
	cmdPublish    = "publish"
	cmdPreview    = "preview"
	cmdDoctor     = "doctor"
	cmdConfig     = "config"
	cmdCompletion = "completion"
	cmdVersion    = "version"
	cmdHelp       = "help"
)

func main() {
	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}

// hasVerboseFlag reports whether -v or --verbose appears before "--".
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// isCommand reports whether arg names a subcommand.
func isCommand(arg string) bool {
	switch arg {
	case cmdRender, cmdInline, cmdPublish, cmdPreview, cmdDoctor, cmdConfig, cmdCompletion, cmdVersion, cmdHelp:
		return true
	}
	return false
}

// runMain dispatches args to a command and returns the exit code.
// Arguments that do not start with a command name are rendered.
func runMain(ctx context.Context, args []string, env *Environment) int {
	cmd := cmdRender
	if len(args) > 0 && isCommand(args[0]) {
		cmd, args = args[0], args[1:]
	} else if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	var err error
	switch cmd {
	case cmdRender:
		err = runRender(ctx, args, env)
	case cmdInline:
		err = runInline(args, env)
	case cmdPublish:
		err = runPublish(ctx, args, env)
	case cmdPreview:
		err = runPreview(ctx, args, env)
	case cmdDoctor:
		return runDoctorCmd(args, env)
	case cmdConfig:
		err = runConfigCmd(args, env)
	case cmdCompletion:
		err = runCompletion(args, env)
	case cmdVersion:
		fmt.Fprintf(env.Stdout, "md2wechat %s\n", Version)
		return ExitSuccess
	case cmdHelp:
		return runHelp(args, env)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, errorHint(err))
	}
	return exitCodeFor(err)
}

// errorHint returns an actionable hint for err, or "".
func errorHint(err error) string {
	var apiErr *wechat.APIError
	var stageErr *publish.StageError
	switch {
	case errors.As(err, &apiErr):
		return hints.ForWeChatError(apiErr.Code)
	case errors.Is(err, cover.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound()
	case errors.Is(err, md2wechat.ErrThemeNotFound):
		return hints.ForThemeNotFound(md2wechat.Themes())
	case errors.Is(err, publish.ErrNoPlatform), errors.Is(err, wechat.ErrMissingCredentials):
		return hints.ForMissingCredentials()
	case errors.Is(err, publish.ErrNoWriter), errors.Is(err, llm.ErrMissingAPIKey):
		return hints.ForMissingAPIKey("MD2WECHAT_LLM_API_KEY", "llm.apiKey")
	case errors.Is(err, imagegen.ErrMissingAPIKey):
		return hints.ForMissingAPIKey("MD2WECHAT_IMAGE_API_KEY", "imageGen.apiKey")
	case errors.Is(err, ErrWriteOutput),
		errors.As(err, &stageErr) && stageErr.Stage == publish.StageSave:
		return hints.ForOutputDirectory()
	}
	return ""
}

// usageError marks err as a usage problem.
func usageError(err error) error {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
