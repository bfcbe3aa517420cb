package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render Markdown to WeChat-ready HTML (default)")
	fmt.Fprintln(w, "  inline     Inline the styles of an HTML file")
	fmt.Fprintln(w, "  publish    Render an article and create a WeChat draft")
	fmt.Fprintln(w, "  preview    Serve a live preview of a Markdown file")
	fmt.Fprintln(w, "  doctor     Check the environment and configuration")
	fmt.Fprintln(w, "  config     Show the effective configuration")
	fmt.Fprintln(w, "  completion Print a shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2wechat help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat render [input] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render Markdown to a themed HTML document.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or literal text (stdin when omitted)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Write HTML to a file instead of stdout")
	fmt.Fprintln(w, "      --stdin               Read Markdown from stdin")
	fmt.Fprintln(w, "      --json                Print {title, author, htmlPath, theme}")
	fmt.Fprintln(w)
	printRenderFlagsUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
}

// printRenderFlagsUsage prints the flags shared by render and preview.
func printRenderFlagsUsage(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --theme <name>        Theme: default, grace, simple")
	fmt.Fprintln(w, "  -t, --title <s>           Title (overrides frontmatter and heading)")
	fmt.Fprintln(w, "  -a, --author <s>          Author (overrides frontmatter)")
	fmt.Fprintln(w, "      --keep-title          Keep the first level-1 heading in the body")
	fmt.Fprintln(w, "      --highlight <style>   Chroma style for code blocks")
	fmt.Fprintln(w, "      --sanitize            Strip unsafe HTML from the body")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom theme directory")
}

// printInlineUsage prints usage for the inline command.
func printInlineUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat inline <file.html>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Move tag styles into style attributes and write <name>_styled.html")
	fmt.Fprintln(w, "next to the input.")
}

// printPublishUsage prints usage for the publish command.
func printPublishUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat publish (--topic <s> | --content <md> | --file <path>) [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render an article, produce a cover and create a WeChat draft.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Source (one of):")
	fmt.Fprintln(w, "      --topic <s>           Generate the article with the LLM")
	fmt.Fprintln(w, "      --content <md>        Markdown text (\\n is a newline)")
	fmt.Fprintln(w, "      --file <path>         Markdown file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Article:")
	fmt.Fprintln(w, "      --title <s>           Title (default: first heading)")
	fmt.Fprintln(w, "      --author <s>          Author (default: config author)")
	fmt.Fprintln(w, "      --theme <name>        Theme: default, grace, simple")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Cover:")
	fmt.Fprintln(w, "      --cover-source <s>    generate, render, none")
	fmt.Fprintln(w, "      --backup-cover <path> Image used when the cover cannot be produced")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Platform:")
	fmt.Fprintln(w, "      --app-id <s>          WeChat app id (or MD2WECHAT_APP_ID)")
	fmt.Fprintln(w, "      --app-secret <s>      WeChat app secret (or MD2WECHAT_APP_SECRET)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Modes:")
	fmt.Fprintln(w, "      --preview             Render and print a preview only")
	fmt.Fprintln(w, "      --cover-only          Stop after producing the cover")
	fmt.Fprintln(w, "      --output-dir <dir>    Artifact directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed progress")
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat preview <file.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the rendered file and reload the browser when it changes.")
	fmt.Fprintln(w, "/ shows the themed page, /styled the inline-styled draft body.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -p, --port <n>            Listen port (default 8080)")
	fmt.Fprintln(w)
	printRenderFlagsUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -v, --verbose             Log requests and reloads")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat doctor [-c name] [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check configuration, credentials, output directory and Chrome.")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat config [-c name]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration with secrets masked.")
}

// printCompletionUsage prints usage for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat completion <bash|zsh|fish>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print a completion script for the given shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  source <(md2wechat completion bash)")
	fmt.Fprintln(w, "  md2wechat completion zsh > \"${fpath[1]}/_md2wechat\"")
	fmt.Fprintln(w, "  md2wechat completion fish > ~/.config/fish/completions/md2wechat.fish")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case cmdRender:
		printRenderUsage(env.Stdout)
	case cmdInline:
		printInlineUsage(env.Stdout)
	case cmdPublish:
		printPublishUsage(env.Stdout)
	case cmdPreview:
		printPreviewUsage(env.Stdout)
	case cmdDoctor:
		printDoctorUsage(env.Stdout)
	case cmdConfig:
		printConfigUsage(env.Stdout)
	case cmdCompletion:
		printCompletionUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: md2wechat version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: md2wechat help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
