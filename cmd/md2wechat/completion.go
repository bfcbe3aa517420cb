package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"

	md2wechat "github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/config"
)

// Shell is a shell the completion command can write a script for.
type Shell string

// Supported shells.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned for any other shell name.
var ErrUnsupportedShell = errors.New("unsupported shell")

// argKind says what a flag value or positional argument completes to.
type argKind int

const (
	argNone argKind = iota // boolean flag or no positional args
	argText                // free text, nothing to offer
	argFile
	argDir
	argEnum
)

// completion describes how one flag value or argument completes.
type completion struct {
	kind   argKind
	ext    []string // argFile: extensions without dot; empty means any file
	values []string // argEnum
}

// flagSpec is a flag as the scripts see it.
type flagSpec struct {
	long, short, usage string
	value              completion
}

// commandSpec is a command as the scripts see it.
type commandSpec struct {
	name, desc string
	flags      []flagSpec
	args       completion
}

// flagValues maps flag names to richer completions than free text.
// Names, shorthands and usage come from the real flag sets.
var flagValues = map[string]completion{
	"config":       {kind: argFile, ext: []string{"yaml", "yml"}},
	"output":       {kind: argFile, ext: []string{"html"}},
	"file":         {kind: argFile, ext: []string{"md", "markdown"}},
	"backup-cover": {kind: argFile, ext: []string{"png", "jpg", "jpeg"}},
	"asset-path":   {kind: argDir},
	"output-dir":   {kind: argDir},
	"theme":        {kind: argEnum, values: md2wechat.Themes()},
	"cover-source": {kind: argEnum, values: []string{config.CoverSourceGenerate, config.CoverSourceRender, config.CoverSourceNone}},
	"highlight":    {kind: argEnum, values: md2wechat.HighlightStyles()},
}

// flagSpecs lists the flags of fs in registration order.
func flagSpecs(fs *flag.FlagSet) []flagSpec {
	var out []flagSpec
	fs.SortFlags = false
	fs.VisitAll(func(f *flag.Flag) {
		spec := flagSpec{long: f.Name, short: f.Shorthand, usage: f.Usage}
		switch c, ok := flagValues[f.Name]; {
		case ok:
			spec.value = c
		case f.Value.Type() == "bool":
			spec.value = completion{kind: argNone}
		default:
			spec.value = completion{kind: argText}
		}
		out = append(out, spec)
	})
	return out
}

// completionCommands builds the command table from the commands' own
// flag sets, so completions never drift from what the parser accepts.
func completionCommands() []commandSpec {
	markdown := completion{kind: argFile, ext: []string{"md", "markdown"}}
	var cfgName string
	var jsonOut bool

	return []commandSpec{
		{name: cmdRender, desc: "Render Markdown to WeChat-ready HTML", args: markdown,
			flags: flagSpecs(renderFlagSet(&renderCmdFlags{}, io.Discard))},
		{name: cmdInline, desc: "Inline the styles of an HTML file",
			args: completion{kind: argFile, ext: []string{"html", "htm"}}},
		{name: cmdPublish, desc: "Render an article and create a WeChat draft",
			flags: flagSpecs(publishFlagSet(&publishFlags{}, io.Discard))},
		{name: cmdPreview, desc: "Serve a live preview of a Markdown file", args: markdown,
			flags: flagSpecs(previewFlagSet(&previewFlags{}, io.Discard))},
		{name: cmdDoctor, desc: "Check the environment and configuration",
			flags: flagSpecs(configFlagSet(cmdDoctor, printDoctorUsage, io.Discard, true, &cfgName, &jsonOut))},
		{name: cmdConfig, desc: "Show the effective configuration",
			flags: flagSpecs(configFlagSet(cmdConfig, printConfigUsage, io.Discard, false, &cfgName, &jsonOut))},
		{name: cmdCompletion, desc: "Print a shell completion script",
			args: completion{kind: argEnum, values: []string{string(ShellBash), string(ShellZsh), string(ShellFish)}}},
		{name: cmdVersion, desc: "Show version information"},
		{name: cmdHelp, desc: "Show help for a command",
			args: completion{kind: argEnum, values: commandNames()}},
	}
}

// commandNames lists every command name for help completion.
func commandNames() []string {
	return []string{cmdRender, cmdInline, cmdPublish, cmdPreview, cmdDoctor, cmdConfig, cmdCompletion, cmdVersion, cmdHelp}
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	cmds := completionCommands()
	var script string
	switch shell {
	case ShellBash:
		script = bashScript(cmds)
	case ShellZsh:
		script = zshScript(cmds)
	case ShellFish:
		script = fishScript(cmds)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion prints a script, or usage without a shell name.
func runCompletion(args []string, env *Environment) error {
	switch len(args) {
	case 0:
		printCompletionUsage(env.Stdout)
		return nil
	case 1:
		if args[0] == "-h" || args[0] == "--help" {
			printCompletionUsage(env.Stdout)
			return nil
		}
		if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
			if errors.Is(err, ErrUnsupportedShell) {
				return fmt.Errorf("%w: %w", ErrUsage, err)
			}
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: completion takes one shell name", ErrUsage)
	}
}

// ---------------------------------------------------------------------------
// bash
// ---------------------------------------------------------------------------

func bashScript(cmds []commandSpec) string {
	var b strings.Builder
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.name)
	}

	b.WriteString("# bash completion for md2wechat\n")
	b.WriteString("_md2wechat() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n")
	b.WriteString("    if [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\") $(compgen -f -- \"$cur\"))\n", strings.Join(names, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n")
	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.name)
		if valued := valuedFlags(c.flags); len(valued) > 0 {
			b.WriteString("        case \"$prev\" in\n")
			for _, f := range valued {
				fmt.Fprintf(&b, "        %s) %s; return ;;\n", strings.Join(flagForms(f), "|"), bashReply(f.value))
			}
			b.WriteString("        esac\n")
		}
		if len(c.flags) > 0 {
			var forms []string
			for _, f := range c.flags {
				forms = append(forms, flagForms(f)...)
			}
			b.WriteString("        if [[ $cur == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(forms, " "))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}
		if c.args.kind != argNone {
			fmt.Fprintf(&b, "        %s\n", bashReply(c.args))
		}
		b.WriteString("        ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -o filenames -F _md2wechat md2wechat\n")
	return b.String()
}

func bashReply(c completion) string {
	switch c.kind {
	case argFile:
		return `COMPREPLY=($(compgen -f -- "$cur"))`
	case argDir:
		return `COMPREPLY=($(compgen -d -- "$cur"))`
	case argEnum:
		return fmt.Sprintf(`COMPREPLY=($(compgen -W %q -- "$cur"))`, strings.Join(c.values, " "))
	default:
		return "COMPREPLY=()"
	}
}

// ---------------------------------------------------------------------------
// zsh
// ---------------------------------------------------------------------------

func zshScript(cmds []commandSpec) string {
	var b strings.Builder
	b.WriteString("#compdef md2wechat\n\n")
	b.WriteString("_md2wechat() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s\n", zshQuote(c.name+":"+c.desc))
	}
	b.WriteString("    )\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe -t commands 'md2wechat command' commands\n")
	b.WriteString("        _files -g '*.(md|markdown)'\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n")
	b.WriteString("    local cmd=${words[2]}\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n")
	b.WriteString("    case $cmd in\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.name)
		b.WriteString("        _arguments -s")
		for _, f := range c.flags {
			for _, spec := range zshFlag(f) {
				fmt.Fprintf(&b, " \\\n            %s", spec)
			}
		}
		if c.args.kind != argNone {
			fmt.Fprintf(&b, " \\\n            %s", zshQuote("*:argument:"+zshAction(c.args)))
		}
		b.WriteString("\n        ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _md2wechat md2wechat\n")
	return b.String()
}

// zshFlag returns the _arguments specs for f, one per spelling, each
// excluding the other.
func zshFlag(f flagSpec) []string {
	desc := zshDesc(f.usage)
	suffix := ""
	if f.value.kind != argNone {
		suffix = ":" + f.long + ":" + zshAction(f.value)
	}
	if f.short == "" {
		return []string{zshQuote("--" + f.long + "[" + desc + "]" + suffix)}
	}
	excl := "(-" + f.short + " --" + f.long + ")"
	return []string{
		zshQuote(excl + "-" + f.short + "[" + desc + "]" + suffix),
		zshQuote(excl + "--" + f.long + "[" + desc + "]" + suffix),
	}
}

func zshAction(c completion) string {
	switch c.kind {
	case argFile:
		if len(c.ext) == 0 {
			return "_files"
		}
		return "_files -g \"*.(" + strings.Join(c.ext, "|") + ")\""
	case argDir:
		return "_files -/"
	case argEnum:
		return "(" + strings.Join(c.values, " ") + ")"
	default:
		return " "
	}
}

// zshDesc makes usage text safe inside an _arguments [description].
func zshDesc(s string) string {
	return strings.NewReplacer(`\`, "", "[", "(", "]", ")", ":", "").Replace(s)
}

func zshQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ---------------------------------------------------------------------------
// fish
// ---------------------------------------------------------------------------

func fishScript(cmds []commandSpec) string {
	var b strings.Builder
	b.WriteString("# fish completion for md2wechat\n")
	b.WriteString("complete -c md2wechat -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c md2wechat -n __fish_use_subcommand -a %s -d %s\n", c.name, fishQuote(c.desc))
	}
	for _, c := range cmds {
		cond := fishQuote("__fish_seen_subcommand_from " + c.name)
		for _, f := range c.flags {
			fmt.Fprintf(&b, "complete -c md2wechat -n %s", cond)
			if f.short != "" {
				fmt.Fprintf(&b, " -s %s", f.short)
			}
			fmt.Fprintf(&b, " -l %s%s -d %s\n", f.long, fishValue(f.value), fishQuote(f.usage))
		}
		if c.args.kind != argNone {
			fmt.Fprintf(&b, "complete -c md2wechat -n %s%s\n", cond, strings.TrimPrefix(fishValue(c.args), " -r"))
		}
	}
	return b.String()
}

func fishValue(c completion) string {
	switch c.kind {
	case argFile:
		return " -r -F"
	case argDir:
		return " -x -a '(__fish_complete_directories)'"
	case argEnum:
		return " -x -a " + fishQuote(strings.Join(c.values, " "))
	case argText:
		return " -x"
	default:
		return ""
	}
}

func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s) + "'"
}

// ---------------------------------------------------------------------------
// shared
// ---------------------------------------------------------------------------

// valuedFlags keeps flags that take a value worth completing.
func valuedFlags(flags []flagSpec) []flagSpec {
	return slices.DeleteFunc(slices.Clone(flags), func(f flagSpec) bool {
		return f.value.kind == argNone || f.value.kind == argText
	})
}

// flagForms returns "-s" and "--long" spellings of f.
func flagForms(f flagSpec) []string {
	if f.short == "" {
		return []string{"--" + f.long}
	}
	return []string{"-" + f.short, "--" + f.long}
}
