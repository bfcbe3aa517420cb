package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// defaultPreviewPort is where preview listens without --port.
const defaultPreviewPort = 8080

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds the flags that shape a single rendering.
type renderFlags struct {
	theme     string
	title     string
	author    string
	keepTitle bool
	highlight string
	sanitize  bool
	assetPath string
}

// renderCmdFlags holds all flags for the render command.
type renderCmdFlags struct {
	common commonFlags
	render renderFlags
	output string
	stdin  bool
	json   bool
}

// publishFlags holds all flags for the publish command.
type publishFlags struct {
	common      commonFlags
	topic       string
	content     string
	file        string
	title       string
	author      string
	appID       string
	appSecret   string
	preview     bool
	coverOnly   bool
	theme       string
	outputDir   string
	backupCover string
	coverSource string
}

// previewFlags holds all flags for the preview command.
type previewFlags struct {
	common commonFlags
	render renderFlags
	port   int
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.theme, "theme", "", "theme: default, grace, simple")
	fs.StringVarP(&f.title, "title", "t", "", "article title (overrides frontmatter and heading)")
	fs.StringVarP(&f.author, "author", "a", "", "article author (overrides frontmatter)")
	fs.BoolVar(&f.keepTitle, "keep-title", false, "keep the first level-1 heading in the body")
	fs.StringVar(&f.highlight, "highlight", "", "chroma style for code blocks")
	fs.BoolVar(&f.sanitize, "sanitize", false, "strip unsafe HTML from the body")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom theme directory")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// renderFlagSet registers the render command's flags into f.
func renderFlagSet(f *renderCmdFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet(cmdRender, printRenderUsage, stderr)
	fs.StringVarP(&f.output, "output", "o", "", "output HTML file (default: stdout)")
	fs.BoolVar(&f.stdin, "stdin", false, "read Markdown from stdin")
	fs.BoolVar(&f.json, "json", false, "print a JSON summary")
	addRenderFlags(fs, &f.render)
	addCommonFlags(fs, &f.common)
	return fs
}

// publishFlagSet registers the publish command's flags into f.
func publishFlagSet(f *publishFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet(cmdPublish, printPublishUsage, stderr)
	fs.StringVar(&f.topic, "topic", "", "generate the article from a topic")
	fs.StringVar(&f.content, "content", "", "publish this Markdown (\\n is a newline)")
	fs.StringVar(&f.file, "file", "", "publish a Markdown file")
	fs.StringVar(&f.title, "title", "", "article title")
	fs.StringVar(&f.author, "author", "", "article author (default from config)")
	fs.StringVar(&f.appID, "app-id", "", "WeChat app id")
	fs.StringVar(&f.appSecret, "app-secret", "", "WeChat app secret")
	fs.BoolVar(&f.preview, "preview", false, "render and print a preview, no upload")
	fs.BoolVar(&f.coverOnly, "cover-only", false, "stop after producing the cover")
	fs.StringVar(&f.theme, "theme", "", "theme: default, grace, simple")
	fs.StringVar(&f.outputDir, "output-dir", "", "artifact directory")
	fs.StringVar(&f.backupCover, "backup-cover", "", "image used when cover generation fails")
	fs.StringVar(&f.coverSource, "cover-source", "", "cover source: generate, render, none")
	addCommonFlags(fs, &f.common)
	return fs
}

// previewFlagSet registers the preview command's flags into f.
func previewFlagSet(f *previewFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet(cmdPreview, printPreviewUsage, stderr)
	fs.IntVarP(&f.port, "port", "p", defaultPreviewPort, "listen port")
	addRenderFlags(fs, &f.render)
	addCommonFlags(fs, &f.common)
	return fs
}

// configFlagSet registers -c and, when withJSON is set, --json.
func configFlagSet(name string, usage func(io.Writer), stderr io.Writer, withJSON bool, cfgName *string, jsonOut *bool) *flag.FlagSet {
	fs := newFlagSet(name, usage, stderr)
	fs.StringVarP(cfgName, "config", "c", "", "config file name or path")
	if withJSON {
		fs.BoolVar(jsonOut, "json", false, "print JSON")
	}
	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderCmdFlags, []string, error) {
	f := &renderCmdFlags{}
	fs := renderFlagSet(f, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parsePublishFlags parses publish command flags.
func parsePublishFlags(args []string, stderr io.Writer) (*publishFlags, []string, error) {
	f := &publishFlags{}
	fs := publishFlagSet(f, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parsePreviewFlags parses preview command flags.
func parsePreviewFlags(args []string, stderr io.Writer) (*previewFlags, []string, error) {
	f := &previewFlags{}
	fs := previewFlagSet(f, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseConfigFlags parses the config and doctor commands' flags.
// --json is only accepted when withJSON is set.
func parseConfigFlags(name string, args []string, usage func(io.Writer), stderr io.Writer, withJSON bool) (cfgName string, jsonOut bool, err error) {
	fs := configFlagSet(name, usage, stderr, withJSON, &cfgName, &jsonOut)
	if err := fs.Parse(args); err != nil {
		return "", false, err
	}
	return cfgName, jsonOut, nil
}
