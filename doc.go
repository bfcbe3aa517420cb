// Package md2wechat converts Markdown into themed HTML for the WeChat
// Official Account editor.
//
// # Quick Start
//
//	conv, err := md2wechat.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	article, err := conv.Render(ctx, "# Hello\n\nWorld", md2wechat.RenderOptions{
//	    Theme: md2wechat.ThemeGrace,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("article.html", []byte(article.HTML), 0644)
//
// # Rendering Pipeline
//
//  1. Frontmatter parsing (a leading "---" block of key: value lines)
//  2. Title and author resolution (explicit, frontmatter, content, default)
//  3. Removal of the first level-1 heading unless KeepTitle is set
//  4. Markdown to HTML via goldmark (tables, footnotes, fenced code)
//  5. GitHub-style alert blockquotes ([!NOTE], [!TIP], ...) to alert boxes
//  6. Composition into one of the built-in themes
//
// The editor strips <style> blocks, so documents meant for pasting or for
// the draft API go through InlineStyles and PrepareForWeChat afterwards.
//
// # Custom Assets
//
// Theme templates can be overridden from a directory:
//
//	conv, err := md2wechat.NewConverter(md2wechat.WithAssetPath("/path/to/assets"))
//
// The directory holds themes/{default,grace,simple}.html; missing files fall
// back to the embedded ones. Templates use the literal slots {title},
// {content} and {author}.
package md2wechat
