// Package pipeline implements the Markdown-to-WeChat conversion stages.
//
// Each stage is a plain function or a small type so callers can compose them:
//   - Line-ending normalization and frontmatter parsing
//   - Title extraction and title stripping
//   - Markdown to HTML conversion via Goldmark
//   - Alert blockquote conversion ([!NOTE], [!TIP], ...)
//   - Theme composition into a full document
//   - Inline styling and final WeChat fixes
//   - Local image upload rewriting and plain-text digests
//
// Orchestration lives in the root md2wechat package; network access and
// file I/O stay outside this package, injected through function types such
// as ImageUploader.
package pipeline
