// Package assets holds the article themes and the cover card template.
//
// Every asset is an HTML file named after its kind and name:
//
//	themes/{name}.html       article theme with {title} {content} {author} slots
//	templates/{name}.html    html/template source, e.g. cover.html
//
// The built-in set is embedded in the binary. A custom directory with the
// same layout can override any file; lookups fall back to the embedded copy
// when the custom directory does not have it. Reads from a custom directory
// go through os.Root, so names and symlinks cannot leave it.
package assets
