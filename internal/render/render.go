// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render converts model output from markdown to HTML for the web
// UI. Tables and strikethrough follow GitHub Flavored Markdown and
// :color[text] becomes a colored span. Dollar signs are literal text, not
// math delimiters. Raw HTML in the source is dropped.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		Colors,
	),
)

// Markdown renders src to HTML that is safe to embed in a page.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
