// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ColorNames lists the colors accepted in :color[text] markup.
var ColorNames = []string{"green", "orange", "red", "blue", "violet", "gray", "grey", "rainbow"}

var colorPattern = regexp.MustCompile(`^:(` + strings.Join(ColorNames, "|") + `)\[([^\]\n]*)\]`)

// KindColorSpan is the node kind of a :color[text] span.
var KindColorSpan = ast.NewNodeKind("ColorSpan")

// ColorSpan is an inline run of text drawn in a named color.
type ColorSpan struct {
	ast.BaseInline
	Color string
	Inner []byte
}

// Kind implements ast.Node.
func (n *ColorSpan) Kind() ast.NodeKind { return KindColorSpan }

// Dump implements ast.Node.
func (n *ColorSpan) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Color": n.Color}, nil)
}

type colorParser struct{}

func (colorParser) Trigger() []byte { return []byte{':'} }

func (colorParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, segment := block.PeekLine()
	m := colorPattern.FindSubmatchIndex(line)
	if m == nil {
		return nil
	}

	node := &ColorSpan{
		Color: string(line[m[2]:m[3]]),
		Inner: line[m[4]:m[5]],
	}
	node.AppendChild(node, ast.NewTextSegment(text.NewSegment(segment.Start+m[4], segment.Start+m[5])))
	block.Advance(m[1])
	return node
}

// inlineMarkdown renders the inside of a color span. Emphasis, code and
// strikethrough work there; nested color spans do not.
var inlineMarkdown = goldmark.New(goldmark.WithExtensions(extension.Strikethrough))

type colorRenderer struct{}

func (colorRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindColorSpan, renderColorSpan)
}

func renderColorSpan(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ColorSpan)

	_, _ = w.WriteString(`<span class="md-color-`)
	_, _ = w.WriteString(n.Color)
	_, _ = w.WriteString(`">`)

	var buf bytes.Buffer
	if err := inlineMarkdown.Convert(n.Inner, &buf); err != nil {
		return ast.WalkStop, err
	}
	inner := bytes.TrimSpace(buf.Bytes())
	if bytes.HasPrefix(inner, []byte("<p>")) && bytes.HasSuffix(inner, []byte("</p>")) {
		_, _ = w.Write(inner[len("<p>") : len(inner)-len("</p>")])
	} else {
		_, _ = w.Write(util.EscapeHTML(n.Inner))
	}

	_, _ = w.WriteString("</span>")
	return ast.WalkSkipChildren, nil
}

type colors struct{}

// Colors is a goldmark extension for :color[text] spans.
var Colors goldmark.Extender = colors{}

func (colors) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(colorParser{}, 500)))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(colorRenderer{}, 500)))
}
