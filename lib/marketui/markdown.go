// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// markdownParserInstance is initialized once and reused. The goldmark
// Parser is safe to share; parsing creates per-call state.
var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownParserInstance
}

// renderTerminalMarkdown parses markdown text and renders it as
// styled terminal output. Soft line breaks within paragraphs become
// spaces so hard-wrapped source reflows at any terminal width; code
// fences are syntax-highlighted with chroma.
func renderTerminalMarkdown(input string, theme Theme, width int) string {
	if input == "" {
		return ""
	}
	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	// Force the ANSI256 profile: this output is always for terminal
	// display, so auto-detection (which yields plain text without a
	// TTY) must not strip the styling.
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	renderer := &markdownRenderer{
		source:      source,
		theme:       theme,
		width:       width,
		lipRenderer: lipRenderer,
	}
	ast.Walk(document, renderer.walk)

	return strings.TrimRight(renderer.output.String(), "\n")
}

// markdownRenderer walks a goldmark AST and produces styled terminal
// text. A direct ast.Walk fits terminal rendering better than
// goldmark's renderer interface: paragraph inline content accumulates
// in a buffer and is word-wrapped as a unit when the paragraph
// closes.
type markdownRenderer struct {
	source []byte
	theme  Theme
	width  int

	output strings.Builder
	inline strings.Builder

	// Inline style counters; counters rather than booleans so nested
	// emphasis balances correctly.
	boldCount   int
	italicCount int

	listDepth   int
	listOrdered []bool
	listCounter []int

	// pendingBullet is the marker for the next flushed list item
	// line, cleared once consumed.
	pendingBullet string

	lipRenderer *lipgloss.Renderer
}

func (renderer *markdownRenderer) newStyle() lipgloss.Style {
	return renderer.lipRenderer.NewStyle()
}

func (renderer *markdownRenderer) contentWidth() int {
	width := renderer.width - renderer.listDepth*2
	if width < 10 {
		width = 10
	}
	return width
}

// flushInline word-wraps the accumulated inline content and writes it
// to the output with the current list indentation.
func (renderer *markdownRenderer) flushInline(prefix string) {
	content := renderer.inline.String()
	renderer.inline.Reset()
	if content == "" {
		return
	}

	wrapped := ansi.Wrap(content, renderer.contentWidth(), " ,.;-+|")
	indent := strings.Repeat("  ", renderer.listDepth)
	for lineIndex, line := range strings.Split(wrapped, "\n") {
		if lineIndex == 0 && prefix != "" {
			renderer.output.WriteString(indent[:max(0, len(indent)-len(prefix))] + prefix + line + "\n")
		} else {
			renderer.output.WriteString(indent + line + "\n")
		}
	}
}

func (renderer *markdownRenderer) styledText(content string) string {
	style := renderer.newStyle().Foreground(renderer.theme.NormalText)
	if renderer.boldCount > 0 {
		style = style.Bold(true)
	}
	if renderer.italicCount > 0 {
		style = style.Italic(true)
	}
	return style.Render(content)
}

func (renderer *markdownRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch typed := node.(type) {
	case *ast.Heading:
		if entering {
			renderer.inline.Reset()
		} else {
			heading := renderer.inline.String()
			renderer.inline.Reset()
			style := renderer.newStyle().
				Foreground(renderer.theme.HeaderForeground).
				Bold(true)
			marker := strings.Repeat("#", typed.Level) + " "
			renderer.output.WriteString(style.Render(marker+ansi.Strip(heading)) + "\n\n")
		}

	case *ast.Paragraph:
		if !entering {
			// Loose list items wrap their content in paragraphs; the
			// bullet still belongs on the first line.
			renderer.flushInline(renderer.takeBullet())
			if renderer.listDepth == 0 {
				renderer.output.WriteString("\n")
			}
		}

	case *ast.Text:
		if entering {
			segment := typed.Segment
			renderer.inline.WriteString(renderer.styledText(string(segment.Value(renderer.source))))
			if typed.SoftLineBreak() {
				renderer.inline.WriteString(" ")
			} else if typed.HardLineBreak() {
				renderer.inline.WriteString("\n")
			}
		}

	case *ast.Emphasis:
		if typed.Level >= 2 {
			if entering {
				renderer.boldCount++
			} else {
				renderer.boldCount--
			}
		} else {
			if entering {
				renderer.italicCount++
			} else {
				renderer.italicCount--
			}
		}

	case *ast.CodeSpan:
		if entering {
			var literal strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					literal.Write(textNode.Segment.Value(renderer.source))
				}
			}
			style := renderer.newStyle().
				Foreground(renderer.theme.AmountForeground)
			renderer.inline.WriteString(style.Render(literal.String()))
			return ast.WalkSkipChildren, nil
		}

	case *ast.FencedCodeBlock:
		if entering {
			renderer.writeCodeBlock(typed)
			return ast.WalkSkipChildren, nil
		}

	case *ast.CodeBlock:
		if entering {
			renderer.writeIndentedCode(typed)
			return ast.WalkSkipChildren, nil
		}

	case *ast.List:
		if entering {
			renderer.listDepth++
			renderer.listOrdered = append(renderer.listOrdered, typed.IsOrdered())
			renderer.listCounter = append(renderer.listCounter, typed.Start)
		} else {
			renderer.listDepth--
			renderer.listOrdered = renderer.listOrdered[:len(renderer.listOrdered)-1]
			renderer.listCounter = renderer.listCounter[:len(renderer.listCounter)-1]
			if renderer.listDepth == 0 {
				renderer.output.WriteString("\n")
			}
		}

	case *ast.ListItem:
		if entering {
			top := len(renderer.listOrdered) - 1
			if renderer.listOrdered[top] {
				renderer.pendingBullet = fmt.Sprintf("%d. ", renderer.listCounter[top])
				renderer.listCounter[top]++
			} else {
				renderer.pendingBullet = "• "
			}
		}

	case *ast.TextBlock:
		if !entering {
			renderer.flushInline(renderer.takeBullet())
		}

	case *ast.Blockquote:
		if entering {
			renderer.inline.Reset()
		} else {
			quoted := renderer.inline.String()
			renderer.inline.Reset()
			style := renderer.newStyle().Foreground(renderer.theme.FaintText)
			for _, line := range strings.Split(ansi.Wrap(quoted, renderer.contentWidth()-2, " "), "\n") {
				renderer.output.WriteString(style.Render("│ "+ansi.Strip(line)) + "\n")
			}
			renderer.output.WriteString("\n")
		}

	case *ast.ThematicBreak:
		if entering {
			style := renderer.newStyle().Foreground(renderer.theme.BorderColor)
			renderer.output.WriteString(style.Render(strings.Repeat("─", renderer.contentWidth())) + "\n\n")
		}

	case *extast.Strikethrough:
		// Rendered as faint text; true strikethrough support is
		// spotty across terminals.
		if entering {
			renderer.italicCount++
		} else {
			renderer.italicCount--
		}
	}

	return ast.WalkContinue, nil
}

func (renderer *markdownRenderer) takeBullet() string {
	bullet := renderer.pendingBullet
	renderer.pendingBullet = ""
	return bullet
}

// writeCodeBlock renders a fenced code block, syntax-highlighted via
// chroma when the fence names a language.
func (renderer *markdownRenderer) writeCodeBlock(block *ast.FencedCodeBlock) {
	language := string(block.Language(renderer.source))
	code := renderer.blockLiteral(block)

	if language != "" {
		var highlighted strings.Builder
		err := quick.Highlight(&highlighted, code, language, "terminal256", "monokai")
		if err == nil {
			renderer.writeIndented(strings.TrimRight(highlighted.String(), "\n"))
			return
		}
	}

	style := renderer.newStyle().Foreground(renderer.theme.FaintText)
	renderer.writeIndented(style.Render(strings.TrimRight(code, "\n")))
}

func (renderer *markdownRenderer) writeIndentedCode(block *ast.CodeBlock) {
	style := renderer.newStyle().Foreground(renderer.theme.FaintText)
	renderer.writeIndented(style.Render(strings.TrimRight(renderer.blockLiteral(block), "\n")))
}

func (renderer *markdownRenderer) blockLiteral(block ast.Node) string {
	var literal strings.Builder
	lines := block.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		literal.Write(segment.Value(renderer.source))
	}
	return literal.String()
}

// writeIndented writes a multi-line chunk with a two-space margin.
func (renderer *markdownRenderer) writeIndented(content string) {
	for _, line := range strings.Split(content, "\n") {
		renderer.output.WriteString("  " + line + "\n")
	}
	renderer.output.WriteString("\n")
}
