// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func renderPlain(t *testing.T, input string, width int) string {
	t.Helper()
	return ansi.Strip(renderTerminalMarkdown(input, DefaultTheme, width))
}

func TestMarkdownEmptyInput(t *testing.T) {
	if got := renderTerminalMarkdown("", DefaultTheme, 80); got != "" {
		t.Errorf("empty input rendered %q", got)
	}
}

func TestMarkdownParagraphReflow(t *testing.T) {
	// Hard-wrapped source: the soft breaks must become spaces so the
	// paragraph reflows at the render width.
	input := "one two\nthree four"
	got := renderPlain(t, input, 80)
	if !strings.Contains(got, "one two three four") {
		t.Errorf("soft break not reflowed: %q", got)
	}
}

func TestMarkdownWrapsAtWidth(t *testing.T) {
	input := strings.Repeat("word ", 30)
	got := renderPlain(t, input, 30)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 30 {
			t.Errorf("line exceeds width: %q", line)
		}
	}
}

func TestMarkdownHeading(t *testing.T) {
	got := renderPlain(t, "## Scope", 80)
	if !strings.Contains(got, "## Scope") {
		t.Errorf("heading marker missing: %q", got)
	}
}

func TestMarkdownLists(t *testing.T) {
	input := "- first\n- second\n\n1. one\n2. two"
	got := renderPlain(t, input, 80)

	for _, want := range []string{"• first", "• second", "1. one", "2. two"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestMarkdownLooseListKeepsBullets(t *testing.T) {
	// A blank line between items makes goldmark wrap item content in
	// paragraphs; the bullets must still render.
	input := "- first\n\n- second"
	got := renderPlain(t, input, 80)
	if strings.Count(got, "•") != 2 {
		t.Errorf("expected 2 bullets:\n%s", got)
	}
}

func TestMarkdownFencedCode(t *testing.T) {
	input := "```go\nfunc main() {}\n```"
	got := renderPlain(t, input, 80)
	if !strings.Contains(got, "func main() {}") {
		t.Errorf("code content missing: %q", got)
	}
}

func TestMarkdownFencedCodeUnknownLanguage(t *testing.T) {
	input := "```\nplain block\n```"
	got := renderPlain(t, input, 80)
	if !strings.Contains(got, "plain block") {
		t.Errorf("unhighlighted code missing: %q", got)
	}
}

func TestMarkdownBlockquote(t *testing.T) {
	got := renderPlain(t, "> quoted text", 80)
	if !strings.Contains(got, "│ quoted text") {
		t.Errorf("blockquote prefix missing: %q", got)
	}
}

func TestMarkdownStyledOutputCarriesANSI(t *testing.T) {
	// The renderer forces a color profile; bold emphasis must emit
	// escape sequences even without a TTY.
	got := renderTerminalMarkdown("**bold** text", DefaultTheme, 80)
	if got == ansi.Strip(got) {
		t.Error("expected ANSI styling in output")
	}
	if !strings.Contains(ansi.Strip(got), "bold text") {
		t.Errorf("content mangled: %q", ansi.Strip(got))
	}
}
