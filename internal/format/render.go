// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package format

import (
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
)

// =============================================================================
// TERMINAL RENDERING
// =============================================================================

// terminalRenderer is the global glamour renderer for assistant
// output. USABILITY: renders replies with word wrap and styling
// matched to the terminal background.
var terminalRenderer *glamour.TermRenderer

func init() {
	var err error
	terminalRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to plain text if renderer initialization fails
		terminalRenderer = nil
	}
}

var anchorRe = regexp.MustCompile(`<a href="([^"]*)"[^>]*>(.*?)</a>`)

// RenderTerminal converts a formatted message's markup into styled
// terminal text. Rendering failures degrade to the plain markdown
// form rather than erroring; presentation must never lose a message.
func RenderTerminal(msg FormattedMessage) string {
	md := markupToMarkdown(msg.HTML)

	if terminalRenderer == nil {
		return highlightFences(md)
	}
	rendered, err := terminalRenderer.Render(md)
	if err != nil {
		return highlightFences(md)
	}
	return strings.TrimRight(rendered, "\n")
}

var fenceBlockRe = regexp.MustCompile("(?s)```\n(.*?)\n```")

// highlightFences colorizes fenced code in the degraded path where the
// full markdown renderer is unavailable. Highlighting failures leave
// the block as plain text.
func highlightFences(md string) string {
	return fenceBlockRe.ReplaceAllStringFunc(md, func(block string) string {
		code := fenceBlockRe.FindStringSubmatch(block)[1]
		var sb strings.Builder
		if err := quick.Highlight(&sb, code, "", "terminal256", "monokai"); err != nil {
			return block
		}
		return sb.String()
	})
}

// markupToMarkdown maps the widget-shaped markup back onto markdown
// for glamour. The HTML form is the storage format; the terminal form
// is derived on every render.
func markupToMarkdown(html string) string {
	out := html

	out = strings.ReplaceAll(out, "<br/>", "\n")
	out = strings.ReplaceAll(out, "<strong>", "**")
	out = strings.ReplaceAll(out, "</strong>", "**")
	out = strings.ReplaceAll(out, "<em>", "*")
	out = strings.ReplaceAll(out, "</em>", "*")
	out = strings.ReplaceAll(out, "<code>", "`")
	out = strings.ReplaceAll(out, "</code>", "`")
	out = strings.ReplaceAll(out, "<pre>", "\n```\n")
	out = strings.ReplaceAll(out, "</pre>", "\n```\n")
	out = anchorRe.ReplaceAllString(out, "[$2]($1)")
	out = strings.ReplaceAll(out, "• ", "- ")

	return out
}
