// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package format turns raw assistant text into annotated rich text and
// classifies message content against the blood-donation keyword
// dictionaries. Formatting, sanitizing and analysis are pure functions;
// terminal rendering lives in render.go.
package format

import (
	"regexp"
	"strings"
)

// =============================================================================
// PERFORMANCE: Pre-compiled regex (compiled once at startup)
// =============================================================================

var (
	boldStarRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderRe  = regexp.MustCompile(`__(.+?)__`)
	italicStarRe = regexp.MustCompile(`\*(.+?)\*`)
	italicUndRe  = regexp.MustCompile(`_(.+?)_`)
	inlineCodeRe = regexp.MustCompile("`([^`\n]+)`")
	fencedRe     = regexp.MustCompile("(?s)```(?:[a-zA-Z0-9]*\n)?(.*?)```")
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	bulletRe     = regexp.MustCompile(`(?m)^[-*][ \t]+`)
	numberedRe   = regexp.MustCompile(`(?m)^\d+\.[ \t]`)
)

// FormattedMessage is the annotated rich-text form of one assistant
// message. HTML carries the same markup shapes the web chat widget
// produced, so the history payload stays interchangeable with it.
type FormattedMessage struct {
	// HTML is the transformed markup.
	HTML string

	// IsFormatted is true when any substitution other than plain line
	// breaks matched.
	IsFormatted bool

	// HasLinks is true when a markdown link was rewritten to an anchor.
	HasLinks bool

	// HasCodeBlocks is true when fenced or inline code matched.
	HasCodeBlocks bool

	// HasNumberedList flags numbered lines. Their text is kept as-is;
	// the renderer decides how to present them.
	HasNumberedList bool
}

// FormatMessage applies the markup substitutions in a fixed order.
// Bold runs before italic so doubled markers resolve correctly, and
// everything structural runs before line breaks so the break markup
// never lands inside another substitution's match.
func FormatMessage(raw string) FormattedMessage {
	out := raw
	formatted := false

	apply := func(re *regexp.Regexp, repl string) bool {
		if !re.MatchString(out) {
			return false
		}
		formatted = true
		out = re.ReplaceAllString(out, repl)
		return true
	}

	apply(boldStarRe, "<strong>$1</strong>")
	apply(boldUnderRe, "<strong>$1</strong>")
	apply(italicStarRe, "<em>$1</em>")
	apply(italicUndRe, "<em>$1</em>")
	hasCode := apply(fencedRe, "<pre>$1</pre>")
	if apply(inlineCodeRe, "<code>$1</code>") {
		hasCode = true
	}
	hasLinks := apply(linkRe, `<a href="$2" target="_blank" rel="noopener noreferrer">$1</a>`)
	apply(bulletRe, "• ")

	numbered := numberedRe.MatchString(out)
	if numbered {
		formatted = true
	}

	out = strings.ReplaceAll(out, "\n", "<br/>")

	return FormattedMessage{
		HTML:            out,
		IsFormatted:     formatted,
		HasLinks:        hasLinks,
		HasCodeBlocks:   hasCode,
		HasNumberedList: numbered,
	}
}

// =============================================================================
// SANITIZING
// =============================================================================

var (
	scriptRe  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	handlerRe = regexp.MustCompile(`(?i)\s+on\w+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)
)

// SanitizeHTML strips script tags and inline event-handler attributes.
// SECURITY: this is defense in depth for assistant-supplied markup,
// not a full sanitizer. The renderer never evaluates HTML, so the
// remaining surface is display only.
func SanitizeHTML(html string) string {
	html = scriptRe.ReplaceAllString(html, "")
	html = handlerRe.ReplaceAllString(html, "")
	return html
}
