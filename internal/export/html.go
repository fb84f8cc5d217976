// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/lifelink/lifelink-tui/internal/format"
	"github.com/lifelink/lifelink-tui/internal/history"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// htmlExporter renders a transcript as a standalone HTML page.
// Assistant content goes through the message formatter, then the
// sanitizer, so exported markup carries no active content.
type htmlExporter struct {
	options *Options
}

func (e *htmlExporter) Export(rec *history.Record) ([]byte, error) {
	if err := validate(rec); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString("<title>LifeLink Assistant Conversation</title>\n")
	sb.WriteString("<style>\n")
	sb.WriteString("body { font-family: sans-serif; max-width: 42rem; margin: 2rem auto; padding: 0 1rem; }\n")
	sb.WriteString(".msg { border-radius: 8px; padding: 0.75rem 1rem; margin: 0.75rem 0; }\n")
	sb.WriteString(".user { background: #dbeafe; }\n")
	sb.WriteString(".assistant { background: #fff1f2; }\n")
	sb.WriteString(".meta { color: #6b7280; font-size: 0.8rem; }\n")
	sb.WriteString("</style>\n</head>\n<body>\n")

	sb.WriteString("<h1>LifeLink Assistant Conversation</h1>\n")
	if e.options.IncludeMetadata {
		sb.WriteString(fmt.Sprintf("<p class=\"meta\">Saved %s, %d messages</p>\n",
			html.EscapeString(formatTimestamp(rec.Timestamp)), len(rec.Messages)))
	}

	for _, msg := range rec.Messages {
		class := "assistant"
		if msg.IsUser() {
			class = "user"
		}

		sb.WriteString(fmt.Sprintf("<div class=\"msg %s\">\n", class))
		label := html.EscapeString(msg.Role.DisplayName())
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("<p class=\"meta\">%s &middot; %s</p>\n",
				label, formatShortTimestamp(msg.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("<p class=\"meta\">%s</p>\n", label))
		}

		if msg.IsUser() {
			sb.WriteString("<p>" + html.EscapeString(msg.Content) + "</p>\n")
		} else {
			// SECURITY: formatter output is markup-shaped; sanitize it
			// before embedding in a document browsers will open.
			formatted := format.FormatMessage(msg.Content)
			sb.WriteString("<p>" + format.SanitizeHTML(formatted.HTML) + "</p>\n")
		}
		sb.WriteString("</div>\n")
	}

	sb.WriteString("</body>\n</html>\n")
	return []byte(sb.String()), nil
}
