// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/lifelink/lifelink-tui/internal/history"
	"github.com/lifelink/lifelink-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// markdownExporter renders a transcript as Markdown with optional YAML
// frontmatter.
type markdownExporter struct {
	options *Options
}

func (e *markdownExporter) Export(rec *history.Record) ([]byte, error) {
	if err := validate(rec); err != nil {
		return nil, err
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("session: %s\n", rec.SessionID))
		sb.WriteString(fmt.Sprintf("date: %s\n", rec.Timestamp.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(rec.Messages)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: lifelink-tui\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString("# LifeLink Assistant Conversation\n\n")

	if e.options.IncludeMetadata {
		sb.WriteString(fmt.Sprintf("- **Saved**: %s\n", formatTimestamp(rec.Timestamp)))
		sb.WriteString(fmt.Sprintf("- **Messages**: %d\n", len(rec.Messages)))
		sb.WriteString("\n---\n\n")
	}

	for i, msg := range rec.Messages {
		label := msg.Role.DisplayName()
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", label, formatShortTimestamp(msg.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}

		sb.WriteString(messageMarkdown(msg))
		sb.WriteString("\n")
		if i < len(rec.Messages)-1 {
			sb.WriteString("\n")
		}
	}

	return []byte(sb.String()), nil
}

// messageMarkdown quotes user turns so questions and answers scan apart
// in the rendered document. Assistant content is already markdown-ish.
func messageMarkdown(msg model.ChatMessage) string {
	if msg.IsUser() {
		lines := strings.Split(msg.Content, "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		return strings.Join(lines, "\n") + "\n"
	}
	return msg.Content + "\n"
}
