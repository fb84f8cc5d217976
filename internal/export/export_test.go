// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lifelink/lifelink-tui/internal/history"
	"github.com/lifelink/lifelink-tui/internal/model"
)

func sampleRecord() *history.Record {
	return &history.Record{
		SessionID: "chat_export",
		Timestamp: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		Messages: []model.ChatMessage{
			model.NewAssistantMessage(model.GreetingText, time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)),
			model.NewUserMessage("What is **plasma** used for?"),
			model.NewAssistantMessage("Plasma carries *nutrients* and clotting factors.", time.Date(2025, 6, 1, 10, 31, 0, 0, time.UTC)),
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"Markdown", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{"HTML", FormatHTML, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMarkdownExport(t *testing.T) {
	out, err := For(FormatMarkdown, nil).Export(sampleRecord())
	if err != nil {
		t.Fatal(err)
	}
	got := string(out)

	if !strings.Contains(got, "session: chat_export") {
		t.Error("frontmatter missing session id")
	}
	if !strings.Contains(got, "### You") || !strings.Contains(got, "### LifeLink Assistant") {
		t.Error("role headings missing")
	}
	// User turns are quoted.
	if !strings.Contains(got, "> What is **plasma** used for?") {
		t.Error("user turn not quoted")
	}
}

func TestMarkdownExportWithoutMetadata(t *testing.T) {
	opts := &Options{IncludeMetadata: false, IncludeTimestamps: false}
	out, err := For(FormatMarkdown, opts).Export(sampleRecord())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "---") {
		t.Error("frontmatter present despite IncludeMetadata=false")
	}
}

func TestJSONExportRoundTrips(t *testing.T) {
	out, err := For(FormatJSON, nil).Export(sampleRecord())
	if err != nil {
		t.Fatal(err)
	}

	var doc jsonDocument
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}
	if doc.SessionID != "chat_export" {
		t.Errorf("SessionID = %q", doc.SessionID)
	}
	if len(doc.Messages) != 3 {
		t.Errorf("exported %d messages, want 3", len(doc.Messages))
	}
	if doc.ExportedAt.IsZero() {
		t.Error("ExportedAt not set")
	}
}

func TestHTMLExportFormatsAndEscapes(t *testing.T) {
	rec := sampleRecord()
	rec.Messages = append(rec.Messages, model.NewUserMessage("<script>alert(1)</script>"))

	out, err := For(FormatHTML, nil).Export(rec)
	if err != nil {
		t.Fatal(err)
	}
	got := string(out)

	if !strings.Contains(got, "<em>nutrients</em>") {
		t.Error("assistant markup not formatted")
	}
	if strings.Contains(got, "<script>alert(1)</script>") {
		t.Error("user content not escaped")
	}
}

func TestExportRejectsEmptyRecord(t *testing.T) {
	if _, err := For(FormatMarkdown, nil).Export(nil); err == nil {
		t.Error("nil record should error")
	}
	if _, err := For(FormatJSON, nil).Export(&history.Record{SessionID: "x"}); err == nil {
		t.Error("empty record should error")
	}
}

func TestFormatExtension(t *testing.T) {
	if FormatMarkdown.Extension() != ".md" || FormatJSON.Extension() != ".json" || FormatHTML.Extension() != ".html" {
		t.Error("unexpected extension mapping")
	}
}
