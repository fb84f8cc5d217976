// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export converts a saved conversation into shareable formats.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/lifelink/lifelink-tui/internal/history"
)

// Format identifies an output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
)

// ParseFormat maps user input to a format, accepting common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want markdown, json, or html)", s)
	}
}

// Extension returns the conventional file extension for a format.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatHTML:
		return ".html"
	default:
		return ".md"
	}
}

// Options controls what the exporters include.
type Options struct {
	IncludeMetadata   bool
	IncludeTimestamps bool
}

// DefaultOptions includes everything.
func DefaultOptions() *Options {
	return &Options{IncludeMetadata: true, IncludeTimestamps: true}
}

// Exporter converts a saved conversation record into one format.
type Exporter interface {
	Export(rec *history.Record) ([]byte, error)
}

// For returns the exporter for a format.
func For(format Format, opts *Options) Exporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	switch format {
	case FormatJSON:
		return &jsonExporter{options: opts}
	case FormatHTML:
		return &htmlExporter{options: opts}
	default:
		return &markdownExporter{options: opts}
	}
}

// validate rejects records no exporter can do anything with.
func validate(rec *history.Record) error {
	if rec == nil {
		return fmt.Errorf("no conversation to export")
	}
	if len(rec.Messages) == 0 {
		return fmt.Errorf("conversation has no messages")
	}
	return nil
}

// formatTimestamp renders a full timestamp for metadata sections.
func formatTimestamp(t time.Time) string {
	return t.Format("January 2, 2006 at 3:04 PM")
}

// formatShortTimestamp renders a compact per-message timestamp.
func formatShortTimestamp(t time.Time) string {
	return t.Format("15:04:05")
}
