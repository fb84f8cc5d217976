// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/lifelink/lifelink-tui/internal/history"
	"github.com/lifelink/lifelink-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// jsonExporter renders a transcript as a self-describing JSON document.
type jsonExporter struct {
	options *Options
}

// jsonDocument is the exported JSON shape. It carries its own metadata
// so a consumer never needs the storage files.
type jsonDocument struct {
	SessionID  string              `json:"sessionId"`
	SavedAt    time.Time           `json:"savedAt"`
	ExportedAt time.Time           `json:"exportedAt"`
	Messages   []model.ChatMessage `json:"messages"`
}

func (e *jsonExporter) Export(rec *history.Record) ([]byte, error) {
	if err := validate(rec); err != nil {
		return nil, err
	}

	doc := jsonDocument{
		SessionID:  rec.SessionID,
		SavedAt:    rec.Timestamp,
		ExportedAt: time.Now(),
		Messages:   rec.Messages,
	}
	return json.MarshalIndent(doc, "", "  ")
}
