// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatbot

import "time"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// chatRequest is the wire request for POST /chat.
type chatRequest struct {
	Message        string `json:"message"`
	IncludeSources bool   `json:"include_sources"`
}

// chatResponse is the wire response from POST /chat. The timestamp is
// RFC 3339; a missing or malformed one falls back to the local clock.
type chatResponse struct {
	Message   string   `json:"message"`
	Sources   []Source `json:"sources,omitempty"`
	Timestamp string   `json:"timestamp"`
}

// Source is a reference document the assistant cited.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Reply is the decoded assistant reply handed to callers.
type Reply struct {
	Message   string
	Sources   []Source
	Timestamp time.Time
}

func (r chatResponse) reply() *Reply {
	ts, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		ts = time.Now()
	}
	return &Reply{Message: r.Message, Sources: r.Sources, Timestamp: ts}
}
