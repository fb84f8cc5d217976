// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/lifelink/lifelink-tui/internal/util"
)

// GreetingText is the assistant's opening message shown in a fresh
// conversation. A transcript containing only this message is not considered
// worth persisting or restoring.
const GreetingText = "Hi! I'm the LifeLink assistant. Ask me anything about " +
	"blood donation, eligibility, or how the platform works."

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an in-memory chat transcript and its session identity.
type Conversation struct {
	SessionID string        `json:"session_id"`
	StartedAt time.Time     `json:"started_at"`
	Messages  []ChatMessage `json:"messages"`
}

// NewConversation creates a conversation seeded with the assistant greeting.
func NewConversation() *Conversation {
	return &Conversation{
		SessionID: "chat_" + uuid.NewString(),
		StartedAt: time.Now(),
		Messages:  []ChatMessage{NewAssistantMessage(GreetingText, time.Now())},
	}
}

// RestoredConversation rebuilds a conversation from a persisted transcript.
func RestoredConversation(sessionID string, messages []ChatMessage) *Conversation {
	if sessionID == "" {
		sessionID = "chat_" + uuid.NewString()
	}
	return &Conversation{
		SessionID: sessionID,
		StartedAt: time.Now(),
		Messages:  messages,
	}
}

// Append adds a message to the transcript.
func (c *Conversation) Append(msg ChatMessage) {
	c.Messages = append(c.Messages, msg)
}

// MessageCount returns the number of messages in the transcript.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// HasUserActivity reports whether the user has said anything yet,
// i.e. the transcript holds more than the initial greeting.
func (c *Conversation) HasUserActivity() bool {
	return len(c.Messages) > 1
}

// Reset discards the transcript and starts over with a fresh session ID
// and greeting.
func (c *Conversation) Reset() {
	c.SessionID = "chat_" + uuid.NewString()
	c.StartedAt = time.Now()
	c.Messages = []ChatMessage{NewAssistantMessage(GreetingText, time.Now())}
}

// Preview returns a one-line preview of the first user message.
func (c *Conversation) Preview(maxRunes int) string {
	for _, msg := range c.Messages {
		if msg.IsUser() && msg.Content != "" {
			line := util.CollapseNewlines(msg.Content)
			runes := []rune(line)
			if len(runes) > maxRunes && maxRunes > 3 {
				return string(runes[:maxRunes-3]) + "..."
			}
			return line
		}
	}
	return ""
}
