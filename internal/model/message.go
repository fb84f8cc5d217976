// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "LifeLink Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// CHAT MESSAGE TYPE
// =============================================================================

// ChatMessage is a single message in a chatbot conversation.
// Messages are immutable once created; an ordered slice forms a transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserMessage creates a new user message stamped with the current time.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string, ts time.Time) ChatMessage {
	if ts.IsZero() {
		ts = time.Now()
	}
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: ts,
	}
}

// IsUser reports whether the message was sent by the user.
func (m ChatMessage) IsUser() bool {
	return m.Role == RoleUser
}
