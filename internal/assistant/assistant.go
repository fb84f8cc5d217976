// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant orchestrates one chat exchange: it sends the user's
// text through the chatbot transport, wraps the reply as an assistant
// message, and tracks the loading and error state the views render.
package assistant

import (
	"context"
	"strings"
	"sync"

	"github.com/lifelink/lifelink-tui/internal/chatbot"
	"github.com/lifelink/lifelink-tui/internal/format"
	"github.com/lifelink/lifelink-tui/internal/model"
)

// genericFailureMsg covers transport errors that carry no message of
// their own.
const genericFailureMsg = "Something went wrong talking to the assistant. Please try again."

// Transport is the slice of the chatbot client the assistant needs.
type Transport interface {
	SendMessage(ctx context.Context, message string, includeSources bool) (*chatbot.Reply, error)
	CheckHealth(ctx context.Context) bool
	ClearSession(sessionID string) error
}

// Assistant wraps the chat transport with loading and error state.
// Methods are safe for concurrent use; state follows last-write-wins,
// matching the single in-flight request the UI issues.
type Assistant struct {
	transport Transport

	mu      sync.RWMutex
	loading bool
	errMsg  string
}

// New creates an assistant over a transport.
func New(transport Transport) *Assistant {
	return &Assistant{transport: transport}
}

// Loading reports whether a request is in flight.
func (a *Assistant) Loading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loading
}

// Err returns the stored error message, empty when the last exchange
// succeeded.
func (a *Assistant) Err() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.errMsg
}

// ClearError drops the stored error message.
func (a *Assistant) ClearError() {
	a.mu.Lock()
	a.errMsg = ""
	a.mu.Unlock()
}

// SendMessage sends one user message and returns the assistant's
// reply. Blank input returns (nil, nil) with no state change. Failures
// store a user-facing message and also return the error so a caller
// can keep its input intact.
func (a *Assistant) SendMessage(ctx context.Context, text string) (*model.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	a.mu.Lock()
	a.loading = true
	a.errMsg = ""
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.loading = false
		a.mu.Unlock()
	}()

	reply, err := a.transport.SendMessage(ctx, text, true)
	if err != nil {
		a.mu.Lock()
		a.errMsg = messageOf(err)
		a.mu.Unlock()
		return nil, err
	}

	msg := model.NewAssistantMessage(reply.Message, reply.Timestamp)
	return &msg, nil
}

// CheckHealth probes the chatbot service, swallowing every failure
// into false.
func (a *Assistant) CheckHealth(ctx context.Context) bool {
	return a.transport.CheckHealth(ctx)
}

// ClearSession discards server-side session state for a transcript.
func (a *Assistant) ClearSession(sessionID string) error {
	return a.transport.ClearSession(sessionID)
}

// Format exposes the message formatter for views.
func (a *Assistant) Format(raw string) format.FormattedMessage {
	return format.FormatMessage(raw)
}

// Analyze exposes the content classifier for views.
func (a *Assistant) Analyze(message string) format.ContentAnalysis {
	return format.AnalyzeContent(message)
}

// messageOf extracts the user-facing message from a transport error.
func messageOf(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return genericFailureMsg
}
