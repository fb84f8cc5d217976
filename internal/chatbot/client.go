// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatbot provides the HTTP client for the LifeLink chat
// assistant service.
package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lifelink/lifelink-tui/internal/credential"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the chatbot client. Message is
// the user-facing string shown in the chat view.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeEmptyMessage
	ErrTypeTimeout
	ErrTypeConnection
	ErrTypeServer
	ErrTypeNotFound
	ErrTypeInvalidResponse
)

// User-facing strings. TimeoutMessage is load-bearing: the chat view
// shows it verbatim, so the wording is stable.
const (
	TimeoutMessage    = "Request timeout. Please try again."
	ConnectionMessage = "Cannot reach the chat assistant. Please make sure the chatbot service is running."
	ServerMessage     = "The chat assistant hit a server error. Please try again later."
	NotFoundMessage   = "Chat endpoint not found. Please check the chatbot service configuration."
)

// Sentinel errors for easy checking.
var (
	ErrEmptyMessage = &ClientError{Type: ErrTypeEmptyMessage, Message: "message is empty"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: TimeoutMessage}
	ErrConnection   = &ClientError{Type: ErrTypeConnection, Message: ConnectionMessage}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the chatbot client.
type ClientConfig struct {
	// BaseURL is the chatbot service base URL (default: http://127.0.0.1:8001)
	BaseURL string

	// FallbackHealthURL is the absolute URL probed when the primary
	// health endpoint fails (default: the hosted LifeLink assistant).
	FallbackHealthURL string

	// Timeout for chat requests (default: 30s)
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://127.0.0.1:8001",
		FallbackHealthURL: "https://chat.lifelink.example",
		Timeout:           30 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the chatbot service. It attaches
// the bearer token from the credential store when one is persisted.
//
// The Client is thread-safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	creds      *credential.Store

	// RELIABILITY: health probes are rate limited so a redrawing UI
	// cannot hammer the service. When the limiter denies a probe the
	// last observed result is returned instead.
	probes *rate.Limiter

	mu          sync.Mutex
	lastHealthy bool
}

// NewClient creates a chatbot client. A nil config uses defaults; zero
// fields are filled in.
func NewClient(config *ClientConfig, creds *credential.Store) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8001"
	}
	if config.FallbackHealthURL == "" {
		config.FallbackHealthURL = "https://chat.lifelink.example"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		creds:  creds,
		probes: rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// SendMessage posts a user message and returns the assistant's reply.
// Empty or whitespace-only input returns ErrEmptyMessage without a
// network call.
func (c *Client) SendMessage(ctx context.Context, message string, includeSources bool) (*Reply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	reqBody := chatRequest{Message: message, IncludeSources: includeSources}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: ConnectionMessage, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, classifyStatusError(resp)
	}

	var cr chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&cr); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return cr.reply(), nil
}

// CheckHealth probes the primary health endpoint, then the fallback.
// It reports true if either answers with a success status and never
// returns an error.
func (c *Client) CheckHealth(ctx context.Context) bool {
	c.mu.Lock()
	last := c.lastHealthy
	c.mu.Unlock()

	if !c.probes.Allow() {
		return last
	}

	healthy := c.probe(ctx, c.config.BaseURL+"/chat/health") ||
		c.probe(ctx, c.config.FallbackHealthURL+"/health")

	c.mu.Lock()
	c.lastHealthy = healthy
	c.mu.Unlock()
	return healthy
}

// probe issues one GET and reports success status. All failures,
// transport or HTTP, count as unhealthy.
func (c *Client) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// ClearSession discards a chat session. The service keeps no per
// session state, so this is a local no-op kept for interface symmetry
// with history clearing.
func (c *Client) ClearSession(sessionID string) error {
	return nil
}

// setAuth attaches the persisted bearer token if one exists.
func (c *Client) setAuth(req *http.Request) {
	if c.creds == nil {
		return
	}
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// =============================================================================
// ERROR CLASSIFICATION
// =============================================================================

// classifyTransportError maps a failed round trip onto a user-facing
// error. Timeout wins over connection failure when both apply.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return &ClientError{Type: ErrTypeConnection, Message: ConnectionMessage, Cause: err}
}

// classifyStatusError maps an HTTP error status onto a user-facing
// error, preferring a server-supplied detail message when neither of
// the fixed mappings applies.
func classifyStatusError(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 500:
		return &ClientError{Type: ErrTypeServer, Message: ServerMessage}
	case resp.StatusCode == http.StatusNotFound:
		return &ClientError{Type: ErrTypeNotFound, Message: NotFoundMessage}
	}

	var detail struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&detail); err == nil {
		if detail.Detail != "" {
			return &ClientError{Type: ErrTypeUnknown, Message: detail.Detail}
		}
		if detail.Message != "" {
			return &ClientError{Type: ErrTypeUnknown, Message: detail.Message}
		}
	}
	return &ClientError{Type: ErrTypeUnknown, Message: "chat request failed: " + resp.Status}
}
