// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists the chat transcript locally with a
// time-to-live. Persistence is best-effort: the chat must keep working
// when the disk does not, so write and clear failures are logged and
// swallowed.
package history

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lifelink/lifelink-tui/internal/model"
	"github.com/lifelink/lifelink-tui/internal/util"
)

const (
	// historyFile holds the serialized transcript payload.
	historyFile = "chat_history.json"

	// markerFile holds the save instant as Unix milliseconds. Kept
	// separate from the payload so expiry can be checked without
	// parsing the transcript.
	markerFile = "chat_history_timestamp"

	// DefaultTTL is how long a saved transcript stays loadable.
	DefaultTTL = 24 * time.Hour

	// DefaultMaxMessages bounds the persisted transcript. Oldest
	// messages are dropped on save.
	DefaultMaxMessages = 100
)

// Record is one persisted transcript.
type Record struct {
	Messages  []model.ChatMessage `json:"messages"`
	SessionID string              `json:"sessionId"`
	Timestamp time.Time           `json:"timestamp"`
}

// Store reads and writes the transcript under a directory.
type Store struct {
	dir         string
	ttl         time.Duration
	maxMessages int

	// now is the clock, swappable in tests.
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the expiry window.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxMessages overrides the persisted transcript bound.
func WithMaxMessages(n int) Option {
	return func(s *Store) {
		if n > 1 {
			s.maxMessages = n
		}
	}
}

// WithClock overrides the clock. Tests use this to age records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a history store rooted at dir.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:         dir,
		ttl:         DefaultTTL,
		maxMessages: DefaultMaxMessages,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) historyPath() string {
	return filepath.Join(s.dir, historyFile)
}

func (s *Store) markerPath() string {
	return filepath.Join(s.dir, markerFile)
}

// =============================================================================
// SAVE / LOAD
// =============================================================================

// Save persists the transcript. Failures are logged only; the chat
// session continues without persistence.
func (s *Store) Save(messages []model.ChatMessage, sessionID string) {
	if len(messages) > s.maxMessages {
		messages = messages[len(messages)-s.maxMessages:]
	}

	now := s.now()
	rec := Record{Messages: messages, SessionID: sessionID, Timestamp: now}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		log.Printf("history: failed to encode transcript: %v", err)
		return
	}

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		log.Printf("history: failed to create directory: %v", err)
		return
	}
	if err := util.AtomicWriteFile(s.historyPath(), data, 0600); err != nil {
		log.Printf("history: failed to write transcript: %v", err)
		return
	}

	marker := strconv.FormatInt(now.UnixMilli(), 10)
	if err := util.AtomicWriteFile(s.markerPath(), []byte(marker), 0600); err != nil {
		log.Printf("history: failed to write timestamp marker: %v", err)
	}
}

// Load returns the persisted transcript, or nil when there is none.
// Expired and malformed records are cleared as a side effect so the
// next load starts clean.
func (s *Store) Load() *Record {
	data, err := os.ReadFile(s.historyPath())
	if err != nil {
		return nil
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil || rec.Messages == nil {
		log.Printf("history: clearing malformed transcript")
		s.Clear()
		return nil
	}

	if s.now().Sub(s.savedAt(&rec)) > s.ttl {
		s.Clear()
		return nil
	}

	return &rec
}

// savedAt prefers the marker file, falling back to the record's own
// timestamp when the marker is missing or unreadable.
func (s *Store) savedAt(rec *Record) time.Time {
	data, err := os.ReadFile(s.markerPath())
	if err == nil {
		if ms, perr := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64); perr == nil {
			return time.UnixMilli(ms)
		}
	}
	return rec.Timestamp
}

// HasValidHistory reports whether a valid transcript with more than
// one message is stored. A single message is just the greeting and not
// worth restoring.
func (s *Store) HasValidHistory() bool {
	rec := s.Load()
	return rec != nil && len(rec.Messages) > 1
}

// TimeRemaining returns the whole hours left before the stored
// transcript expires, floored at zero. Zero also means no transcript.
func (s *Store) TimeRemaining() int {
	rec := s.Load()
	if rec == nil {
		return 0
	}

	left := s.ttl - s.now().Sub(s.savedAt(rec))
	if left < 0 {
		return 0
	}
	return int(left.Hours())
}

// Clear removes the transcript and its marker. Failures are swallowed;
// a leftover file simply expires on its own.
func (s *Store) Clear() {
	if err := os.Remove(s.historyPath()); err != nil && !os.IsNotExist(err) {
		log.Printf("history: failed to remove transcript: %v", err)
	}
	if err := os.Remove(s.markerPath()); err != nil && !os.IsNotExist(err) {
		log.Printf("history: failed to remove timestamp marker: %v", err)
	}
}
