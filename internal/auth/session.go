// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lifelink/lifelink-tui/internal/credential"
	"github.com/lifelink/lifelink-tui/internal/model"
)

// Generic fallback messages, used when the server does not provide one.
const (
	loginFailedMsg    = "Login failed. Please check your credentials and try again."
	registerFailedMsg = "Registration failed. Please try again."
	updateFailedMsg   = "Could not update your account. Please try again."
	logoutFailedMsg   = "Logout failed. Your local session has been cleared."
	restoreFailedMsg  = "Could not restore your session. Please log in again."
)

// =============================================================================
// SESSION STORE
// =============================================================================

// Session is the client-side authentication state: the current user, a
// loading flag while an operation is in flight, and the last error message.
//
// Invariant: IsLoggedIn() is true exactly when a user is present.
//
// Login, Register, and UpdateAccount store the failure message AND return the
// error so callers can react (keep a form open, re-prompt). Logout and
// Restore never re-raise: a failed logout still clears local state, and a
// 401 on restore is the expected logged-out case.
type Session struct {
	mu      sync.Mutex
	user    *model.User
	loading bool
	errMsg  string

	client *Client
	creds  *credential.Store
}

// NewSession creates a session store backed by the auth client.
func NewSession(client *Client, creds *credential.Store) *Session {
	return &Session{client: client, creds: creds}
}

// =============================================================================
// STATE ACCESSORS
// =============================================================================

// User returns a copy of the current user, or nil when logged out.
func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsLoggedIn reports whether a user is present.
func (s *Session) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Loading reports whether an operation is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last error message, or "" when none.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// ClearError resets the error without touching user or loading state.
func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

// begin marks an operation in flight and clears the previous error.
func (s *Session) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
}

// finish stores the outcome and clears the loading flag.
func (s *Session) finish(user *model.User, errMsg string) {
	s.mu.Lock()
	if user != nil {
		s.user = user
	}
	s.errMsg = errMsg
	s.loading = false
	s.mu.Unlock()
}

// messageOf extracts a server-provided message, else the fallback.
func messageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Restore attempts a silent sign-in from the persisted credential, the
// on-mount behavior. A missing blob or an unauthorized response resolves to
// the logged-out state with no error; any other failure records a message.
// Restore never returns an error to the caller.
func (s *Session) Restore(ctx context.Context) {
	s.begin()

	// No blob means nothing to restore; skip the network round trip.
	cred, err := s.creds.Load()
	if err != nil {
		s.finish(nil, "")
		s.setUser(nil)
		return
	}

	// A token that already reads expired would only earn a 401; drop the
	// blob locally and resolve logged-out without the round trip.
	if cred.TokenExpired(time.Now()) {
		_ = s.creds.Clear()
		s.finish(nil, "")
		s.setUser(nil)
		return
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		if IsUnauthorized(err) {
			// Expected not-logged-in state. Drop the stale blob quietly.
			_ = s.creds.Clear()
			s.finish(nil, "")
		} else {
			s.finish(nil, restoreFailedMsg)
		}
		s.setUser(nil)
		return
	}

	s.finish(user, "")
}

// setUser forces the user field, including back to nil. finish only ever
// sets a non-nil user, so logout paths need this.
func (s *Session) setUser(user *model.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// Login authenticates and stores the resulting user. On failure the server
// message (or a generic fallback) is recorded and the error is returned.
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.begin()

	user, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.finish(nil, messageOf(err, loginFailedMsg))
		return err
	}

	s.finish(user, "")
	return nil
}

// Register creates an account and signs the user in.
func (s *Session) Register(ctx context.Context, form RegisterForm) error {
	s.begin()

	user, err := s.client.Register(ctx, form)
	if err != nil {
		s.finish(nil, messageOf(err, registerFailedMsg))
		return err
	}

	s.finish(user, "")
	return nil
}

// UpdateAccount updates the signed-in user's profile.
func (s *Session) UpdateAccount(ctx context.Context, form UpdateForm) error {
	s.begin()

	user, err := s.client.UpdateAccount(ctx, form)
	if err != nil {
		s.finish(nil, messageOf(err, updateFailedMsg))
		return err
	}

	s.finish(user, "")
	return nil
}

// Logout signs out. The remote call is best-effort: local state and the
// persisted blob are cleared even when it fails, and no error escapes.
func (s *Session) Logout(ctx context.Context) {
	s.begin()

	err := s.client.Logout(ctx)
	_ = s.creds.Clear()

	if err != nil {
		s.finish(nil, logoutFailedMsg)
	} else {
		s.finish(nil, "")
	}
	s.setUser(nil)
}
