// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credential is the single read/write boundary for the persisted
// credential blob. Every other package that needs the signed-in user or the
// bearer token goes through a Store rather than touching storage keys
// directly.
package credential

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lifelink/lifelink-tui/internal/model"
	"github.com/lifelink/lifelink-tui/internal/util"
)

// blobFile is the on-disk name of the credential blob.
const blobFile = "credentials.json"

// ErrNotFound is returned by Load when no credential has been persisted.
// A missing blob is the normal logged-out state, not a failure.
var ErrNotFound = errors.New("no stored credential")

// =============================================================================
// CREDENTIAL TYPE
// =============================================================================

// Credential is the persisted authentication artifact: the bearer token the
// auth API issued and the user it belongs to.
type Credential struct {
	Token   string     `json:"token"`
	User    model.User `json:"user"`
	SavedAt time.Time  `json:"saved_at"`
}

// TokenExpired reports whether the embedded JWT carries an exp claim in the
// past. The token is decoded without signature verification; the server
// remains the authority and a stale-looking token is merely a hint to
// re-authenticate early.
func (c *Credential) TokenExpired(now time.Time) bool {
	if c == nil || c.Token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(c.Token, claims); err != nil {
		// Opaque (non-JWT) tokens never look expired client-side.
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

// =============================================================================
// CREDENTIAL STORE
// =============================================================================

// Store persists the credential blob under a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// path returns the blob file path.
func (s *Store) path() string {
	return filepath.Join(s.dir, blobFile)
}

// Load reads the persisted credential. Returns ErrNotFound when no blob
// exists; any other error means the blob is unreadable or corrupt.
func (s *Store) Load() (*Credential, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

// Save writes the credential blob atomically with owner-only permissions.
func (s *Store) Save(cred *Credential) error {
	cred.SavedAt = time.Now()

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return err
	}

	// SECURITY: 0600 - the blob holds a bearer token.
	return util.AtomicWriteFile(s.path(), data, 0600)
}

// Clear removes the persisted credential. Removing an absent blob succeeds.
func (s *Store) Clear() error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Token returns the stored bearer token, or "" when logged out. Corrupt or
// missing blobs both read as logged-out; callers that need the distinction
// use Load.
func (s *Store) Token() string {
	cred, err := s.Load()
	if err != nil {
		return ""
	}
	return cred.Token
}
