// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the client for the LifeLink platform's REST auth API
// and the in-memory session store built on top of it.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lifelink/lifelink-tui/internal/credential"
	"github.com/lifelink/lifelink-tui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// APIError represents an error response from the auth API.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("auth request failed: HTTP %d", e.Status)
}

// IsUnauthorized reports whether an error is a 401/403-class auth failure.
// This is the expected not-logged-in signal, not a real fault.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
	}
	return false
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the platform's REST auth API.
//
// The API wraps every response in an envelope:
//
//	{ "statusCode": 200, "data": ..., "message": "...", "success": true }
//
// The Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      *credential.Store
}

// NewClient creates an auth API client. The credential store supplies the
// bearer token for authenticated calls and receives the token issued on
// login or registration.
func NewClient(baseURL string, timeout time.Duration, creds *credential.Store) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		creds:      creds,
	}
}

// envelope is the generic API response wrapper.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

// sessionData is the login/register payload: the account plus its token.
type sessionData struct {
	User  model.User `json:"user"`
	Token string     `json:"accessToken"`
}

// setHeaders attaches the bearer token (when one is stored) to a request.
func (c *Client) setHeaders(req *http.Request) {
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// do executes a request and decodes the envelope. Non-2xx responses become
// an *APIError carrying the server-provided message when present.
func (c *Client) do(req *http.Request, out interface{}) error {
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Never log headers or bodies; they may carry the token or PII.
	log.Printf("auth api: %s %s -> %d (%v)", req.Method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	var env envelope
	if jsonErr := json.Unmarshal(body, &env); jsonErr != nil && resp.StatusCode < 400 {
		return fmt.Errorf("failed to decode response: %w", jsonErr)
	}

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

// CurrentUser resolves the account behind the stored credential.
// An *APIError with a 401/403 status signals the expected logged-out state.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/current-user", nil)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := c.do(req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates with email and password. On success the issued token
// and user are written through the credential store.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/login", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var data sessionData
	if err := c.do(req, &data); err != nil {
		return nil, err
	}

	if err := c.creds.Save(&credential.Credential{Token: data.Token, User: data.User}); err != nil {
		// The session is live even if persistence failed; the user just
		// will not survive a restart.
		log.Printf("failed to persist credential: %v", err)
	}
	return &data.User, nil
}

// RegisterForm carries the multipart fields for account creation.
type RegisterForm struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     model.AccountRole

	// ProfilePath optionally points at an avatar image to upload.
	ProfilePath string
}

// Register creates an account. The API takes multipart form data because the
// form may include a profile image.
func (c *Client) Register(ctx context.Context, form RegisterForm) (*model.User, error) {
	fields := map[string]string{
		"name":     form.Name,
		"email":    form.Email,
		"password": form.Password,
		"phone":    form.Phone,
		"role":     form.Role.String(),
	}

	body, contentType, err := encodeMultipart(fields, "profile", form.ProfilePath)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/register", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var data sessionData
	if err := c.do(req, &data); err != nil {
		return nil, err
	}

	if data.Token != "" {
		if err := c.creds.Save(&credential.Credential{Token: data.Token, User: data.User}); err != nil {
			log.Printf("failed to persist credential: %v", err)
		}
	}
	return &data.User, nil
}

// UpdateForm carries the multipart fields for profile updates. Empty fields
// are omitted and left unchanged server-side.
type UpdateForm struct {
	Name        string
	Phone       string
	ProfilePath string
}

// UpdateAccount updates the signed-in account's profile.
func (c *Client) UpdateAccount(ctx context.Context, form UpdateForm) (*model.User, error) {
	fields := map[string]string{}
	if form.Name != "" {
		fields["name"] = form.Name
	}
	if form.Phone != "" {
		fields["phone"] = form.Phone
	}

	body, contentType, err := encodeMultipart(fields, "profile", form.ProfilePath)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/users/update-account", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var user model.User
	if err := c.do(req, &user); err != nil {
		return nil, err
	}

	// Keep the persisted blob in step with the server's view.
	if cred, loadErr := c.creds.Load(); loadErr == nil {
		cred.User = user
		if err := c.creds.Save(cred); err != nil {
			log.Printf("failed to persist credential: %v", err)
		}
	}
	return &user, nil
}

// Logout invalidates the server-side session. The local credential blob is
// cleared by the caller regardless of the remote outcome.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/logout", nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// =============================================================================
// MULTIPART HELPERS
// =============================================================================

// encodeMultipart builds a multipart body from string fields plus an optional
// file part. filePath may be empty.
func encodeMultipart(fields map[string]string, fileField, filePath string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", err
		}
	}

	if filePath != "" {
		f, err := os.Open(filePath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s: %w", filePath, err)
		}
		defer f.Close()

		part, err := w.CreateFormFile(fileField, filepath.Base(filePath))
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
