// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelink/lifelink-tui/internal/credential"
	"github.com/lifelink/lifelink-tui/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *credential.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	creds := credential.NewStore(t.TempDir())
	return NewClient(srv.URL, 5*time.Second, creds), creds
}

func TestClient_Register_Multipart(t *testing.T) {
	avatar := filepath.Join(t.TempDir(), "avatar.png")
	require.NoError(t, os.WriteFile(avatar, []byte("png-bytes"), 0o644))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/register", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Ada", r.FormValue("name"))
		assert.Equal(t, "hospital", r.FormValue("role"))

		f, hdr, err := r.FormFile("profile")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "avatar.png", hdr.Filename)

		writeEnvelope(w, http.StatusCreated, map[string]interface{}{
			"user":        model.User{ID: "u9", Name: "Ada"},
			"accessToken": "fresh-token",
		}, "Registered")
	})

	client, creds := newTestClient(t, mux)

	user, err := client.Register(context.Background(), RegisterForm{
		Name:        "Ada",
		Email:       "ada@example.org",
		Password:    "pw",
		Role:        model.RoleHospital,
		ProfilePath: avatar,
	})
	require.NoError(t, err)
	assert.Equal(t, "u9", user.ID)
	assert.Equal(t, "fresh-token", creds.Token())
}

func TestClient_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/current-user", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusForbidden, nil, "jwt malformed")
	})

	client, _ := newTestClient(t, mux)

	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "jwt malformed", apiErr.Message)
	assert.True(t, IsUnauthorized(err))
}

func TestIsUnauthorized(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain 401", &APIError{Status: 401}, true},
		{"plain 403", &APIError{Status: 403}, true},
		{"server error", &APIError{Status: 500}, false},
		{"not api error", os.ErrNotExist, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnauthorized(tt.err))
		})
	}
}
