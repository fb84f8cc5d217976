// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelink/lifelink-tui/internal/credential"
	"github.com/lifelink/lifelink-tui/internal/model"
)

// newTestSession wires a session against a test server and a temp credential
// store.
func newTestSession(t *testing.T, handler http.Handler) (*Session, *credential.Store, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds := credential.NewStore(t.TempDir())
	client := NewClient(srv.URL, 5*time.Second, creds)
	return NewSession(client, creds), creds, srv
}

// writeEnvelope writes the API's response wrapper.
func writeEnvelope(w http.ResponseWriter, status int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"statusCode": status,
		"data":       data,
		"message":    message,
		"success":    status < 400,
	})
}

// =============================================================================
// LOGIN TESTS
// =============================================================================

func TestSession_Login_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "donor@example.org", body["email"])

		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"user":        model.User{ID: "u1", Email: "donor@example.org", Role: model.RoleDonor},
			"accessToken": "token-123",
		}, "Logged in")
	})

	sess, creds, _ := newTestSession(t, mux)

	err := sess.Login(context.Background(), "donor@example.org", "hunter2")
	require.NoError(t, err)

	assert.True(t, sess.IsLoggedIn())
	assert.False(t, sess.Loading())
	assert.Equal(t, "", sess.Err())
	assert.Equal(t, "u1", sess.User().ID)

	// The issued token must be persisted through the credential store.
	assert.Equal(t, "token-123", creds.Token())
}

func TestSession_Login_ServerMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil, "Invalid credentials")
	})

	sess, _, _ := newTestSession(t, mux)

	err := sess.Login(context.Background(), "donor@example.org", "wrong")
	require.Error(t, err)

	assert.Equal(t, "Invalid credentials", sess.Err())
	assert.False(t, sess.Loading())
	assert.False(t, sess.IsLoggedIn())
	assert.Nil(t, sess.User())
}

func TestSession_Login_GenericFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	sess, _, _ := newTestSession(t, mux)

	err := sess.Login(context.Background(), "donor@example.org", "pw")
	require.Error(t, err)
	assert.Equal(t, loginFailedMsg, sess.Err())
}

// =============================================================================
// RESTORE TESTS
// =============================================================================

func TestSession_Restore_NoCredential(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/current-user", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	sess, _, _ := newTestSession(t, mux)
	sess.Restore(context.Background())

	assert.False(t, called, "restore without a blob must not hit the network")
	assert.False(t, sess.IsLoggedIn())
	assert.Equal(t, "", sess.Err())
	assert.False(t, sess.Loading())
}

func TestSession_Restore_Unauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/current-user", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil, "jwt expired")
	})

	sess, creds, _ := newTestSession(t, mux)
	require.NoError(t, creds.Save(&credential.Credential{Token: "stale"}))

	sess.Restore(context.Background())

	// Unauthorized is the expected logged-out state: no error surfaced.
	assert.False(t, sess.IsLoggedIn())
	assert.Equal(t, "", sess.Err())

	// The stale blob is dropped.
	assert.Equal(t, "", creds.Token())
}

func TestSession_Restore_ServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/current-user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	sess, creds, _ := newTestSession(t, mux)
	require.NoError(t, creds.Save(&credential.Credential{Token: "tok"}))

	sess.Restore(context.Background())

	assert.False(t, sess.IsLoggedIn())
	assert.Equal(t, restoreFailedMsg, sess.Err())
}

func TestSession_Restore_Success_SendsBearer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/current-user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, model.User{ID: "u1", Role: model.RoleHospital}, "")
	})

	sess, creds, _ := newTestSession(t, mux)
	require.NoError(t, creds.Save(&credential.Credential{Token: "tok"}))

	sess.Restore(context.Background())

	require.True(t, sess.IsLoggedIn())
	assert.Equal(t, model.RoleHospital, sess.User().Role)
}

// =============================================================================
// LOGOUT TESTS
// =============================================================================

func TestSession_Logout_BestEffort(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	mux.HandleFunc("GET /users/current-user", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, model.User{ID: "u1"}, "")
	})

	sess, creds, _ := newTestSession(t, mux)
	require.NoError(t, creds.Save(&credential.Credential{Token: "tok"}))
	sess.Restore(context.Background())
	require.True(t, sess.IsLoggedIn())

	sess.Logout(context.Background())

	// Remote failure still clears local state; only a message is recorded.
	assert.False(t, sess.IsLoggedIn())
	assert.Equal(t, logoutFailedMsg, sess.Err())
	assert.Equal(t, "", creds.Token())
	assert.False(t, sess.Loading())
}

func TestSession_Logout_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/logout", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, nil, "Logged out")
	})

	sess, creds, _ := newTestSession(t, mux)
	require.NoError(t, creds.Save(&credential.Credential{Token: "tok"}))

	sess.Logout(context.Background())

	assert.False(t, sess.IsLoggedIn())
	assert.Equal(t, "", sess.Err())
	assert.Equal(t, "", creds.Token())
}

// =============================================================================
// ERROR STATE TESTS
// =============================================================================

func TestSession_ClearError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil, "Invalid credentials")
	})

	sess, _, _ := newTestSession(t, mux)
	_ = sess.Login(context.Background(), "a@b.c", "x")
	require.NotEqual(t, "", sess.Err())

	sess.ClearError()
	assert.Equal(t, "", sess.Err())
	assert.False(t, sess.IsLoggedIn())
}

// =============================================================================
// REGISTER AND UPDATE TESTS
// =============================================================================

func TestSession_Register_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/register", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Asha", r.FormValue("name"))
		assert.Equal(t, "donor", r.FormValue("role"))

		writeEnvelope(w, http.StatusCreated, map[string]interface{}{
			"user":        model.User{ID: "u2", Name: "Asha", Role: model.RoleDonor},
			"accessToken": "token-456",
		}, "Account created")
	})

	sess, creds, _ := newTestSession(t, mux)

	err := sess.Register(context.Background(), RegisterForm{
		Name:     "Asha",
		Email:    "asha@example.org",
		Password: "hunter2",
		Role:     model.RoleDonor,
	})
	require.NoError(t, err)

	assert.True(t, sess.IsLoggedIn())
	assert.Equal(t, "u2", sess.User().ID)
	assert.Equal(t, "token-456", creds.Token())
}

func TestSession_Register_ServerMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/register", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusConflict, nil, "Email already registered")
	})

	sess, _, _ := newTestSession(t, mux)

	err := sess.Register(context.Background(), RegisterForm{Email: "asha@example.org"})
	require.Error(t, err)

	assert.Equal(t, "Email already registered", sess.Err())
	assert.False(t, sess.IsLoggedIn())
}

func TestSession_UpdateAccount_ServerMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /users/update-account", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, nil, "Phone number is invalid")
	})

	sess, _, _ := newTestSession(t, mux)

	err := sess.UpdateAccount(context.Background(), UpdateForm{Phone: "not-a-number"})
	require.Error(t, err)

	assert.Equal(t, "Phone number is invalid", sess.Err())
	assert.False(t, sess.Loading())
}

func TestSession_Restore_ExpiredToken(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/current-user", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	sess, creds, _ := newTestSession(t, mux)

	claims := jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	require.NoError(t, creds.Save(&credential.Credential{Token: token}))

	sess.Restore(context.Background())

	// The doomed round trip is skipped and the stale blob dropped.
	assert.False(t, called)
	assert.False(t, sess.IsLoggedIn())
	assert.Equal(t, "", sess.Err())
	assert.Equal(t, "", creds.Token())
}
