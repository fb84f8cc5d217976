// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelink/lifelink-tui/internal/credential"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds := credential.NewStore(t.TempDir())
	require.NoError(t, creds.Save(&credential.Credential{Token: "tok"}))
	return NewClient(srv.URL, 5*time.Second, creds)
}

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

func TestListEvents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, []Event{
			{ID: "e1", Title: "City Drive", Location: "Central Hall", Capacity: 40},
		}, "")
	})

	events, err := newTestClient(t, mux).ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "City Drive", events[0].Title)
}

func TestListBloodRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /blood-requests", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, []BloodRequest{
			{ID: "r1", BloodType: "O-", Units: 3, Urgency: "high", Status: "open"},
		}, "")
	})

	reqs, err := newTestClient(t, mux).ListBloodRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "O-", reqs[0].BloodType)
}

func TestDeleteEvent_ServerMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /events/e1", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusForbidden, nil, "Only organisers can delete events")
	})

	err := newTestClient(t, mux).DeleteEvent(context.Background(), "e1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Only organisers can delete events")
}

func TestUpdateBloodRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /blood-requests/r1", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "fulfilled", body["status"])

		writeEnvelope(w, http.StatusOK, BloodRequest{ID: "r1", Status: "fulfilled"}, "")
	})

	updated, err := newTestClient(t, mux).UpdateBloodRequest(context.Background(), "r1", "fulfilled")
	require.NoError(t, err)
	assert.Equal(t, "fulfilled", updated.Status)
}
