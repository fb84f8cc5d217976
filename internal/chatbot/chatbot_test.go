// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatbot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lifelink/lifelink-tui/internal/credential"
)

func newTestClient(t *testing.T, handler http.Handler, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds := credential.NewStore(t.TempDir())
	return NewClient(&ClientConfig{
		BaseURL:           srv.URL,
		FallbackHealthURL: srv.URL + "/fallback",
		Timeout:           timeout,
	}, creds)
}

func TestSendMessage_EmptyInput(t *testing.T) {
	called := false
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}), 5*time.Second)

	for _, msg := range []string{"", "   ", "\n\t "} {
		if _, err := client.SendMessage(context.Background(), msg, true); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("SendMessage(%q) error = %v, want ErrEmptyMessage", msg, err)
		}
	}
	if called {
		t.Error("empty input must not reach the network")
	}
}

func TestSendMessage_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"message": "Donating blood takes about an hour.",
			"sources": [{"title": "Donation FAQ", "url": "https://example.org/faq"}],
			"timestamp": "2025-06-01T10:30:00Z"
		}`))
	})

	client := newTestClient(t, mux, 5*time.Second)

	reply, err := client.SendMessage(context.Background(), "How long does donation take?", true)
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if reply.Message != "Donating blood takes about an hour." {
		t.Errorf("Message = %q", reply.Message)
	}
	if len(reply.Sources) != 1 || reply.Sources[0].Title != "Donation FAQ" {
		t.Errorf("Sources = %+v", reply.Sources)
	}
	want := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	if !reply.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", reply.Timestamp, want)
	}
}

func TestSendMessage_BearerToken(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"message": "ok"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	creds := credential.NewStore(t.TempDir())
	if err := creds.Save(&credential.Credential{Token: "tok-1"}); err != nil {
		t.Fatal(err)
	}
	client := NewClient(&ClientConfig{BaseURL: srv.URL}, creds)

	if _, err := client.SendMessage(context.Background(), "hi", false); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q, want Bearer tok-1", gotAuth)
	}
}

func TestSendMessage_Timeout(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}), 50*time.Millisecond)

	_, err := client.SendMessage(context.Background(), "hello", true)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if err.Error() != TimeoutMessage {
		t.Errorf("error = %q, want %q", err.Error(), TimeoutMessage)
	}
}

func TestSendMessage_ConnectionRefused(t *testing.T) {
	// A closed server port yields a connection error, not a timeout.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(&ClientConfig{BaseURL: url}, nil)

	_, err := client.SendMessage(context.Background(), "hello", true)
	if err == nil {
		t.Fatal("expected connection error")
	}
	if err.Error() != ConnectionMessage {
		t.Errorf("error = %q, want %q", err.Error(), ConnectionMessage)
	}
}

func TestSendMessage_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server error", http.StatusInternalServerError, "", ServerMessage},
		{"bad gateway", http.StatusBadGateway, "", ServerMessage},
		{"not found", http.StatusNotFound, "", NotFoundMessage},
		{"detail propagated", http.StatusUnprocessableEntity, `{"detail": "message too long"}`, "message too long"},
		{"message propagated", http.StatusBadRequest, `{"message": "bad request body"}`, "bad request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != "" {
					w.Write([]byte(tt.body))
				}
			}), 5*time.Second)

			_, err := client.SendMessage(context.Background(), "hello", true)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("error = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestCheckHealth_Primary(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chat/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t, mux, 5*time.Second)
	if !client.CheckHealth(context.Background()) {
		t.Error("CheckHealth() = false, want true")
	}
}

func TestCheckHealth_FallsBack(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chat/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	mux.HandleFunc("GET /fallback/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t, mux, 5*time.Second)
	if !client.CheckHealth(context.Background()) {
		t.Error("CheckHealth() = false, want true via fallback")
	}
}

func TestCheckHealth_BothDown(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}), 5*time.Second)

	if client.CheckHealth(context.Background()) {
		t.Error("CheckHealth() = true, want false")
	}
}

func TestCheckHealth_RateLimited(t *testing.T) {
	probes := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chat/health", func(w http.ResponseWriter, r *http.Request) {
		probes++
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t, mux, 5*time.Second)

	// Burst allows 3 probes; further checks reuse the last result
	// without touching the network.
	for i := 0; i < 10; i++ {
		if !client.CheckHealth(context.Background()) {
			t.Fatalf("CheckHealth() call %d = false", i)
		}
	}
	if probes > 3 {
		t.Errorf("probes = %d, want at most 3", probes)
	}
}

func TestClearSession(t *testing.T) {
	client := NewClient(nil, nil)
	if err := client.ClearSession("chat_abc"); err != nil {
		t.Errorf("ClearSession() error = %v", err)
	}
}
