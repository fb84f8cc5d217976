// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the client for the LifeLink domain REST API: events,
// blood requests, and donation records shown on the dashboard. It is a
// thin CRUD consumer; all business rules live server-side.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lifelink/lifelink-tui/internal/credential"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// =============================================================================
// RESOURCE TYPES
// =============================================================================

// Event is a donation-drive event.
type Event struct {
	ID       string    `json:"_id"`
	Title    string    `json:"title"`
	Location string    `json:"location"`
	Date     time.Time `json:"date"`
	Capacity int       `json:"capacity"`
	Booked   int       `json:"booked"`
}

// BloodRequest is an open request for a blood type.
type BloodRequest struct {
	ID        string    `json:"_id"`
	BloodType string    `json:"bloodType"`
	Units     int       `json:"units"`
	Urgency   string    `json:"urgency"`
	Status    string    `json:"status"`
	Hospital  string    `json:"hospital"`
	CreatedAt time.Time `json:"createdAt"`
}

// Donation is one recorded donation.
type Donation struct {
	ID        string    `json:"_id"`
	DonorName string    `json:"donorName"`
	BloodType string    `json:"bloodType"`
	Units     int       `json:"units"`
	DonatedAt time.Time `json:"donatedAt"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the domain API with the persisted bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      *credential.Store
}

// NewClient creates a domain API client.
func NewClient(baseURL string, timeout time.Duration, creds *credential.Store) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		creds:      creds,
	}
}

// envelope is the API's standard response wrapper.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

// do runs one request and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return fmt.Errorf("%s %s: %s", method, path, resp.Status)
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if env.Message != "" {
			return fmt.Errorf("%s %s: %s", method, path, env.Message)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// =============================================================================
// OPERATIONS
// =============================================================================

// ListEvents returns the donation-drive events visible to the caller.
func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := c.do(ctx, http.MethodGet, "/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListBloodRequests returns the open blood requests.
func (c *Client) ListBloodRequests(ctx context.Context) ([]BloodRequest, error) {
	var reqs []BloodRequest
	if err := c.do(ctx, http.MethodGet, "/blood-requests", nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// ListDonations returns the caller's donation records.
func (c *Client) ListDonations(ctx context.Context) ([]Donation, error) {
	var donations []Donation
	if err := c.do(ctx, http.MethodGet, "/donations", nil, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

// DeleteEvent removes an event. Admin and organisation accounts only;
// the server enforces the rule.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+id, nil, nil)
}

// UpdateBloodRequest patches a blood request's status.
func (c *Client) UpdateBloodRequest(ctx context.Context, id, status string) (*BloodRequest, error) {
	body := map[string]string{"status": status}
	var updated BloodRequest
	if err := c.do(ctx, http.MethodPatch, "/blood-requests/"+id, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
