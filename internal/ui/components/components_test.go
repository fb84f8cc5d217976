// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/lifelink/lifelink-tui/internal/model"
	"github.com/lifelink/lifelink-tui/internal/ui/styles"
)

func TestSpinnerInactiveRendersNothing(t *testing.T) {
	s := NewThinkingSpinner(styles.NewTheme())
	if got := s.View(); got != "" {
		t.Errorf("inactive spinner rendered %q", got)
	}
}

func TestSpinnerActiveShowsMessage(t *testing.T) {
	s := NewThinkingSpinner(styles.NewTheme())
	s.Start()
	if !s.IsActive() {
		t.Fatal("spinner should be active after Start")
	}
	if got := s.View(); !strings.Contains(got, "Thinking") {
		t.Errorf("active spinner view missing message: %q", got)
	}

	s.Stop()
	if s.IsActive() {
		t.Error("spinner should be inactive after Stop")
	}
}

func TestHeaderShowsSignedInUser(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetWidth(80)
	h.SetUser(&model.User{Name: "Priya Sharma", Role: model.RoleHospital})

	got := h.View()
	if !strings.Contains(got, "Priya Sharma") {
		t.Errorf("header missing user name: %q", got)
	}
	if !strings.Contains(got, model.RoleHospital.DisplayName()) {
		t.Errorf("header missing role label: %q", got)
	}
}

func TestHeaderSubtitle(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetWidth(80)
	h.SetSubtitle("Dashboard")
	if got := h.View(); !strings.Contains(got, "Dashboard") {
		t.Errorf("header missing subtitle: %q", got)
	}
}

func TestHeaderSignedOut(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetUser(nil)
	if got := h.View(); !strings.Contains(got, "Not signed in") {
		t.Errorf("signed-out header = %q", got)
	}
}

func TestStatusBarHealthAndCountdown(t *testing.T) {
	b := NewStatusBar(styles.NewTheme())
	b.SetWidth(100)
	b.SetHealth(true)
	b.SetHistoryHours(18)
	b.SetShortcuts([]Shortcut{{Key: "ctrl+c", Desc: "quit"}})

	got := b.View()
	if !strings.Contains(got, "assistant") {
		t.Errorf("status bar missing health segment: %q", got)
	}
	if !strings.Contains(got, "expires in 18h") {
		t.Errorf("status bar missing countdown: %q", got)
	}
	if !strings.Contains(got, "ctrl+c") {
		t.Errorf("status bar missing shortcut: %q", got)
	}
}

func TestStatusBarHidesUnknownSegments(t *testing.T) {
	b := NewStatusBar(styles.NewTheme())
	got := b.View()
	if strings.Contains(got, "assistant") {
		t.Errorf("health shown before any probe: %q", got)
	}
	if strings.Contains(got, "expires") {
		t.Errorf("countdown shown without saved history: %q", got)
	}
}
