// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package guard

import (
	"testing"
)

func TestGuard_ResolveDecisions(t *testing.T) {
	tests := []struct {
		name        string
		requireAuth bool
		loggedIn    bool
		want        Decision
	}{
		{"protected view, signed in", true, true, DecisionRender},
		{"protected view, signed out", true, false, DecisionRedirectLogin},
		{"auth-only view, signed out", false, false, DecisionRender},
		{"auth-only view, signed in", false, true, DecisionRedirectDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.requireAuth)
			if got := g.Resolve(tt.loggedIn); got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
			if g.State() != StateResolved {
				t.Errorf("State() = %v, want StateResolved", g.State())
			}
		})
	}
}

func TestGuard_RedirectLatch(t *testing.T) {
	g := New(true)
	g.Resolve(false)

	d, fire := g.ShouldRedirect()
	if !fire || d != DecisionRedirectLogin {
		t.Fatalf("first ShouldRedirect() = (%v, %v), want (redirect-login, true)", d, fire)
	}

	// A second check must not navigate again.
	if _, fire := g.ShouldRedirect(); fire {
		t.Error("second ShouldRedirect() fired; redirect must happen at most once")
	}

	// Re-resolving does not re-arm the latch.
	g.Resolve(false)
	if _, fire := g.ShouldRedirect(); fire {
		t.Error("ShouldRedirect() fired after repeated Resolve")
	}
}

func TestGuard_NoRedirectWhenRendering(t *testing.T) {
	g := New(true)
	g.Resolve(true)

	if _, fire := g.ShouldRedirect(); fire {
		t.Error("ShouldRedirect() fired for a render decision")
	}
	if !g.CanRender() {
		t.Error("CanRender() = false, want true")
	}
}

func TestGuard_SpinnerOnlyWhilePending(t *testing.T) {
	g := New(true)

	if g.ShowSpinner() {
		t.Error("spinner shown before the delay elapsed")
	}

	// Delay fires while still pending: spinner appears.
	g.Update(spinnerDelayMsg{})
	if !g.ShowSpinner() {
		t.Error("spinner not shown after delay while pending")
	}

	g.Resolve(true)
	if g.ShowSpinner() {
		t.Error("spinner still shown after resolution")
	}
}

func TestGuard_FastResolutionSkipsSpinner(t *testing.T) {
	g := New(true)
	g.Resolve(true)

	// Delay fires after resolution: stays resolved, no spinner.
	g.Update(spinnerDelayMsg{})
	if g.ShowSpinner() {
		t.Error("spinner shown for a resolution faster than the delay")
	}
	if g.State() != StateResolved {
		t.Errorf("State() = %v, want StateResolved", g.State())
	}
}

func TestGuard_PendingRendersNothing(t *testing.T) {
	g := New(true)
	if g.CanRender() {
		t.Error("CanRender() = true while pending")
	}
	if _, fire := g.ShouldRedirect(); fire {
		t.Error("ShouldRedirect() fired while pending")
	}
}
