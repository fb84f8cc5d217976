// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package guard decides whether a view may render based on the session
// state. Views that need a signed-in user redirect to login; auth-only
// views (login, sign-up) redirect an already signed-in user to the
// dashboard. While the session is still restoring, nothing renders at
// first, then a blocking spinner after a short delay so fast
// resolutions never flicker.
package guard

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SpinnerDelay is how long the guard stays blank before showing the
// loading indicator. Resolutions faster than this render no spinner at
// all.
const SpinnerDelay = 100 * time.Millisecond

// =============================================================================
// STATES AND DECISIONS
// =============================================================================

// State is the guard's lifecycle phase.
type State int

const (
	// StatePending means the session outcome is not yet known. Render
	// nothing.
	StatePending State = iota

	// StateShowSpinner means the session is still pending after
	// SpinnerDelay. Render the blocking loading indicator.
	StateShowSpinner

	// StateResolved means Resolve has run and the decision is final.
	StateResolved
)

// Decision is the guard's verdict once the session resolves.
type Decision int

const (
	// DecisionRender lets the guarded view draw its own content.
	DecisionRender Decision = iota

	// DecisionRedirectLogin sends the user to the login view.
	DecisionRedirectLogin

	// DecisionRedirectDashboard sends an already signed-in user away
	// from an auth-only view.
	DecisionRedirectDashboard
)

// String returns a short label for logs.
func (d Decision) String() string {
	switch d {
	case DecisionRedirectLogin:
		return "redirect-login"
	case DecisionRedirectDashboard:
		return "redirect-dashboard"
	default:
		return "render"
	}
}

// spinnerDelayMsg fires once SpinnerDelay has elapsed.
type spinnerDelayMsg struct{}

// =============================================================================
// GUARD
// =============================================================================

// Guard gates a single view for one session resolution. Create a fresh
// Guard per navigation; it is not reusable across resolutions.
type Guard struct {
	// RequireAuth marks a view that needs a signed-in user. False
	// marks an auth-only view (login, sign-up).
	RequireAuth bool

	state      State
	decision   Decision
	redirected bool
}

// New returns a pending guard for a view.
func New(requireAuth bool) *Guard {
	return &Guard{RequireAuth: requireAuth}
}

// Init starts the spinner-delay timer. Wire the returned command into
// the view's Init.
func (g *Guard) Init() tea.Cmd {
	return tea.Tick(SpinnerDelay, func(time.Time) tea.Msg {
		return spinnerDelayMsg{}
	})
}

// Update advances the guard on timer messages. The spinner appears only
// if the session is still unresolved when the delay fires.
func (g *Guard) Update(msg tea.Msg) {
	if _, ok := msg.(spinnerDelayMsg); !ok {
		return
	}
	if g.state == StatePending {
		g.state = StateShowSpinner
	}
}

// Resolve records the session outcome and returns the verdict. Later
// calls return the same verdict; the redirect latch below keeps a
// repeated Resolve from navigating twice.
func (g *Guard) Resolve(loggedIn bool) Decision {
	if g.state == StateResolved {
		return g.decision
	}

	g.state = StateResolved
	switch {
	case g.RequireAuth && !loggedIn:
		g.decision = DecisionRedirectLogin
	case !g.RequireAuth && loggedIn:
		g.decision = DecisionRedirectDashboard
	default:
		g.decision = DecisionRender
	}
	return g.decision
}

// ShouldRedirect reports whether the caller must navigate now, firing
// at most once per resolution.
func (g *Guard) ShouldRedirect() (Decision, bool) {
	if g.state != StateResolved || g.decision == DecisionRender {
		return DecisionRender, false
	}
	if g.redirected {
		return g.decision, false
	}
	g.redirected = true
	return g.decision, true
}

// State returns the current lifecycle phase.
func (g *Guard) State() State {
	return g.state
}

// ShowSpinner reports whether the blocking loading indicator should
// draw.
func (g *Guard) ShowSpinner() bool {
	return g.state == StateShowSpinner
}

// CanRender reports whether the guarded view's own content may draw.
func (g *Guard) CanRender() bool {
	return g.state == StateResolved && g.decision == DecisionRender
}
