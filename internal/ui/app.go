// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui wires the views into the root Bubble Tea model. Navigation
// runs through a per-route guard: signed-in views bounce to login,
// auth-only views bounce to the dashboard, and the startup session
// restore hides everything behind a delayed spinner.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lifelink/lifelink-tui/internal/api"
	"github.com/lifelink/lifelink-tui/internal/assistant"
	"github.com/lifelink/lifelink-tui/internal/auth"
	"github.com/lifelink/lifelink-tui/internal/guard"
	"github.com/lifelink/lifelink-tui/internal/history"
	"github.com/lifelink/lifelink-tui/internal/model"
	"github.com/lifelink/lifelink-tui/internal/ui/chat"
	"github.com/lifelink/lifelink-tui/internal/ui/components"
	"github.com/lifelink/lifelink-tui/internal/ui/dashboard"
	"github.com/lifelink/lifelink-tui/internal/ui/login"
	"github.com/lifelink/lifelink-tui/internal/ui/styles"
)

// restoreTimeout bounds the startup session restore.
const restoreTimeout = 15 * time.Second

// route identifies a top-level view.
type route int

const (
	routeLogin route = iota
	routeDashboard
	routeChat
)

// requiresAuth reports whether a route needs a signed-in user. Login is
// the one auth-only route; everything else is guarded.
func (r route) requiresAuth() bool {
	return r != routeLogin
}

// sessionRestoredMsg signals that the startup restore finished, whatever
// the outcome. The session store itself holds the result.
type sessionRestoredMsg struct{}

// signedOutMsg signals that the local session state is dropped and the
// login view may take over.
type signedOutMsg struct{}

// =============================================================================
// ROOT MODEL
// =============================================================================

// Deps carries the wired services the views need.
type Deps struct {
	Session   *auth.Session
	Assistant *assistant.Assistant
	History   *history.Store
	API       *api.Client
}

// App is the root model.
type App struct {
	theme *styles.Theme
	deps  Deps

	route route
	guard *guard.Guard

	restored bool

	header    components.Header
	spinner   components.Spinner
	login     login.Model
	dashboard dashboard.Model
	chat      chat.Model

	width  int
	height int
}

// NewApp creates the root model. The initial route is the dashboard;
// the guard redirects to login if the restore finds no session.
func NewApp(theme *styles.Theme, deps Deps) *App {
	role := model.RoleDonor
	if user := deps.Session.User(); user != nil {
		role = user.Role
	}
	app := &App{
		theme:     theme,
		deps:      deps,
		route:     routeDashboard,
		guard:     guard.New(true),
		header:    components.NewHeader(theme),
		spinner:   components.NewSessionSpinner(theme),
		login:     login.New(theme, deps.Session),
		dashboard: dashboard.New(theme, deps.API, role),
	}
	return app
}

// Init starts the session restore and the guard's spinner-delay timer.
func (a *App) Init() tea.Cmd {
	session := a.deps.Session
	restoreCmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
		defer cancel()
		session.Restore(ctx)
		return sessionRestoredMsg{}
	}
	return tea.Batch(restoreCmd, a.guard.Init(), a.spinner.Start())
}

// Update routes messages to the guard and the active view.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.theme.SetSize(msg.Width, msg.Height)
		a.header.SetWidth(msg.Width)
		a.login.SetSize(msg.Width, msg.Height-2)
		a.dashboard.SetSize(msg.Width, msg.Height-2)
		a.chat.SetSize(msg.Width, msg.Height-2)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case sessionRestoredMsg:
		a.restored = true
		a.spinner.Stop()
		a.guard.Resolve(a.deps.Session.IsLoggedIn())
		if decision, fire := a.guard.ShouldRedirect(); fire {
			return a, a.applyDecision(decision)
		}
		if a.guard.CanRender() {
			return a, a.enterRoute(a.route)
		}
		return a, nil

	case login.ResultMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		if msg.Err == nil {
			return a, tea.Batch(cmd, a.navigate(routeDashboard))
		}
		return a, cmd

	case dashboard.OpenChatMsg:
		return a, a.navigate(routeChat)

	case dashboard.SignOutMsg:
		return a, a.signOut()

	case signedOutMsg:
		return a, a.navigate(routeLogin)

	case chat.BackMsg:
		return a, a.navigate(routeDashboard)
	}

	// Guard timer messages only matter before resolution.
	a.guard.Update(msg)

	if !a.guard.CanRender() {
		// Animate the session spinner while pending.
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.route {
	case routeLogin:
		a.login, cmd = a.login.Update(msg)
	case routeDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case routeChat:
		a.chat, cmd = a.chat.Update(msg)
	}
	return a, cmd
}

// navigate moves to a route through a fresh guard. After startup the
// session outcome is already known, so the guard resolves immediately
// and the delayed spinner never shows.
func (a *App) navigate(target route) tea.Cmd {
	a.route = target
	a.guard = guard.New(target.requiresAuth())
	a.guard.Resolve(a.deps.Session.IsLoggedIn())
	if decision, fire := a.guard.ShouldRedirect(); fire {
		return a.applyDecision(decision)
	}
	return a.enterRoute(target)
}

// applyDecision performs a guard redirect.
func (a *App) applyDecision(decision guard.Decision) tea.Cmd {
	switch decision {
	case guard.DecisionRedirectLogin:
		a.route = routeLogin
		a.guard = guard.New(false)
		a.guard.Resolve(a.deps.Session.IsLoggedIn())
		a.login.Reset()
		return a.login.Init()
	case guard.DecisionRedirectDashboard:
		a.route = routeDashboard
		a.guard = guard.New(true)
		a.guard.Resolve(a.deps.Session.IsLoggedIn())
		return a.enterRoute(routeDashboard)
	}
	return nil
}

// enterRoute initializes the view for a route that may render.
func (a *App) enterRoute(target route) tea.Cmd {
	user := a.deps.Session.User()
	a.header.SetUser(user)

	switch target {
	case routeLogin:
		a.header.SetSubtitle("")
		a.login.Reset()
		return a.login.Init()
	case routeDashboard:
		a.header.SetSubtitle("Dashboard")
		if user != nil {
			a.dashboard.SetRole(user.Role)
		}
		a.dashboard.SetSize(a.width, a.height-2)
		return a.dashboard.Init()
	case routeChat:
		a.header.SetSubtitle("Assistant")
		// Rebuilt on entry so a conversation saved from another run is
		// restored against the current TTL.
		a.chat = chat.New(a.theme, a.deps.Assistant, a.deps.History)
		a.chat.SetSize(a.width, a.height-2)
		return a.chat.Init()
	}
	return nil
}

// signOut ends the session remotely best-effort. Local state is always
// dropped; navigation waits for that so the login guard sees a
// signed-out session.
func (a *App) signOut() tea.Cmd {
	session := a.deps.Session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
		defer cancel()
		session.Logout(ctx)
		return signedOutMsg{}
	}
}

// View renders the header, the guarded content, and nothing else.
func (a *App) View() string {
	if !a.guard.CanRender() {
		if a.guard.ShowSpinner() {
			body := a.spinner.View()
			if a.width > 0 && a.height > 0 {
				return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, body)
			}
			return body
		}
		// Pending inside the delay window: render nothing so fast
		// restores never flicker.
		return ""
	}

	var content string
	switch a.route {
	case routeLogin:
		content = a.login.View()
	case routeDashboard:
		content = a.dashboard.View()
	case routeChat:
		content = a.chat.View()
	}

	return a.header.View() + "\n" + content
}
