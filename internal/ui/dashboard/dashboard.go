// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard implements the signed-in landing view: a role-aware
// menu plus live panels of platform data.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lifelink/lifelink-tui/internal/api"
	"github.com/lifelink/lifelink-tui/internal/model"
	"github.com/lifelink/lifelink-tui/internal/nav"
	"github.com/lifelink/lifelink-tui/internal/ui/styles"
	"github.com/lifelink/lifelink-tui/internal/util"
)

// fetchTimeout bounds one dashboard refresh.
const fetchTimeout = 15 * time.Second

// menuLabelWidth is the display width menu labels are padded to.
const menuLabelWidth = 22

// =============================================================================
// MESSAGES
// =============================================================================

// DataMsg delivers a dashboard refresh. A nil Err with empty slices is a
// valid result for a fresh deployment.
type DataMsg struct {
	Events        []api.Event
	BloodRequests []api.BloodRequest
	Donations     []api.Donation
	Err           error
}

// OpenChatMsg asks the root model to switch to the assistant view.
type OpenChatMsg struct{}

// SignOutMsg asks the root model to end the session.
type SignOutMsg struct{}

// =============================================================================
// MODEL
// =============================================================================

// Model is the dashboard view.
type Model struct {
	theme  *styles.Theme
	client *api.Client

	role model.AccountRole
	menu []nav.Capability

	selected int
	loading  bool
	errMsg   string

	events        []api.Event
	bloodRequests []api.BloodRequest
	donations     []api.Donation

	width  int
	height int
}

// New creates a dashboard for the given role.
func New(theme *styles.Theme, client *api.Client, role model.AccountRole) Model {
	return Model{
		theme:  theme,
		client: client,
		role:   role,
		menu:   nav.MenuFor(role),
	}
}

// SetRole rebuilds the menu for a new role. Selection resets because the
// old index may point past the new menu.
func (m *Model) SetRole(role model.AccountRole) {
	m.role = role
	m.menu = nav.MenuFor(role)
	m.selected = 0
}

// SetSize updates the render dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init kicks off the first data refresh.
func (m Model) Init() tea.Cmd {
	return m.refresh()
}

// refresh returns a command that loads all panels the role can see.
func (m Model) refresh() tea.Cmd {
	client := m.client
	role := m.role
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		var out DataMsg
		if nav.Can(role, nav.CapViewEvents) {
			events, err := client.ListEvents(ctx)
			if err != nil {
				out.Err = err
			}
			out.Events = events
		}
		if nav.Can(role, nav.CapViewBloodRequests) {
			requests, err := client.ListBloodRequests(ctx)
			if err != nil && out.Err == nil {
				out.Err = err
			}
			out.BloodRequests = requests
		}
		if nav.Can(role, nav.CapViewDonations) {
			donations, err := client.ListDonations(ctx)
			if err != nil && out.Err == nil {
				out.Err = err
			}
			out.Donations = donations
		}
		return out
	}
}

// Update handles menu navigation and data refreshes.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.menu)-1 {
				m.selected++
			}
		case "r":
			m.loading = true
			m.errMsg = ""
			return m, m.refresh()
		case "q":
			return m, func() tea.Msg { return SignOutMsg{} }
		case "enter":
			return m.activate()
		}

	case DataMsg:
		m.loading = false
		m.events = msg.Events
		m.bloodRequests = msg.BloodRequests
		m.donations = msg.Donations
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		} else {
			m.errMsg = ""
		}
	}
	return m, nil
}

// activate runs the selected menu entry. Only the entries with a TUI
// surface do anything; the rest are informational labels for now.
func (m Model) activate() (Model, tea.Cmd) {
	if m.selected >= len(m.menu) {
		return m, nil
	}
	switch m.menu[m.selected] {
	case nav.CapChatAssistant:
		return m, func() tea.Msg { return OpenChatMsg{} }
	}
	return m, nil
}

// Selected returns the currently highlighted capability.
func (m Model) Selected() nav.Capability {
	if m.selected >= len(m.menu) {
		return nav.CapViewProfile
	}
	return m.menu[m.selected]
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the menu column next to the data panels.
func (m Model) View() string {
	menu := m.renderMenu()
	panels := m.renderPanels()

	body := lipgloss.JoinHorizontal(lipgloss.Top, menu, "  ", panels)
	if m.errMsg != "" {
		body += "\n" + m.theme.ErrorStyle.Render(m.errMsg)
	}
	return body
}

func (m Model) renderMenu() string {
	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render(m.role.DisplayName() + " menu"))
	b.WriteString("\n")
	for i, entry := range m.menu {
		// Pad to one column so the selection highlight is a uniform bar.
		label := util.PadRight(entry.String(), menuLabelWidth)
		if i == m.selected {
			b.WriteString(m.theme.MenuItemSelected.Render("> " + label))
		} else {
			b.WriteString(m.theme.MenuItem.Render("  " + label))
		}
		b.WriteString("\n")
	}
	return m.theme.PanelBox.Render(b.String())
}

func (m Model) renderPanels() string {
	var panels []string

	if m.loading {
		return m.theme.ThinkingText.Render("Refreshing...")
	}

	if nav.Can(m.role, nav.CapViewEvents) {
		panels = append(panels, m.renderEvents())
	}
	if nav.Can(m.role, nav.CapViewBloodRequests) {
		panels = append(panels, m.renderBloodRequests())
	}
	if nav.Can(m.role, nav.CapViewDonations) {
		panels = append(panels, m.renderDonations())
	}

	return strings.Join(panels, "\n")
}

func (m Model) renderEvents() string {
	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render("Donation events"))
	b.WriteString("\n")
	if len(m.events) == 0 {
		b.WriteString(m.theme.ListMeta.Render("No upcoming events"))
	}
	for i, e := range m.events {
		if i >= 5 {
			b.WriteString(m.theme.ListMeta.Render(fmt.Sprintf("... and %d more", len(m.events)-i)))
			break
		}
		title := util.TruncateRunes(e.Title, 36)
		b.WriteString(fmt.Sprintf("%s  %s\n", title,
			m.theme.ListMeta.Render(fmt.Sprintf("%s, %d/%d booked", e.Location, e.Booked, e.Capacity))))
	}
	return m.theme.PanelBox.Render(b.String())
}

func (m Model) renderBloodRequests() string {
	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render("Blood requests"))
	b.WriteString("\n")
	if len(m.bloodRequests) == 0 {
		b.WriteString(m.theme.ListMeta.Render("No open requests"))
	}
	for i, r := range m.bloodRequests {
		if i >= 5 {
			b.WriteString(m.theme.ListMeta.Render(fmt.Sprintf("... and %d more", len(m.bloodRequests)-i)))
			break
		}
		line := fmt.Sprintf("%s x%d  %s", r.BloodType, r.Units, m.theme.ListMeta.Render(r.Hospital))
		if strings.EqualFold(r.Urgency, "urgent") {
			line = m.theme.UrgentTag.Render("URGENT") + " " + line
		}
		b.WriteString(line + "\n")
	}
	return m.theme.PanelBox.Render(b.String())
}

func (m Model) renderDonations() string {
	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render("Recent donations"))
	b.WriteString("\n")
	if len(m.donations) == 0 {
		b.WriteString(m.theme.ListMeta.Render("No donations recorded"))
	}
	for i, d := range m.donations {
		if i >= 5 {
			b.WriteString(m.theme.ListMeta.Render(fmt.Sprintf("... and %d more", len(m.donations)-i)))
			break
		}
		b.WriteString(fmt.Sprintf("%s  %s\n", d.DonorName,
			m.theme.ListMeta.Render(fmt.Sprintf("%s, %d unit(s)", d.BloodType, d.Units))))
	}
	return m.theme.PanelBox.Render(b.String())
}
