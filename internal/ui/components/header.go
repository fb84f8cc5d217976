// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lifelink/lifelink-tui/internal/model"
	"github.com/lifelink/lifelink-tui/internal/ui/styles"
	"github.com/lifelink/lifelink-tui/internal/util"
)

// =============================================================================
// HEADER
// =============================================================================

// Header renders the top bar: brand on the left, signed-in identity on
// the right, separated to the full terminal width.
type Header struct {
	theme *styles.Theme
	width int

	title    string
	subtitle string

	userName string
	userRole model.AccountRole
	signedIn bool
}

// NewHeader creates a header with the LifeLink brand.
func NewHeader(theme *styles.Theme) Header {
	return Header{
		theme: theme,
		title: "LifeLink",
	}
}

// SetWidth sets the render width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetSubtitle sets the contextual subtitle shown next to the brand.
func (h *Header) SetSubtitle(subtitle string) {
	h.subtitle = subtitle
}

// SetUser records the signed-in user shown on the right side.
func (h *Header) SetUser(user *model.User) {
	if user == nil {
		h.signedIn = false
		h.userName = ""
		return
	}
	h.signedIn = true
	h.userName = user.Name
	h.userRole = user.Role
}

// View renders the header line.
func (h Header) View() string {
	brand := h.theme.HeaderBrand.Render("[+] ") + h.theme.HeaderTitle.Render(h.title)
	if h.subtitle != "" {
		brand += " " + h.theme.HeaderSubtitle.Render(h.subtitle)
	}

	var identity string
	if h.signedIn {
		name := util.TruncateRunes(h.userName, 24)
		identity = fmt.Sprintf("%s (%s)", name, h.userRole.DisplayName())
	} else {
		identity = "Not signed in"
	}
	identity = h.theme.HeaderSubtitle.Render(identity)

	if h.width <= 0 {
		return brand + "  " + identity
	}

	gap := h.width - lipgloss.Width(brand) - lipgloss.Width(identity)
	if gap < 1 {
		gap = 1
	}
	return brand + strings.Repeat(" ", gap) + identity
}
