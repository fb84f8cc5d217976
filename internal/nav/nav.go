// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package nav maps account roles onto dashboard capabilities. The menu
// is derived from one declarative table instead of per-role menu
// lists, so adding a capability means one table edit.
package nav

import "github.com/lifelink/lifelink-tui/internal/model"

// Capability is one dashboard action a role may perform.
type Capability int

const (
	CapViewProfile Capability = iota
	CapDonate
	CapViewDonations
	CapViewEvents
	CapCreateEvent
	CapDeleteEvent
	CapViewBloodRequests
	CapManageBloodRequests
	CapViewRecipients
	CapManageUsers
	CapChatAssistant
)

// String returns the menu label for a capability.
func (c Capability) String() string {
	switch c {
	case CapViewProfile:
		return "Profile"
	case CapDonate:
		return "Donate"
	case CapViewDonations:
		return "My Donations"
	case CapViewEvents:
		return "Events"
	case CapCreateEvent:
		return "Create Event"
	case CapDeleteEvent:
		return "Remove Event"
	case CapViewBloodRequests:
		return "Blood Requests"
	case CapManageBloodRequests:
		return "Manage Requests"
	case CapViewRecipients:
		return "Recipients"
	case CapManageUsers:
		return "Users"
	case CapChatAssistant:
		return "Assistant"
	default:
		return "Unknown"
	}
}

// RoleCapabilities is the single source of truth for what each role
// sees on the dashboard. Order here is menu order.
var RoleCapabilities = map[model.AccountRole][]Capability{
	model.RoleDonor: {
		CapViewProfile, CapDonate, CapViewDonations, CapViewEvents,
		CapChatAssistant,
	},
	model.RoleHospital: {
		CapViewProfile, CapViewBloodRequests, CapManageBloodRequests,
		CapViewRecipients, CapChatAssistant,
	},
	model.RoleOrganisation: {
		CapViewProfile, CapViewEvents, CapCreateEvent, CapDeleteEvent,
		CapViewDonations, CapChatAssistant,
	},
	model.RoleAdmin: {
		CapViewProfile, CapManageUsers, CapViewEvents, CapCreateEvent,
		CapDeleteEvent, CapViewBloodRequests, CapManageBloodRequests,
		CapViewDonations, CapChatAssistant,
	},
}

// MenuFor returns the ordered capabilities for a role. Unknown roles
// get the donor menu, matching how unknown roles parse.
func MenuFor(role model.AccountRole) []Capability {
	if caps, ok := RoleCapabilities[role]; ok {
		return caps
	}
	return RoleCapabilities[model.RoleDonor]
}

// Can reports whether a role holds a capability.
func Can(role model.AccountRole, cap Capability) bool {
	for _, c := range MenuFor(role) {
		if c == cap {
			return true
		}
	}
	return false
}
