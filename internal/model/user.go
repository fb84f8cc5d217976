// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// AccountRole represents the role of a platform account.
type AccountRole string

const (
	RoleAdmin        AccountRole = "admin"
	RoleOrganisation AccountRole = "organisation"
	RoleDonor        AccountRole = "user"
	RoleHospital     AccountRole = "hospital"
)

// String returns the string representation of the role.
func (r AccountRole) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r AccountRole) DisplayName() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleOrganisation:
		return "Organisation"
	case RoleDonor:
		return "Donor"
	case RoleHospital:
		return "Hospital"
	default:
		return string(r)
	}
}

// IsValid reports whether the role is one of the platform's known roles.
func (r AccountRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOrganisation, RoleDonor, RoleHospital:
		return true
	}
	return false
}

// ParseAccountRole parses a role string case-insensitively.
// Unknown values fall back to RoleDonor, the least-privileged role.
func ParseAccountRole(s string) AccountRole {
	r := AccountRole(strings.ToLower(strings.TrimSpace(s)))
	if r.IsValid() {
		return r
	}
	return RoleDonor
}

// =============================================================================
// USER TYPE
// =============================================================================

// User represents a platform account as returned by the auth API.
// Only ID and Role are guaranteed; everything else is optional.
type User struct {
	ID    string      `json:"_id"`
	Name  string      `json:"name,omitempty"`
	Email string      `json:"email,omitempty"`
	Role  AccountRole `json:"role"`
	Phone string      `json:"phone,omitempty"`

	// Profile is the avatar/profile image URL, if one was uploaded.
	Profile string `json:"profile,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// DisplayName returns the best available human-readable identifier.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
