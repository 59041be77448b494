// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

// Package rbac implements the static role to capability mapping used to
// gate every administrative operation. The mapping is built once at
// startup, is immutable afterwards, and answers lookups without any I/O.
package rbac

import "github.com/northbeam/sitecms/internal/model"

// Capability is a named permission checked independently of role identity.
type Capability string

// Capabilities known to the system.
const (
	ViewDashboard  Capability = "VIEW_DASHBOARD"
	ViewContent    Capability = "VIEW_CONTENT"
	ManageContent  Capability = "MANAGE_CONTENT"
	ViewUsers      Capability = "VIEW_USERS"
	ManageUsers    Capability = "MANAGE_USERS"
	ManageSettings Capability = "MANAGE_SETTINGS"
	UploadFiles    Capability = "UPLOAD_FILES"
)

// Grants is a read-only role to capability-set table.
// Lookups for roles or capabilities that are not present fail closed.
type Grants struct {
	byRole map[string]map[Capability]struct{}
}

// Default returns the grant table used in production. Every role defined
// in the model package has an entry, so the table is total over roles.
func Default() *Grants {
	return New(map[string][]Capability{
		model.RoleAdmin: {
			ViewDashboard, ViewContent, ManageContent,
			ViewUsers, ManageUsers, ManageSettings, UploadFiles,
		},
		model.RoleEditor: {
			ViewDashboard, ViewContent, ManageContent, UploadFiles,
		},
		model.RoleViewer: {
			ViewDashboard, ViewContent,
		},
	})
}

// New builds a Grants table from a role to capability-list mapping.
// The input is copied; later mutation of the argument has no effect.
func New(grants map[string][]Capability) *Grants {
	byRole := make(map[string]map[Capability]struct{}, len(grants))
	for role, caps := range grants {
		set := make(map[Capability]struct{}, len(caps))
		for _, c := range caps {
			set[c] = struct{}{}
		}
		byRole[role] = set
	}
	return &Grants{byRole: byRole}
}

// Allows reports whether role holds the given capability.
// Unknown roles and unknown capabilities always return false.
func (g *Grants) Allows(role string, capability Capability) bool {
	set, ok := g.byRole[role]
	if !ok {
		return false
	}
	_, ok = set[capability]
	return ok
}

// Capabilities returns the capabilities granted to role, in no
// particular order. Returns nil for unknown roles.
func (g *Grants) Capabilities(role string) []Capability {
	set, ok := g.byRole[role]
	if !ok {
		return nil
	}
	caps := make([]Capability, 0, len(set))
	for c := range set {
		caps = append(caps, c)
	}
	return caps
}
