// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/northbeam/sitecms/internal/store"
)

// ListTeamMembers handles GET /api/admin/team. All members are returned;
// the public site filters to active ones.
func (h *API) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.queries.ListTeamMembers(r.Context(), false)
	if err != nil {
		h.logger.Error("listing team members failed", "error", err)
		WriteInternalError(w)
		return
	}
	WriteSuccess(w, members, nil)
}

// GetTeamMember handles GET /api/admin/team/{id}.
func (h *API) GetTeamMember(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid team member ID")
		return
	}
	member, err := h.queries.GetTeamMemberByID(r.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "Team member not found")
		} else {
			h.logger.Error("loading team member failed", "error", err)
			WriteInternalError(w)
		}
		return
	}
	WriteSuccess(w, member, nil)
}

// TeamMemberRequest is the request body for creating or replacing a
// team member.
type TeamMemberRequest struct {
	Name      string `json:"name"`
	RoleTitle string `json:"role_title,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Image     string `json:"image,omitempty"`
	SortOrder int64  `json:"sort_order,omitempty"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

// CreateTeamMember handles POST /api/admin/team.
func (h *API) CreateTeamMember(w http.ResponseWriter, r *http.Request) {
	var req TeamMemberRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" {
		WriteValidationError(w, map[string]string{"name": "required"})
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	member, err := h.queries.CreateTeamMember(r.Context(), store.CreateTeamMemberParams{
		Name:      req.Name,
		RoleTitle: req.RoleTitle,
		Bio:       req.Bio,
		Image:     req.Image,
		SortOrder: req.SortOrder,
		IsActive:  active,
	})
	if err != nil {
		h.logger.Error("creating team member failed", "error", err)
		WriteInternalError(w)
		return
	}

	WriteCreated(w, member)
}

// UpdateTeamMember handles PUT /api/admin/team/{id} as a full replace.
func (h *API) UpdateTeamMember(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid team member ID")
		return
	}

	var req TeamMemberRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" {
		WriteValidationError(w, map[string]string{"name": "required"})
		return
	}

	if _, err := h.queries.GetTeamMemberByID(r.Context(), id); err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "Team member not found")
		} else {
			h.logger.Error("loading team member failed", "error", err)
			WriteInternalError(w)
		}
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	member, err := h.queries.UpdateTeamMember(r.Context(), store.UpdateTeamMemberParams{
		ID:        id,
		Name:      req.Name,
		RoleTitle: req.RoleTitle,
		Bio:       req.Bio,
		Image:     req.Image,
		SortOrder: req.SortOrder,
		IsActive:  active,
	})
	if err != nil {
		h.logger.Error("updating team member failed", "error", err)
		WriteInternalError(w)
		return
	}

	WriteSuccess(w, member, nil)
}

// DeleteTeamMember handles DELETE /api/admin/team/{id}.
func (h *API) DeleteTeamMember(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid team member ID")
		return
	}
	if err := h.queries.DeleteTeamMember(r.Context(), id); err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "Team member not found")
		} else {
			h.logger.Error("deleting team member failed", "error", err)
			WriteInternalError(w)
		}
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
