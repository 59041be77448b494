// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/northbeam/sitecms/internal/model"
	"github.com/northbeam/sitecms/internal/store"
	"github.com/northbeam/sitecms/internal/util"
)

// ListProjects handles GET /api/admin/projects.
func (h *API) ListProjects(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, 20, 100)

	status := r.URL.Query().Get("status")
	if status != "" && !model.ValidStatus(status) {
		WriteBadRequest(w, "Invalid status filter")
		return
	}

	projects, err := h.queries.ListProjects(r.Context(), status,
		int64(perPage), int64((page-1)*perPage))
	if err != nil {
		h.logger.Error("listing projects failed", "error", err)
		WriteInternalError(w)
		return
	}
	total, err := h.queries.CountProjects(r.Context(), status)
	if err != nil {
		h.logger.Error("counting projects failed", "error", err)
		WriteInternalError(w)
		return
	}

	WriteSuccess(w, projects, BuildMeta(total, page, perPage))
}

// GetProject handles GET /api/admin/projects/{id}.
func (h *API) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}
	project, err := h.queries.GetProjectByID(r.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "Project not found")
		} else {
			h.logger.Error("loading project failed", "error", err)
			WriteInternalError(w)
		}
		return
	}
	WriteSuccess(w, project, nil)
}

// ProjectRequest is the request body for creating or replacing a project.
type ProjectRequest struct {
	Title     string `json:"title"`
	Slug      string `json:"slug,omitempty"`
	Client    string `json:"client,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Body      string `json:"body,omitempty"`
	Status    string `json:"status,omitempty"`
	SortOrder int64  `json:"sort_order,omitempty"`
}

func (req *ProjectRequest) normalize() map[string]string {
	if req.Status == "" {
		req.Status = model.StatusDraft
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Title)
	}

	issues := make(map[string]string)
	if req.Title == "" {
		issues["title"] = "required"
	}
	if !util.IsValidSlug(req.Slug) {
		issues["slug"] = "must contain only lowercase letters, numbers, and hyphens"
	}
	if !model.ValidStatus(req.Status) {
		issues["status"] = "must be one of draft, scheduled, published, archived"
	}
	if len(issues) == 0 {
		return nil
	}
	return issues
}

// CreateProject handles POST /api/admin/projects.
func (h *API) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	if issues := req.normalize(); issues != nil {
		WriteValidationError(w, issues)
		return
	}

	project, err := h.queries.CreateProject(r.Context(), store.CreateProjectParams{
		Title:     req.Title,
		Slug:      req.Slug,
		Client:    req.Client,
		Summary:   req.Summary,
		Body:      req.Body,
		Status:    req.Status,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			WriteConflict(w, "Slug already in use", map[string]string{"slug": "already exists"})
			return
		}
		h.logger.Error("creating project failed", "error", err)
		WriteInternalError(w)
		return
	}

	WriteCreated(w, project)
}

// UpdateProject handles PUT /api/admin/projects/{id} as a full replace.
func (h *API) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}

	var req ProjectRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	if issues := req.normalize(); issues != nil {
		WriteValidationError(w, issues)
		return
	}

	if _, err := h.queries.GetProjectByID(r.Context(), id); err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "Project not found")
		} else {
			h.logger.Error("loading project failed", "error", err)
			WriteInternalError(w)
		}
		return
	}

	project, err := h.queries.UpdateProject(r.Context(), store.UpdateProjectParams{
		ID:        id,
		Title:     req.Title,
		Slug:      req.Slug,
		Client:    req.Client,
		Summary:   req.Summary,
		Body:      req.Body,
		Status:    req.Status,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			WriteConflict(w, "Slug already in use", map[string]string{"slug": "already exists"})
			return
		}
		h.logger.Error("updating project failed", "error", err)
		WriteInternalError(w)
		return
	}

	WriteSuccess(w, project, nil)
}

// DeleteProject handles DELETE /api/admin/projects/{id}.
func (h *API) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}
	if err := h.queries.DeleteProject(r.Context(), id); err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "Project not found")
		} else {
			h.logger.Error("deleting project failed", "error", err)
			WriteInternalError(w)
		}
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
