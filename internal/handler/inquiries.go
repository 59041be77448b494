// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/northbeam/sitecms/internal/store"
)

// ListInquiries handles GET /api/admin/inquiries.
func (h *API) ListInquiries(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, 20, 100)
	unhandledOnly := r.URL.Query().Get("unhandled") == "true"

	inquiries, err := h.queries.ListInquiries(r.Context(), unhandledOnly,
		int64(perPage), int64((page-1)*perPage))
	if err != nil {
		h.logger.Error("listing inquiries failed", "error", err)
		WriteInternalError(w)
		return
	}
	total, err := h.queries.CountInquiries(r.Context(), unhandledOnly)
	if err != nil {
		h.logger.Error("counting inquiries failed", "error", err)
		WriteInternalError(w)
		return
	}

	WriteSuccess(w, inquiries, BuildMeta(total, page, perPage))
}

// GetInquiry handles GET /api/admin/inquiries/{id}.
func (h *API) GetInquiry(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid inquiry ID")
		return
	}
	inquiry, err := h.queries.GetInquiryByID(r.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "Inquiry not found")
		} else {
			h.logger.Error("loading inquiry failed", "error", err)
			WriteInternalError(w)
		}
		return
	}
	WriteSuccess(w, inquiry, nil)
}

// SetInquiryHandled handles PUT /api/admin/inquiries/{id}/handled.
func (h *API) SetInquiryHandled(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid inquiry ID")
		return
	}

	var req struct {
		Handled bool `json:"handled"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.queries.SetInquiryHandled(r.Context(), id, req.Handled); err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "Inquiry not found")
		} else {
			h.logger.Error("updating inquiry failed", "error", err)
			WriteInternalError(w)
		}
		return
	}

	WriteSuccess(w, map[string]bool{"handled": req.Handled}, nil)
}

// DeleteInquiry handles DELETE /api/admin/inquiries/{id}.
func (h *API) DeleteInquiry(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid inquiry ID")
		return
	}
	if err := h.queries.DeleteInquiry(r.Context(), id); err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "Inquiry not found")
		} else {
			h.logger.Error("deleting inquiry failed", "error", err)
			WriteInternalError(w)
		}
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
