// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/northbeam/sitecms/internal/settings"
)

// GetSettings handles GET /api/admin/settings, returning the nested
// object grouped by category.
func (h *API) GetSettings(w http.ResponseWriter, r *http.Request) {
	nested, err := h.settings.Load(r.Context())
	if err != nil {
		h.logger.Error("loading settings failed", "error", err)
		WriteInternalError(w)
		return
	}
	WriteSuccess(w, nested, nil)
}

// UpdateSettings handles PUT /api/admin/settings. The whole batch is
// written in one transaction: either every key updates or none do.
func (h *API) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var nested settings.Nested
	if err := DecodeJSON(r, &nested); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	if len(nested) == 0 {
		WriteValidationError(w, map[string]string{"settings": "at least one category is required"})
		return
	}

	if err := h.settings.Save(r.Context(), nested); err != nil {
		// Flatten rejects malformed categories/fields before any write.
		if _, flattenErr := settings.Flatten(nested); flattenErr != nil {
			WriteValidationError(w, map[string]string{"settings": flattenErr.Error()})
			return
		}
		h.logger.Error("saving settings failed", "error", err)
		WriteInternalError(w)
		return
	}

	h.cache.InvalidateSettings(r.Context())

	updated, err := h.settings.Load(r.Context())
	if err != nil {
		h.logger.Error("reloading settings failed", "error", err)
		WriteInternalError(w)
		return
	}
	WriteSuccess(w, updated, nil)
}
