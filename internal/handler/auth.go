// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/northbeam/sitecms/internal/auth"
	"github.com/northbeam/sitecms/internal/middleware"
)

// LoginRequest is the credential payload for POST /api/admin/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the principal and token after a successful login.
// The token is also set as an HttpOnly cookie; the body copy exists for
// clients that prefer an Authorization header.
type LoginResponse struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

// Login handles POST /api/admin/login. All credential failures surface
// as the same 401 so responses cannot be used to enumerate accounts.
func (h *API) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteValidationError(w, map[string]string{
			"email":    "required",
			"password": "required",
		})
		return
	}

	principal, err := h.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAuthenticationFailed) {
			WriteUnauthorized(w, "Invalid credentials")
			return
		}
		h.logger.Error("authentication lookup failed", "error", err)
		WriteInternalError(w)
		return
	}

	token, err := h.sessions.Issue(principal)
	if err != nil {
		h.logger.Error("issuing session token failed", "error", err)
		WriteInternalError(w)
		return
	}

	h.sessions.SetCookie(w, token)
	WriteSuccess(w, LoginResponse{User: principal, Token: token}, nil)
}

// Logout handles POST /api/admin/logout by clearing the session cookie.
// The token itself stays valid until expiry; sign-out is a client-side
// discard, which is the accepted trade-off of stateless sessions.
func (h *API) Logout(w http.ResponseWriter, _ *http.Request) {
	h.sessions.ClearCookie(w)
	WriteSuccess(w, map[string]string{"status": "signed out"}, nil)
}

// Me handles GET /api/admin/me, returning the session's principal and
// its capabilities so the dashboard can hide what the role cannot do.
func (h *API) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	WriteSuccess(w, map[string]any{
		"user":         principal,
		"capabilities": h.grants.Capabilities(principal.Role),
	}, nil)
}
