// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request hardening.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/northbeam/sitecms/internal/model"
	"github.com/northbeam/sitecms/internal/rbac"
	"github.com/northbeam/sitecms/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyPrincipal holds the authenticated principal for the request.
const ContextKeyPrincipal ContextKey = "principal"

// RequireSession verifies the session token on every request and stores
// the principal in the request context. When the token has aged past the
// refresh threshold, a fresh cookie is set transparently. A missing
// token is rejected exactly like an invalid one.
func RequireSession(sm *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, refreshed, err := sm.Verify(session.FromRequest(r))
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}

			if refreshed != "" {
				sm.SetCookie(w, refreshed)
			}

			ctx := context.WithValue(r.Context(), ContextKeyPrincipal, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability gates a route on the principal's role holding the
// given capability. Must be mounted after RequireSession. The check is a
// pure in-memory lookup; unknown roles are denied.
func RequireCapability(grants *rbac.Grants, capability rbac.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}
			if !grants.Allows(principal.Role, capability) {
				writeAuthError(w, http.StatusForbidden, "forbidden", "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetPrincipal retrieves the authenticated principal from the request
// context. The second return is false when no session was verified.
func GetPrincipal(r *http.Request) (model.Principal, bool) {
	principal, ok := r.Context().Value(ContextKeyPrincipal).(model.Principal)
	return principal, ok
}

// writeAuthError emits the standard error envelope without importing the
// handler package (which imports this one).
func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}
