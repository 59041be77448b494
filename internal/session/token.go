// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session issues and verifies the signed tokens that carry an
// authenticated principal between requests. The token is the sole
// carrier of the role for its lifetime: a role change in the database
// takes effect only after the user signs in again.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/northbeam/sitecms/internal/model"
)

// Token lifetime parameters.
const (
	// Lifetime is the absolute expiry of an issued token.
	Lifetime = 8 * time.Hour
	// RefreshAfter is the token age past which verification reissues a
	// fresh token with a renewed expiry (sliding refresh).
	RefreshAfter = 2 * time.Hour
)

// CookieName is the cookie that carries the session token.
const CookieName = "sitecms_session"

// ErrUnauthenticated is returned for any token problem: missing,
// malformed, tampered, or expired. Absence is treated identically to
// invalidity.
var ErrUnauthenticated = errors.New("session: unauthenticated")

// Claims is the JWT payload. The role claim is a snapshot taken at
// issuance and is never re-read from storage mid-session.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	Image string `json:"image,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens.
type Manager struct {
	secret []byte
	secure bool
	now    func() time.Time
}

// NewManager creates a Manager. secure controls the Secure attribute on
// issued cookies and should be true outside development.
func NewManager(secret []byte, secure bool) *Manager {
	return &Manager{secret: secret, secure: secure, now: time.Now}
}

// Issue encodes the principal into a signed token expiring after Lifetime.
func (m *Manager) Issue(p model.Principal) (string, error) {
	now := m.now()
	claims := Claims{
		Name:  p.Name,
		Email: p.Email,
		Role:  p.Role,
		Image: p.Image,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", p.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(Lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify validates signature and expiry and returns the principal along
// with a refreshed token when the original has aged past RefreshAfter.
// The refreshed token preserves the original subject and role. When no
// refresh is due, the returned token is empty.
func (m *Manager) Verify(tokenString string) (model.Principal, string, error) {
	if tokenString == "" {
		return model.Principal{}, "", ErrUnauthenticated
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return model.Principal{}, "", ErrUnauthenticated
	}

	var id int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &id); err != nil || id <= 0 {
		return model.Principal{}, "", ErrUnauthenticated
	}

	principal := model.Principal{
		ID:    id,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
		Image: claims.Image,
	}

	var refreshed string
	// iat is stored at whole-second precision; compare at the same
	// precision so a token aged exactly RefreshAfter is not refreshed.
	if claims.IssuedAt != nil && m.now().Truncate(time.Second).Sub(claims.IssuedAt.Time) > RefreshAfter {
		refreshed, err = m.Issue(principal)
		if err != nil {
			// Verification succeeded; serve the request on the old token.
			refreshed = ""
		}
	}

	return principal, refreshed, nil
}

// SetCookie writes the session cookie for the given token.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(Lifetime.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest extracts the token from the session cookie or, failing
// that, a Bearer Authorization header. Returns "" when neither is set.
func FromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}
