// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northbeam/sitecms/internal/model"
)

var testSecret = []byte("test-secret-0123456789-0123456789-ab")

func testPrincipal() model.Principal {
	return model.Principal{
		ID:    7,
		Email: "admin@northbeam.dev",
		Name:  "Admin",
		Role:  "admin",
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := NewManager(testSecret, false)

	token, err := m.Issue(testPrincipal())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	p, refreshed, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "admin@northbeam.dev", p.Email)
	assert.Equal(t, "Admin", p.Name)
	assert.Equal(t, "admin", p.Role)
	assert.Empty(t, refreshed, "fresh token must not trigger a refresh")
}

func TestVerifyEmptyToken(t *testing.T) {
	m := NewManager(testSecret, false)

	_, _, err := m.Verify("")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifyTamperedToken(t *testing.T) {
	m := NewManager(testSecret, false)

	token, err := m.Issue(testPrincipal())
	require.NoError(t, err)

	// Flip a character in the signature segment.
	tampered := token[:len(token)-2] + "xx"
	_, _, err = m.Verify(tampered)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewManager(testSecret, false)
	verifier := NewManager([]byte("another-secret-entirely-0123456789ab"), false)

	token, err := issuer.Issue(testPrincipal())
	require.NoError(t, err)

	_, _, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifyExpiredToken(t *testing.T) {
	m := NewManager(testSecret, false)

	issued := time.Now()
	m.now = func() time.Time { return issued }
	token, err := m.Issue(testPrincipal())
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(Lifetime + time.Minute) }
	_, _, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifyRefreshThreshold(t *testing.T) {
	m := NewManager(testSecret, false)

	// The iat claim drops sub-second precision, so issue at an instant
	// with a fraction and check the threshold is still respected.
	issued := time.Now().Truncate(time.Second).Add(700 * time.Millisecond)
	m.now = func() time.Time { return issued }
	token, err := m.Issue(testPrincipal())
	require.NoError(t, err)

	// At exactly the threshold no refresh is due.
	m.now = func() time.Time { return issued.Add(RefreshAfter) }
	_, refreshed, err := m.Verify(token)
	require.NoError(t, err)
	assert.Empty(t, refreshed)

	// Past the threshold a new token is issued with the same identity.
	m.now = func() time.Time { return issued.Add(RefreshAfter + time.Minute) }
	p, refreshed, err := m.Verify(token)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed)
	assert.NotEqual(t, token, refreshed)

	p2, again, err := m.Verify(refreshed)
	require.NoError(t, err)
	assert.Equal(t, p, p2)
	assert.Empty(t, again, "freshly refreshed token must verify without another refresh")
}

func TestVerifyRejectsBadSubject(t *testing.T) {
	m := NewManager(testSecret, false)

	token, err := m.Issue(model.Principal{ID: 0, Role: "admin"})
	require.NoError(t, err)

	_, _, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(r *http.Request)
		expect string
	}{
		{
			name:   "neither set",
			setup:  func(r *http.Request) {},
			expect: "",
		},
		{
			name: "cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
			},
			expect: "cookie-token",
		},
		{
			name: "bearer header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer header-token")
			},
			expect: "header-token",
		},
		{
			name: "cookie wins over header",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
				r.Header.Set("Authorization", "Bearer header-token")
			},
			expect: "cookie-token",
		},
		{
			name: "malformed header ignored",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
			},
			expect: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(r)
			assert.Equal(t, tt.expect, FromRequest(r))
		})
	}
}

func TestSetAndClearCookie(t *testing.T) {
	m := NewManager(testSecret, true)

	w := httptest.NewRecorder()
	m.SetCookie(w, "abc")
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, int(Lifetime.Seconds()), c.MaxAge)

	w = httptest.NewRecorder()
	m.ClearCookie(w)
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
