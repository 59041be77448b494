// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/northbeam/sitecms/internal/model"
)

// ErrAuthenticationFailed covers every credential failure: unknown email,
// inactive account, missing password hash, and wrong password. Callers
// must surface all sub-cases identically to avoid account enumeration.
var ErrAuthenticationFailed = errors.New("auth: authentication failed")

// UserStore is the slice of the persistence layer the authenticator needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	TouchUserLastLogin(ctx context.Context, id int64, at time.Time) error
}

// Authenticator verifies credential pairs against stored users.
type Authenticator struct {
	users  UserStore
	logger *slog.Logger
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(users UserStore, logger *slog.Logger) *Authenticator {
	return &Authenticator{users: users, logger: logger}
}

// Authenticate checks an email/password pair and returns the principal on
// success. Email matching is a case-sensitive exact match. The returned
// error is always ErrAuthenticationFailed for credential problems; the
// distinguishing detail goes to the log only. Lookup failures other than
// a missing row propagate as-is.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (model.Principal, error) {
	user, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			a.logger.Info("login rejected", "reason", "unknown email", "email", email)
			return model.Principal{}, ErrAuthenticationFailed
		}
		return model.Principal{}, err
	}

	if !user.IsActive {
		a.logger.Info("login rejected", "reason", "inactive account", "user_id", user.ID)
		return model.Principal{}, ErrAuthenticationFailed
	}

	if !user.PasswordHash.Valid || user.PasswordHash.String == "" {
		a.logger.Info("login rejected", "reason", "no password set", "user_id", user.ID)
		return model.Principal{}, ErrAuthenticationFailed
	}

	if !CheckPassword(password, user.PasswordHash.String) {
		a.logger.Info("login rejected", "reason", "wrong password", "user_id", user.ID)
		return model.Principal{}, ErrAuthenticationFailed
	}

	if err := a.users.TouchUserLastLogin(ctx, user.ID, time.Now()); err != nil {
		// Login still succeeds; the timestamp is informational.
		a.logger.Warn("updating last login failed", "user_id", user.ID, "error", err)
	}

	a.logger.Info("login succeeded", "user_id", user.ID, "role", user.Role)

	return model.Principal{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		Image: user.Image,
	}, nil
}
