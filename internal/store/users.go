// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/northbeam/sitecms/internal/model"
)

const userColumns = `id, name, email, password_hash, role, is_active, image,
	created_at, updated_at, last_login_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.IsActive, &u.Image, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	return u, err
}

// CreateUserParams holds the fields for creating a user.
// PasswordHash may be empty, which stores NULL and disables credential login.
type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	Image        string
}

// CreateUser inserts a new user and returns it.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	var hash any
	if arg.PasswordHash != "" {
		hash = arg.PasswordHash
	}
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, is_active, image)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+userColumns,
		arg.Name, arg.Email, hash, arg.Role, arg.IsActive, arg.Image)
	return scanUser(row)
}

// GetUserByID returns a user by ID.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail returns a user by exact email match.
// Matching is case-sensitive.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// ListUsersParams holds filters and pagination for listing users.
type ListUsersParams struct {
	Role   string // empty = all roles
	Active *bool  // nil = all
	Search string // matches name or email substring
	Limit  int64
	Offset int64
}

func buildUserFilter(arg ListUsersParams) (string, []any) {
	var conds []string
	var args []any
	if arg.Role != "" {
		conds = append(conds, "role = ?")
		args = append(args, arg.Role)
	}
	if arg.Active != nil {
		conds = append(conds, "is_active = ?")
		args = append(args, *arg.Active)
	}
	if arg.Search != "" {
		conds = append(conds, "(name LIKE ? OR email LIKE ?)")
		pattern := "%" + arg.Search + "%"
		args = append(args, pattern, pattern)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListUsers returns users matching the filters, newest first.
func (q *Queries) ListUsers(ctx context.Context, arg ListUsersParams) ([]model.User, error) {
	where, args := buildUserFilter(arg)
	args = append(args, arg.Limit, arg.Offset)
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users`+where+
			` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountUsers returns the number of users matching the filters.
func (q *Queries) CountUsers(ctx context.Context, arg ListUsersParams) (int64, error) {
	where, args := buildUserFilter(arg)
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users`+where, args...).Scan(&count)
	return count, err
}

// CountUsersByEmail counts users with the given email, excluding excludeID.
// Used for uniqueness checks on create (excludeID 0) and update.
func (q *Queries) CountUsersByEmail(ctx context.Context, email string, excludeID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ? AND id != ?`,
		email, excludeID).Scan(&count)
	return count, err
}

// UpdateUserParams holds the fields for updating a user.
// PasswordHash is applied only when non-empty.
type UpdateUserParams struct {
	ID           int64
	Name         string
	Email        string
	Role         string
	IsActive     bool
	Image        string
	PasswordHash string
}

// UpdateUser updates a user and returns the updated row.
func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (model.User, error) {
	if arg.PasswordHash != "" {
		row := q.db.QueryRowContext(ctx, `
			UPDATE users
			SET name = ?, email = ?, role = ?, is_active = ?, image = ?,
			    password_hash = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
			RETURNING `+userColumns,
			arg.Name, arg.Email, arg.Role, arg.IsActive, arg.Image,
			arg.PasswordHash, arg.ID)
		return scanUser(row)
	}
	row := q.db.QueryRowContext(ctx, `
		UPDATE users
		SET name = ?, email = ?, role = ?, is_active = ?, image = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING `+userColumns,
		arg.Name, arg.Email, arg.Role, arg.IsActive, arg.Image, arg.ID)
	return scanUser(row)
}

// TouchUserLastLogin stamps last_login_at for the user.
func (q *Queries) TouchUserLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("touching last login: %w", err)
	}
	return nil
}

// DeleteUser removes a user by ID.
func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
