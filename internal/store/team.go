// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/northbeam/sitecms/internal/model"
)

const teamColumns = `id, name, role_title, bio, image, sort_order, is_active,
	created_at, updated_at`

func scanTeamMember(row interface{ Scan(...any) error }) (model.TeamMember, error) {
	var m model.TeamMember
	err := row.Scan(&m.ID, &m.Name, &m.RoleTitle, &m.Bio, &m.Image,
		&m.SortOrder, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// CreateTeamMemberParams holds the fields for creating a team member.
type CreateTeamMemberParams struct {
	Name      string
	RoleTitle string
	Bio       string
	Image     string
	SortOrder int64
	IsActive  bool
}

// CreateTeamMember inserts a new team member and returns it.
func (q *Queries) CreateTeamMember(ctx context.Context, arg CreateTeamMemberParams) (model.TeamMember, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO team_members (name, role_title, bio, image, sort_order, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+teamColumns,
		arg.Name, arg.RoleTitle, arg.Bio, arg.Image, arg.SortOrder, arg.IsActive)
	return scanTeamMember(row)
}

// GetTeamMemberByID returns a team member by ID.
func (q *Queries) GetTeamMemberByID(ctx context.Context, id int64) (model.TeamMember, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM team_members WHERE id = ?`, id)
	return scanTeamMember(row)
}

// ListTeamMembers returns team members ordered by sort order.
// When activeOnly is true, inactive members are excluded.
func (q *Queries) ListTeamMembers(ctx context.Context, activeOnly bool) ([]model.TeamMember, error) {
	query := `SELECT ` + teamColumns + ` FROM team_members`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY sort_order ASC, id ASC`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.TeamMember
	for rows.Next() {
		m, err := scanTeamMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// UpdateTeamMemberParams holds the fields for updating a team member.
type UpdateTeamMemberParams struct {
	ID        int64
	Name      string
	RoleTitle string
	Bio       string
	Image     string
	SortOrder int64
	IsActive  bool
}

// UpdateTeamMember updates a team member and returns the updated row.
func (q *Queries) UpdateTeamMember(ctx context.Context, arg UpdateTeamMemberParams) (model.TeamMember, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE team_members
		SET name = ?, role_title = ?, bio = ?, image = ?, sort_order = ?,
		    is_active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING `+teamColumns,
		arg.Name, arg.RoleTitle, arg.Bio, arg.Image, arg.SortOrder,
		arg.IsActive, arg.ID)
	return scanTeamMember(row)
}

// DeleteTeamMember removes a team member by ID.
func (q *Queries) DeleteTeamMember(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, `DELETE FROM team_members WHERE id = ?`, id)
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
