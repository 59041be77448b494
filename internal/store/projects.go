// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/northbeam/sitecms/internal/model"
)

const projectColumns = `id, title, slug, client, summary, body, status,
	sort_order, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Client, &p.Summary, &p.Body,
		&p.Status, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateProjectParams holds the fields for creating a project.
type CreateProjectParams struct {
	Title     string
	Slug      string
	Client    string
	Summary   string
	Body      string
	Status    string
	SortOrder int64
}

// CreateProject inserts a new project and returns it.
func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (model.Project, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO projects (title, slug, client, summary, body, status, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+projectColumns,
		arg.Title, arg.Slug, arg.Client, arg.Summary, arg.Body, arg.Status, arg.SortOrder)
	return scanProject(row)
}

// GetProjectByID returns a project by ID regardless of status.
func (q *Queries) GetProjectByID(ctx context.Context, id int64) (model.Project, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

// GetPublishedProjectBySlug returns a published project by slug.
func (q *Queries) GetPublishedProjectBySlug(ctx context.Context, slug string) (model.Project, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE slug = ? AND status = ?`,
		slug, model.StatusPublished)
	return scanProject(row)
}

// CountProjectsBySlug counts projects with the given slug, excluding excludeID.
func (q *Queries) CountProjectsBySlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE slug = ? AND id != ?`,
		slug, excludeID).Scan(&count)
	return count, err
}

// ListProjects returns projects filtered by status (empty = all),
// ordered by sort order.
func (q *Queries) ListProjects(ctx context.Context, status string, limit, offset int64) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY sort_order ASC, id ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CountProjects returns the number of projects with the given status
// (empty = all).
func (q *Queries) CountProjects(ctx context.Context, status string) (int64, error) {
	var count int64
	var err error
	if status == "" {
		err = q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count)
	} else {
		err = q.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM projects WHERE status = ?`, status).Scan(&count)
	}
	return count, err
}

// UpdateProjectParams holds the fields for updating a project.
type UpdateProjectParams struct {
	ID        int64
	Title     string
	Slug      string
	Client    string
	Summary   string
	Body      string
	Status    string
	SortOrder int64
}

// UpdateProject updates a project and returns the updated row.
func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) (model.Project, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE projects
		SET title = ?, slug = ?, client = ?, summary = ?, body = ?,
		    status = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING `+projectColumns,
		arg.Title, arg.Slug, arg.Client, arg.Summary, arg.Body,
		arg.Status, arg.SortOrder, arg.ID)
	return scanProject(row)
}

// DeleteProject removes a project by ID.
func (q *Queries) DeleteProject(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
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
