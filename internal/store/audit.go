// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// AuditEvent is a row in the audit log.
type AuditEvent struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  sql.NullString
	UserID    sql.NullInt64
	CreatedAt time.Time
}

// CreateAuditEventParams holds the fields for an audit log entry.
type CreateAuditEventParams struct {
	Level    string
	Category string
	Message  string
	Metadata string // JSON blob, may be empty
	UserID   *int64
}

// CreateAuditEvent appends an entry to the audit log.
func (q *Queries) CreateAuditEvent(ctx context.Context, arg CreateAuditEventParams) error {
	var metadata any
	if arg.Metadata != "" {
		metadata = arg.Metadata
	}
	var userID any
	if arg.UserID != nil {
		userID = *arg.UserID
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO audit_log (level, category, message, metadata, user_id)
		VALUES (?, ?, ?, ?, ?)`,
		arg.Level, arg.Category, arg.Message, metadata, userID)
	return err
}

// ListAuditEvents returns audit entries, newest first.
func (q *Queries) ListAuditEvents(ctx context.Context, limit, offset int64) ([]AuditEvent, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, level, category, message, metadata, user_id, created_at
		FROM audit_log ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var e AuditEvent
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message,
			&e.Metadata, &e.UserID, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
