// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// Media represents an uploaded file's metadata.
type Media struct {
	ID           int64         `json:"id"`
	Filename     string        `json:"filename"`
	OriginalName string        `json:"original_name"`
	MimeType     string        `json:"mime_type"`
	Size         int64         `json:"size"`
	Width        int64         `json:"width"`
	Height       int64         `json:"height"`
	UploadedBy   sql.NullInt64 `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
}

// CreateMediaParams holds the fields for recording an upload.
type CreateMediaParams struct {
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Width        int64
	Height       int64
	UploadedBy   int64
}

// CreateMedia inserts an upload record and returns it.
func (q *Queries) CreateMedia(ctx context.Context, arg CreateMediaParams) (Media, error) {
	var m Media
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO media (filename, original_name, mime_type, size, width, height, uploaded_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, filename, original_name, mime_type, size, width, height, uploaded_by, created_at`,
		arg.Filename, arg.OriginalName, arg.MimeType, arg.Size,
		arg.Width, arg.Height, arg.UploadedBy,
	).Scan(&m.ID, &m.Filename, &m.OriginalName, &m.MimeType, &m.Size,
		&m.Width, &m.Height, &m.UploadedBy, &m.CreatedAt)
	return m, err
}

// CountMedia returns the total number of upload records.
func (q *Queries) CountMedia(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&count)
	return count, err
}

// ListMedia returns upload records, newest first.
func (q *Queries) ListMedia(ctx context.Context, limit, offset int64) ([]Media, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, filename, original_name, mime_type, size, width, height, uploaded_by, created_at
		FROM media ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []Media
	for rows.Next() {
		var m Media
		if err := rows.Scan(&m.ID, &m.Filename, &m.OriginalName, &m.MimeType,
			&m.Size, &m.Width, &m.Height, &m.UploadedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}
