// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/northbeam/sitecms/internal/model"
)

// ListSettings returns all settings rows ordered by key.
func (q *Queries) ListSettings(ctx context.Context) ([]model.Setting, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT key, value, type, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []model.Setting
	for rows.Next() {
		var s model.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.Type, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// GetSetting returns a single setting row by key.
func (q *Queries) GetSetting(ctx context.Context, key string) (model.Setting, error) {
	var s model.Setting
	err := q.db.QueryRowContext(ctx,
		`SELECT key, value, type, updated_at FROM settings WHERE key = ?`,
		key).Scan(&s.Key, &s.Value, &s.Type, &s.UpdatedAt)
	return s, err
}

// UpsertSetting inserts or overwrites a setting row keyed on the full key.
// Settings are never deleted in normal operation, only overwritten.
func (q *Queries) UpsertSetting(ctx context.Context, s model.Setting) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, type, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			type = excluded.type,
			updated_at = CURRENT_TIMESTAMP`,
		s.Key, s.Value, s.Type)
	return err
}
