// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package settings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/northbeam/sitecms/internal/store"
)

// Service loads and saves the grouped settings object.
type Service struct {
	db      *sql.DB
	queries *store.Queries
}

// NewService creates a settings Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db, queries: store.New(db)}
}

// Load reads all settings rows and groups them by category.
func (s *Service) Load(ctx context.Context) (Nested, error) {
	rows, err := s.queries.ListSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	return Unflatten(rows), nil
}

// Save flattens the nested object and upserts every row inside a single
// transaction, so an interrupted save never leaves a partial update.
func (s *Service) Save(ctx context.Context, nested Nested) error {
	rows, err := Flatten(nested)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := s.queries.WithTx(tx)
	for _, row := range rows {
		if err := queries.UpsertSetting(ctx, row); err != nil {
			return fmt.Errorf("upserting %q: %w", row.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing settings: %w", err)
	}
	return nil
}
