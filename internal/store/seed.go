// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/northbeam/sitecms/internal/auth"
	"github.com/northbeam/sitecms/internal/model"
)

// Default admin credentials; replaced on first login in any real deployment.
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// defaultSettings are the rows created on first run. Values the admin UI
// expects to exist; each is only written when absent.
var defaultSettings = []model.Setting{
	{Key: "general_siteName", Value: "Northbeam Software", Type: model.SettingTypeString},
	{Key: "general_siteDescription", Value: "Software consultancy", Type: model.SettingTypeString},
	{Key: "general_contactEmail", Value: "hello@example.com", Type: model.SettingTypeString},
	{Key: "blog_postsPerPage", Value: "10", Type: model.SettingTypeNumber},
	{Key: "blog_showAuthors", Value: "true", Type: model.SettingTypeBoolean},
	{Key: "social_links", Value: "{}", Type: model.SettingTypeJSON},
	// Stored for the settings UI but not enforced anywhere yet.
	{Key: "security_maxLoginAttempts", Value: "5", Type: model.SettingTypeNumber},
	{Key: "security_sessionTimeout", Value: "480", Type: model.SettingTypeNumber},
}

// Seed creates the initial admin user and default settings.
// Safe to run repeatedly; existing data is never overwritten.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	if err := seedAdmin(ctx, queries); err != nil {
		return err
	}
	return seedSettings(ctx, queries)
}

func seedAdmin(ctx context.Context, queries *Queries) error {
	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Name:         DefaultAdminName,
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
	)
	return nil
}

func seedSettings(ctx context.Context, queries *Queries) error {
	for _, s := range defaultSettings {
		_, err := queries.GetSetting(ctx, s.Key)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking setting %q: %w", s.Key, err)
		}
		if err := queries.UpsertSetting(ctx, s); err != nil {
			return fmt.Errorf("seeding setting %q: %w", s.Key, err)
		}
	}
	return nil
}
