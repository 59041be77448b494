// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/northbeam/sitecms/internal/settings"
)

const (
	settingsCacheKey = "settings"
	settingsTTL      = 5 * time.Minute
)

// Manager fronts the site settings with a cache so public page renders
// do not hit the database for every request. Admin saves call
// InvalidateSettings, so the TTL only matters for out-of-band edits.
type Manager struct {
	store    Store
	settings *settings.Service
	logger   *slog.Logger
}

// NewManager creates a Manager over the given backend.
func NewManager(store Store, svc *settings.Service, logger *slog.Logger) *Manager {
	return &Manager{store: store, settings: svc, logger: logger}
}

// Settings returns the decoded site settings, from cache when fresh.
// Cache failures fall through to the database.
func (m *Manager) Settings(ctx context.Context) (settings.Nested, error) {
	if data, err := m.store.Get(ctx, settingsCacheKey); err == nil {
		var nested settings.Nested
		if err := json.Unmarshal(data, &nested); err == nil {
			return nested, nil
		}
		// Corrupt entry; drop it and reload from the database.
		_ = m.store.Delete(ctx, settingsCacheKey)
	}

	nested, err := m.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(nested); err == nil {
		if err := m.store.Set(ctx, settingsCacheKey, data, settingsTTL); err != nil {
			m.logger.Warn("caching settings", "error", err)
		}
	}
	return nested, nil
}

// String returns a string setting, or fallback when absent.
func (m *Manager) String(ctx context.Context, category, field, fallback string) string {
	nested, err := m.Settings(ctx)
	if err != nil {
		return fallback
	}
	if v, ok := nested[category][field].(string); ok {
		return v
	}
	return fallback
}

// Int returns a number setting, or fallback when absent. Settings that
// passed through the cache arrive as float64 and are truncated.
func (m *Manager) Int(ctx context.Context, category, field string, fallback int) int {
	nested, err := m.Settings(ctx)
	if err != nil {
		return fallback
	}
	switch v := nested[category][field].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}

// Bool returns a boolean setting, or fallback when absent.
func (m *Manager) Bool(ctx context.Context, category, field string, fallback bool) bool {
	nested, err := m.Settings(ctx)
	if err != nil {
		return fallback
	}
	if v, ok := nested[category][field].(bool); ok {
		return v
	}
	return fallback
}

// InvalidateSettings drops the cached settings.
func (m *Manager) InvalidateSettings(ctx context.Context) {
	if err := m.store.Delete(ctx, settingsCacheKey); err != nil {
		m.logger.Warn("invalidating settings cache", "error", err)
	}
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.store.Close()
}
