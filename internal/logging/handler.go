// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors WARN and above
// into the database audit log.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/northbeam/sitecms/internal/store"
)

// Audit event levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Audit event categories.
const (
	CategoryAuth    = "auth"
	CategoryContent = "content"
	CategoryUser    = "user"
	CategoryConfig  = "config"
	CategorySystem  = "system"
)

// AuditHandler wraps another slog.Handler and additionally writes
// records at or above its threshold to the audit_log table.
type AuditHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
}

// NewAuditHandler wraps inner, mirroring WARN and above to the audit log.
func NewAuditHandler(inner slog.Handler, db *sql.DB) *AuditHandler {
	return &AuditHandler{
		inner:   inner,
		queries: store.New(db),
		level:   slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *AuditHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *AuditHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writeAuditEvent(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *AuditHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AuditHandler{inner: h.inner.WithAttrs(attrs), queries: h.queries, level: h.level}
}

// WithGroup implements slog.Handler.
func (h *AuditHandler) WithGroup(name string) slog.Handler {
	return &AuditHandler{inner: h.inner.WithGroup(name), queries: h.queries, level: h.level}
}

func (h *AuditHandler) writeAuditEvent(r slog.Record) {
	var userID *int64
	attrs := make(map[string]string)
	category := ""

	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "category":
			category = a.Value.String()
		case "user_id":
			if id, ok := a.Value.Any().(int64); ok {
				userID = &id
			} else {
				attrs[a.Key] = a.Value.String()
			}
		default:
			attrs[a.Key] = a.Value.String()
		}
		return true
	})

	metadata := ""
	if len(attrs) > 0 {
		if data, err := json.Marshal(attrs); err == nil {
			metadata = string(data)
		}
	}

	// Background context so the event lands even when the request
	// context was cancelled.
	_ = h.queries.CreateAuditEvent(context.Background(), store.CreateAuditEventParams{
		Level:    slogLevelToAuditLevel(r.Level),
		Category: categoryOrInferred(category, r.Message),
		Message:  r.Message,
		Metadata: metadata,
		UserID:   userID,
	})
}

func slogLevelToAuditLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return LevelError
	case level >= slog.LevelWarn:
		return LevelWarning
	default:
		return LevelInfo
	}
}

// categoryOrInferred returns the explicit category when given, and
// otherwise guesses from the message text.
func categoryOrInferred(category, message string) string {
	if category != "" {
		return category
	}
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "login") || strings.Contains(msg, "logout") || strings.Contains(msg, "auth"):
		return CategoryAuth
	case strings.Contains(msg, "post") || strings.Contains(msg, "project") || strings.Contains(msg, "inquiry") || strings.Contains(msg, "media"):
		return CategoryContent
	case strings.Contains(msg, "user"):
		return CategoryUser
	case strings.Contains(msg, "setting"):
		return CategoryConfig
	default:
		return CategorySystem
	}
}
