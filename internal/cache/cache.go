// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides caching for site settings and rendered
// fragments, backed by either an in-process store or Redis.
package cache

import (
	"context"
	"time"
)

// Store is the backend interface. Implementations must be safe for
// concurrent use. Values are []byte so memory and Redis backends share
// one contract.
type Store interface {
	// Get returns the value for key, or ErrMiss if absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero TTL uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Error is the error type for cache operations.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrMiss indicates the key was not found or has expired.
	ErrMiss Error = "cache miss"

	// ErrClosed indicates the store has been closed.
	ErrClosed Error = "cache closed"
)
