// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Memory is an in-process Store. It keeps copies of stored values so
// callers cannot mutate cached data after the fact.
type Memory struct {
	data       sync.Map
	defaultTTL time.Duration
	stopCh     chan struct{}
	closed     atomic.Bool
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory creates a memory store with the given default TTL. A
// background goroutine sweeps expired entries once a minute until
// Close is called.
func NewMemory(defaultTTL time.Duration) *Memory {
	m := &Memory{
		defaultTTL: defaultTTL,
		stopCh:     make(chan struct{}),
	}
	go m.sweepLoop(time.Minute)
	return m
}

// Get returns the value for key, or ErrMiss.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	val, ok := m.data.Load(key)
	if !ok {
		return nil, ErrMiss
	}
	entry := val.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		m.data.Delete(key)
		return nil, ErrMiss
	}
	result := make([]byte, len(entry.value))
	copy(result, entry.value)
	return result, nil
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if ttl == 0 {
		ttl = m.defaultTTL
	}
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	m.data.Store(key, &memoryEntry{value: valueCopy, expiresAt: time.Now().Add(ttl)})
	return nil
}

// Delete removes key.
func (m *Memory) Delete(_ context.Context, key string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.data.Delete(key)
	return nil
}

// Clear removes all entries.
func (m *Memory) Clear(_ context.Context) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.data.Range(func(key, _ any) bool {
		m.data.Delete(key)
		return true
	})
	return nil
}

// Close stops the sweep goroutine.
func (m *Memory) Close() error {
	if m.closed.CompareAndSwap(false, true) {
		close(m.stopCh)
	}
	return nil
}

func (m *Memory) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			m.data.Range(func(key, value any) bool {
				if now.After(value.(*memoryEntry).expiresAt) {
					m.data.Delete(key)
				}
				return true
			})
		case <-m.stopCh:
			return
		}
	}
}

var _ Store = (*Memory)(nil)
