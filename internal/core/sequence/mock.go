// Package sequence provides domain contracts for day-scoped code allocation.
package sequence

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockAllocator is a test implementation of Allocator.
// Use in unit tests to avoid database dependencies.
type MockAllocator struct {
	AllocateFunc func(ctx context.Context, cfg Config, day time.Time) (string, error)

	mu       sync.Mutex
	counters map[string]int64
}

// Allocate implements Allocator. Without a custom AllocateFunc it behaves as
// an in-memory day-scoped counter with the production format.
func (m *MockAllocator) Allocate(ctx context.Context, cfg Config, day time.Time) (string, error) {
	if m.AllocateFunc != nil {
		return m.AllocateFunc(ctx, cfg, day)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}

	dayKey := day.UTC().Format("20060102")
	key := cfg.Prefix + "-" + dayKey
	m.counters[key]++

	pad := cfg.PadWidth
	if pad == 0 {
		pad = 4
	}
	return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, dayKey, pad, m.counters[key]), nil
}

// Peek implements Allocator.
func (m *MockAllocator) Peek(ctx context.Context, cfg Config, day time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := cfg.Prefix + "-" + day.UTC().Format("20060102")
	return m.counters[key], nil
}

// Ensure compile-time interface compliance.
var _ Allocator = (*MockAllocator)(nil)
