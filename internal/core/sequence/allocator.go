// Package sequence provides domain contracts for day-scoped code allocation.
// Implementations live in the infrastructure layer.
package sequence

import (
	"context"
	"time"
)

// Allocator produces unique, monotonically increasing, day-scoped codes for
// booking codes and voucher numbers.
//
// For a fixed (prefix, day) pair, concurrently issued allocations must return
// distinct, contiguous integers with no gaps and no duplicates. Allocation is
// an atomic increment-and-fetch at the storage layer; a read-then-insert
// pattern is not an acceptable implementation.
type Allocator interface {
	// Allocate returns the next formatted code for prefix on the given day,
	// formatted PREFIX-YYYYMMDD-NNNN (4-digit, zero-padded sequence).
	Allocate(ctx context.Context, cfg Config, day time.Time) (string, error)

	// Peek returns the last issued value for (prefix, day) without
	// consuming a number. Returns 0 when no counter row exists yet.
	Peek(ctx context.Context, cfg Config, day time.Time) (int64, error)
}

// Config holds allocation configuration for one code family.
type Config struct {
	// Prefix added to all codes (e.g. "BK", "VC")
	Prefix string

	// PadWidth is the minimum sequence width (default 4)
	PadWidth int
}

// DefaultConfig returns the standard day-scoped configuration.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:   prefix,
		PadWidth: 4,
	}
}
