// Package sequence provides the PostgreSQL implementation of day-scoped code
// allocation for booking codes and voucher numbers.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"tourops/internal/core/apperror"
	coreseq "tourops/internal/core/sequence"
	"tourops/internal/core/types"
	"tourops/internal/infrastructure/storage/postgres"
	"tourops/internal/observability/metrics"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service allocates codes using an atomic UPSERT increment-and-fetch.
// The single statement keeps the counter gapless and duplicate-free under
// concurrency; two parallel allocations for the same (prefix, day) serialize
// on the counter row and observe distinct values.
type Service struct {
	querier    Querier
	maxRetries int
}

// Ensure compile-time interface compliance.
var _ coreseq.Allocator = (*Service)(nil)

// New creates a new sequence allocator backed by the given querier
// (pool or transaction).
func New(querier Querier) *Service {
	return &Service{
		querier:    querier,
		maxRetries: 3,
	}
}

// Allocate returns the next formatted code for prefix on the given day.
func (s *Service) Allocate(ctx context.Context, cfg coreseq.Config, day time.Time) (string, error) {
	if s == nil || s.querier == nil {
		return "", fmt.Errorf("sequence allocator is not initialized")
	}

	dayKey := types.DayKey(day)

	num, err := s.nextValue(ctx, cfg.Prefix, dayKey)
	if err != nil {
		return "", err
	}

	metrics.SequenceAllocationsTotal.WithLabelValues(cfg.Prefix).Inc()

	return formatCode(cfg, dayKey, num), nil
}

// nextValue increments and fetches the counter in one statement. Lost
// serialization races and deadlocks are retried a bounded number of times;
// the statement itself is atomic so a retry never burns a number. Every
// other failure is permanent and surfaces immediately.
func (s *Service) nextValue(ctx context.Context, prefix, dayKey string) (int64, error) {
	var num int64
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.SequenceRetriesTotal.Inc()
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(time.Duration(attempt) * 10 * time.Millisecond):
			}
		}

		err := s.querier.QueryRow(ctx, `
        INSERT INTO sequence_counters (scope_prefix, day_key, last_value)
        VALUES ($1, $2, 1)
        ON CONFLICT (scope_prefix, day_key) DO UPDATE SET last_value = sequence_counters.last_value + 1
        RETURNING last_value
		`, prefix, dayKey).Scan(&num)
		if err == nil {
			return num, nil
		}
		if !apperror.IsConcurrency(postgres.MapError(err)) {
			return 0, fmt.Errorf("allocate next value: %w", err)
		}
		lastErr = err
	}

	return 0, fmt.Errorf("allocate next value: %w", lastErr)
}

// Peek returns the last issued value for (prefix, day) without consuming
// a number.
func (s *Service) Peek(ctx context.Context, cfg coreseq.Config, day time.Time) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
        SELECT last_value FROM sequence_counters
        WHERE scope_prefix = $1 AND day_key = $2
	`, cfg.Prefix, types.DayKey(day)).Scan(&num)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("peek sequence: %w", err)
	}
	return num, nil
}

func formatCode(cfg coreseq.Config, dayKey string, num int64) string {
	pad := cfg.PadWidth
	if pad <= 0 {
		pad = 4
	}
	return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, dayKey, pad, num)
}
