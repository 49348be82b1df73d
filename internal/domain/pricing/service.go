package pricing

import (
	"context"
	"time"

	"tourops/internal/core/apperror"
	"tourops/internal/core/audit"
	"tourops/internal/core/id"
	"tourops/internal/core/tx"
	"tourops/internal/core/types"
	"tourops/internal/observability/metrics"
	"tourops/pkg/logger"
)

// maxWriteRetries bounds internal retries after a lost serialization race.
const maxWriteRetries = 3

// Service provides business operations for the rate period catalog and the
// rate resolver.
type Service struct {
	repo      Repository
	txManager tx.Manager
	audit     audit.Recorder
}

// NewService creates a new pricing service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// SetAuditRecorder enables audit trailing for rate period mutations. Entries
// are written inside the mutation's transaction.
func (s *Service) SetAuditRecorder(recorder audit.Recorder) {
	s.audit = recorder
}

func (s *Service) recordAudit(ctx context.Context, periodID id.ID, action string, changes map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, "rate_period", periodID, action, changes); err != nil {
		logger.Warn(ctx, "audit record failed",
			"rate_period_id", periodID,
			"action", action,
			"error", err)
	}
}

// Create validates and saves a new rate period.
//
// The overlap check and the insert run in one serializable transaction:
// "check overlap, then insert" is a check-then-act race under concurrent
// writers, and the schema's exclusion constraint is only the second line of
// defense. Serialization failures are retried a bounded number of times.
func (s *Service) Create(ctx context.Context, period *RatePeriod) error {
	period.ValidFrom = types.DateOnly(period.ValidFrom)
	period.ValidTo = types.DateOnly(period.ValidTo)

	if err := period.Validate(ctx); err != nil {
		return err
	}

	err := s.withWriteRetry(ctx, func(ctx context.Context) error {
		existing, err := s.repo.ListByScope(ctx, period.Scope, true)
		if err != nil {
			return err
		}

		if err := CheckInterval(period, existing, id.Nil()); err != nil {
			metrics.RateConflictsTotal.Inc()
			return err
		}

		if err := s.repo.Create(ctx, period); err != nil {
			return err
		}

		s.recordAudit(ctx, period.ID, "create", map[string]any{
			"scope":     period.Scope,
			"label":     period.Label,
			"validFrom": types.FormatDate(period.ValidFrom),
			"validTo":   types.FormatDate(period.ValidTo),
		})
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "rate period created",
		"id", period.ID,
		"scope", period.Scope,
		"label", period.Label,
		"valid_from", types.FormatDate(period.ValidFrom),
		"valid_to", types.FormatDate(period.ValidTo))

	return nil
}

// Update edits an existing rate period, revalidating the interval against
// every other active period of the scope.
func (s *Service) Update(ctx context.Context, period *RatePeriod) error {
	period.ValidFrom = types.DateOnly(period.ValidFrom)
	period.ValidTo = types.DateOnly(period.ValidTo)

	if err := period.Validate(ctx); err != nil {
		return err
	}

	err := s.withWriteRetry(ctx, func(ctx context.Context) error {
		existing, err := s.repo.ListByScope(ctx, period.Scope, true)
		if err != nil {
			return err
		}

		if err := CheckInterval(period, existing, period.ID); err != nil {
			metrics.RateConflictsTotal.Inc()
			return err
		}

		if err := s.repo.Update(ctx, period); err != nil {
			return err
		}

		s.recordAudit(ctx, period.ID, "update", map[string]any{
			"scope":     period.Scope,
			"label":     period.Label,
			"validFrom": types.FormatDate(period.ValidFrom),
			"validTo":   types.FormatDate(period.ValidTo),
		})
		return nil
	})
	if err != nil {
		return err
	}

	// In-memory version catches up only once the write has landed; the repo
	// locks on the loaded version and owns the column increment.
	period.Touch()
	return nil
}

// Deactivate soft-retires a rate period. Periods are never hard-deleted.
func (s *Service) Deactivate(ctx context.Context, periodID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		period, err := s.repo.GetByID(ctx, periodID)
		if err != nil {
			return err
		}
		if !period.Active {
			return nil
		}

		period.Active = false
		// The repo builds its lock predicate from the loaded version.
		if err := s.repo.Update(ctx, period); err != nil {
			return err
		}
		period.Touch()

		s.recordAudit(ctx, period.ID, "deactivate", map[string]any{
			"scope": period.Scope,
			"label": period.Label,
		})
		return nil
	})
}

// GetByID retrieves a single rate period.
func (s *Service) GetByID(ctx context.Context, periodID id.ID) (*RatePeriod, error) {
	return s.repo.GetByID(ctx, periodID)
}

// ListByScope returns a scope's rate periods.
func (s *Service) ListByScope(ctx context.Context, scope Scope, activeOnly bool) ([]*RatePeriod, error) {
	return s.repo.ListByScope(ctx, scope, activeOnly)
}

// Resolve returns the single applicable tier for (scope, date, partySize).
// Pure read: the catalog is never mutated here.
func (s *Service) Resolve(ctx context.Context, scope Scope, date time.Time, partySize int) (*RateQuote, error) {
	if scope == "" {
		return nil, apperror.NewValidation("scope is required").
			WithDetail("field", "scope")
	}

	day := types.DateOnly(date)

	candidates, err := s.repo.FindCovering(ctx, scope, day)
	if err != nil {
		return nil, err
	}

	period, conflict := pickPeriod(candidates)
	if period == nil {
		return nil, apperror.NewNotFound("rate period", string(scope)).
			WithDetail("date", types.FormatDate(day))
	}

	if conflict {
		// Dirty catalog data (imported outside the validator). The lookup
		// still answers; the winner is the most recently created period.
		labels := make([]string, 0, len(candidates))
		for _, c := range candidates {
			labels = append(labels, c.Label)
		}
		metrics.RateConflictsTotal.Inc()
		logger.Warn(ctx, "overlapping rate periods found during resolve",
			"scope", scope,
			"date", types.FormatDate(day),
			"labels", labels,
			"picked", period.Label)
	}

	tier, approximate, err := SelectTier(period.Tiers, partySize)
	if err != nil {
		return nil, err
	}

	return &RateQuote{
		PeriodID:    period.ID.String(),
		Scope:       scope,
		Label:       period.Label,
		Currency:    period.Currency,
		Date:        day,
		Bucket:      tier.Bucket,
		Price:       tier.Price,
		Approximate: approximate,
	}, nil
}

// withWriteRetry runs fn in a serializable transaction, retrying bounded
// times when the transaction loses a serialization race. Exhausted retries
// surface as a transient failure, never as a raw concurrency error.
func (s *Service) withWriteRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		lastErr = s.txManager.RunSerializable(ctx, fn)
		if lastErr == nil || !apperror.IsConcurrency(lastErr) {
			return lastErr
		}
		logger.Debug(ctx, "retrying rate period write after serialization failure",
			"attempt", attempt+1)
	}
	return apperror.NewTransient(lastErr)
}
