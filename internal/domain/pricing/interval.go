package pricing

import (
	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
	"tourops/internal/core/types"
)

// CheckInterval validates a candidate rate period against the existing
// periods of the same scope.
//
// It rejects a malformed interval (validFrom > validTo) before any
// comparison, then checks pairwise overlap against every active period other
// than excludeID (set on edit so a period does not conflict with itself).
// Two closed intervals [a1,a2] and [b1,b2] overlap iff a1 <= b2 && b1 <= a2.
//
// This check is necessary but not sufficient under concurrency: the service
// runs it inside a serializable transaction, and the schema carries an
// exclusion constraint on (scope, daterange) as defense-in-depth.
func CheckInterval(candidate *RatePeriod, existing []*RatePeriod, excludeID id.ID) error {
	if candidate.ValidFrom.After(candidate.ValidTo) {
		return apperror.NewMalformedInterval(
			types.FormatDate(candidate.ValidFrom), types.FormatDate(candidate.ValidTo))
	}

	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}
		if other.Scope != candidate.Scope || !other.Active {
			continue
		}
		if overlaps(candidate, other) {
			return apperror.NewRatePeriodOverlap(string(candidate.Scope), other.Label).
				WithDetail("existingId", other.ID.String()).
				WithDetail("existingFrom", types.FormatDate(other.ValidFrom)).
				WithDetail("existingTo", types.FormatDate(other.ValidTo))
		}
	}

	return nil
}

// overlaps tests closed-interval intersection on date-only bounds.
func overlaps(a, b *RatePeriod) bool {
	return !a.ValidFrom.After(b.ValidTo) && !b.ValidFrom.After(a.ValidTo)
}
