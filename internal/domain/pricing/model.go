// Package pricing provides the temporal rate catalog: time-bounded rate
// periods per pricing scope, overlap validation, and date-based resolution.
package pricing

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"tourops/internal/core/apperror"
	"tourops/internal/core/entity"
	"tourops/internal/core/types"
)

// Scope identifies which pricing catalog a rate period belongs to: a specific
// hotel, or a city+supplier+vehicle-type combination. Stored as an opaque
// string key, e.g. "hotel:1f0b..." or "transfer:hanoi:sup-12:minivan".
type Scope string

// Tier is a price point within a rate period, keyed by party size or room
// occupancy.
type Tier struct {
	// Bucket is the tier key: maximum party size (or occupancy) the price
	// applies to, e.g. 2/4/6/8/10 pax.
	Bucket int `json:"bucket"`

	// Price is the decimal price for this bucket.
	Price types.Money `json:"price"`
}

// TierList is an ordered set of tiers, stored as JSONB.
// Implements sql.Scanner and driver.Valuer for PostgreSQL mapping.
type TierList []Tier

// Scan implements sql.Scanner for reading from PostgreSQL JSONB.
func (t *TierList) Scan(src any) error {
	if src == nil {
		*t = nil
		return nil
	}

	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return fmt.Errorf("unsupported type for TierList: %T", src)
	}

	if len(source) == 0 {
		*t = nil
		return nil
	}

	var result []Tier
	if err := json.Unmarshal(source, &result); err != nil {
		return fmt.Errorf("decode tiers: %w", err)
	}

	*t = result
	t.normalize()
	return nil
}

// Value implements driver.Valuer for writing to PostgreSQL JSONB.
func (t TierList) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

// normalize sorts tiers by bucket ascending. Resolution relies on this order.
func (t TierList) normalize() {
	sort.SliceStable(t, func(i, j int) bool { return t[i].Bucket < t[j].Bucket })
}

// RatePeriod represents one priced season or window within a scope.
// Never hard-deleted, only deactivated.
type RatePeriod struct {
	entity.BaseDocument

	// Scope identifies the priced entity
	Scope Scope `db:"scope" json:"scope"`

	// Label is the human-readable season name ("Summer 2025")
	Label string `db:"label" json:"label"`

	// ValidFrom/ValidTo bound the validity interval (inclusive, date-only)
	ValidFrom time.Time `db:"valid_from" json:"validFrom"`
	ValidTo   time.Time `db:"valid_to" json:"validTo"`

	// Currency is the ISO code all tier prices are quoted in
	Currency string `db:"currency" json:"currency"`

	// Tiers is the ordered bucket -> price mapping
	Tiers TierList `db:"tiers" json:"tiers"`

	Notes string `db:"notes" json:"notes,omitempty"`

	// Active rate periods participate in overlap checks and resolution
	Active bool `db:"active" json:"active"`
}

// NewRatePeriod creates a new active rate period with normalized date bounds.
func NewRatePeriod(scope Scope, label string, validFrom, validTo time.Time, currency string, tiers TierList) *RatePeriod {
	tiers.normalize()
	return &RatePeriod{
		BaseDocument: entity.NewBaseDocument(),
		Scope:        scope,
		Label:        label,
		ValidFrom:    types.DateOnly(validFrom),
		ValidTo:      types.DateOnly(validTo),
		Currency:     currency,
		Tiers:        tiers,
		Active:       true,
	}
}

// Covers reports whether date falls inside the closed validity interval.
func (p *RatePeriod) Covers(date time.Time) bool {
	d := types.DateOnly(date)
	return !d.Before(p.ValidFrom) && !d.After(p.ValidTo)
}

// Validate implements entity.Validatable.
func (p *RatePeriod) Validate(ctx context.Context) error {
	if p.Scope == "" {
		return apperror.NewValidation("scope is required").
			WithDetail("field", "scope")
	}

	if p.Label == "" {
		return apperror.NewValidation("label is required").
			WithDetail("field", "label")
	}

	if p.ValidFrom.After(p.ValidTo) {
		return apperror.NewMalformedInterval(
			types.FormatDate(p.ValidFrom), types.FormatDate(p.ValidTo))
	}

	if p.Currency == "" {
		return apperror.NewValidation("currency is required").
			WithDetail("field", "currency")
	}

	if len(p.Tiers) == 0 {
		return apperror.NewValidation("at least one tier is required").
			WithDetail("field", "tiers")
	}

	seen := make(map[int]struct{}, len(p.Tiers))
	for i, tier := range p.Tiers {
		if tier.Bucket <= 0 {
			return apperror.NewValidation("tier bucket must be positive").
				WithDetail("field", "tiers").
				WithDetail("index", i)
		}
		if tier.Price.IsNegative() {
			return apperror.NewValidation("tier price must not be negative").
				WithDetail("field", "tiers").
				WithDetail("bucket", tier.Bucket)
		}
		if _, dup := seen[tier.Bucket]; dup {
			return apperror.NewValidation("duplicate tier bucket").
				WithDetail("field", "tiers").
				WithDetail("bucket", tier.Bucket)
		}
		seen[tier.Bucket] = struct{}{}
	}

	return nil
}

// RateQuote is the resolver's answer for (scope, date, partySize).
type RateQuote struct {
	PeriodID    string      `json:"periodId"`
	Scope       Scope       `json:"scope"`
	Label       string      `json:"label"`
	Currency    string      `json:"currency"`
	Date        time.Time   `json:"date"`
	Bucket      int         `json:"bucket"`
	Price       types.Money `json:"price"`
	Approximate bool        `json:"approximate"`
}
