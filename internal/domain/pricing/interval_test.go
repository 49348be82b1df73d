package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
	"tourops/internal/core/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testTiers() TierList {
	return TierList{
		{Bucket: 2, Price: types.MustMoney("100.00")},
		{Bucket: 4, Price: types.MustMoney("80.00")},
	}
}

func TestCheckInterval_MalformedInterval(t *testing.T) {
	p := NewRatePeriod("hotel:h1", "Backwards", date(2026, 7, 31), date(2026, 7, 1), "USD", testTiers())

	err := CheckInterval(p, nil, id.Nil())
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeMalformedInterval, appErr.Code)
}

func TestCheckInterval_Overlap(t *testing.T) {
	existing := []*RatePeriod{
		NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers()),
	}

	tests := []struct {
		name    string
		from    time.Time
		to      time.Time
		overlap bool
	}{
		{"fully inside", date(2026, 7, 1), date(2026, 7, 15), true},
		{"fully contains", date(2026, 5, 1), date(2026, 9, 30), true},
		{"shared start boundary", date(2026, 8, 31), date(2026, 10, 1), true},
		{"shared end boundary", date(2026, 5, 1), date(2026, 6, 1), true},
		{"before", date(2026, 4, 1), date(2026, 5, 31), false},
		{"after", date(2026, 9, 1), date(2026, 9, 30), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := NewRatePeriod("hotel:h1", "Candidate", tt.from, tt.to, "USD", testTiers())
			err := CheckInterval(candidate, existing, id.Nil())
			if tt.overlap {
				require.Error(t, err)
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeRatePeriodOverlap, appErr.Code)
				assert.Equal(t, "Summer", appErr.Details["existingLabel"])
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckInterval_DifferentScopesDoNotConflict(t *testing.T) {
	existing := []*RatePeriod{
		NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers()),
	}
	candidate := NewRatePeriod("hotel:h2", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())

	assert.NoError(t, CheckInterval(candidate, existing, id.Nil()))
}

func TestCheckInterval_InactiveSkipped(t *testing.T) {
	retired := NewRatePeriod("hotel:h1", "Old Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())
	retired.Active = false

	candidate := NewRatePeriod("hotel:h1", "New Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())

	assert.NoError(t, CheckInterval(candidate, []*RatePeriod{retired}, id.Nil()))
}

func TestCheckInterval_ExcludesSelfOnEdit(t *testing.T) {
	existing := NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())

	// Editing the same period must not conflict with its stored version.
	edited := NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 9, 15), "USD", testTiers())
	edited.ID = existing.ID

	assert.NoError(t, CheckInterval(edited, []*RatePeriod{existing}, existing.ID))
}

func TestRatePeriod_Covers(t *testing.T) {
	p := NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())

	assert.True(t, p.Covers(date(2026, 6, 1)))
	assert.True(t, p.Covers(date(2026, 8, 31)))
	assert.True(t, p.Covers(date(2026, 7, 15)))
	assert.False(t, p.Covers(date(2026, 5, 31)))
	assert.False(t, p.Covers(date(2026, 9, 1)))
}

func TestRatePeriod_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p := NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())
		assert.NoError(t, p.Validate(context.Background()))
	})

	t.Run("duplicate bucket", func(t *testing.T) {
		tiers := TierList{
			{Bucket: 2, Price: types.MustMoney("100")},
			{Bucket: 2, Price: types.MustMoney("90")},
		}
		p := NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", tiers)
		assert.Error(t, p.Validate(context.Background()))
	})

	t.Run("no tiers", func(t *testing.T) {
		p := NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", nil)
		assert.Error(t, p.Validate(context.Background()))
	})

	t.Run("negative price", func(t *testing.T) {
		tiers := TierList{{Bucket: 2, Price: types.MustMoney("-1")}}
		p := NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", tiers)
		assert.Error(t, p.Validate(context.Background()))
	})
}
