package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourops/internal/core/types"
)

func TestSelectTier(t *testing.T) {
	tiers := TierList{
		{Bucket: 2, Price: types.MustMoney("120.00")},
		{Bucket: 4, Price: types.MustMoney("95.00")},
		{Bucket: 8, Price: types.MustMoney("70.00")},
	}

	tests := []struct {
		name        string
		partySize   int
		wantBucket  int
		wantPrice   string
		approximate bool
	}{
		{"exact bucket", 4, 4, "95.00", false},
		{"rounds up to next bucket", 3, 4, "95.00", false},
		{"smallest bucket", 1, 2, "120.00", false},
		{"zero selects smallest", 0, 2, "120.00", false},
		{"negative selects smallest", -5, 2, "120.00", false},
		{"above largest is approximate floor", 12, 8, "70.00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, approximate, err := SelectTier(tiers, tt.partySize)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, tier.Bucket)
			assert.Equal(t, tt.wantPrice, tier.Price.StringFixed(2))
			assert.Equal(t, tt.approximate, approximate)
		})
	}
}

func TestSelectTier_Empty(t *testing.T) {
	_, _, err := SelectTier(nil, 2)
	assert.Error(t, err)
}

func TestSelectTier_UnsortedInput(t *testing.T) {
	tiers := TierList{
		{Bucket: 8, Price: types.MustMoney("70")},
		{Bucket: 2, Price: types.MustMoney("120")},
		{Bucket: 4, Price: types.MustMoney("95")},
	}

	tier, approximate, err := SelectTier(tiers, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, tier.Bucket)
	assert.False(t, approximate)
}

func TestPickPeriod(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		picked, conflict := pickPeriod(nil)
		assert.Nil(t, picked)
		assert.False(t, conflict)
	})

	t.Run("single", func(t *testing.T) {
		p := NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())
		picked, conflict := pickPeriod([]*RatePeriod{p})
		assert.Same(t, p, picked)
		assert.False(t, conflict)
	})

	t.Run("conflict picks most recently created", func(t *testing.T) {
		older := NewRatePeriod("hotel:h1", "Old", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())
		older.CreatedAt = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

		newer := NewRatePeriod("hotel:h1", "New", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())
		newer.CreatedAt = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

		picked, conflict := pickPeriod([]*RatePeriod{older, newer})
		assert.Same(t, newer, picked)
		assert.True(t, conflict)
	})
}
