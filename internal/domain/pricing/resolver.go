package pricing

import (
	"tourops/internal/core/apperror"
)

// pickPeriod selects the single applicable period among candidates covering
// the requested date.
//
// A validated catalog yields at most one match. Data imported outside the
// validator can still produce several; in that case the most recently created
// period wins and the caller logs a data-conflict diagnostic. Staleness in
// the catalog must never crash a price lookup.
func pickPeriod(candidates []*RatePeriod) (picked *RatePeriod, conflict bool) {
	if len(candidates) == 0 {
		return nil, false
	}

	picked = candidates[0]
	for _, p := range candidates[1:] {
		if p.CreatedAt.After(picked.CreatedAt) {
			picked = p
		}
	}
	return picked, len(candidates) > 1
}

// SelectTier applies the party-size policy to an ordered tier list:
// pick the smallest bucket >= partySize; if partySize exceeds the largest
// bucket, use the largest bucket's price as a floor and flag the quote as
// approximate. partySize <= 0 means "no party size given" and selects the
// smallest bucket.
func SelectTier(tiers TierList, partySize int) (Tier, bool, error) {
	if len(tiers) == 0 {
		return Tier{}, false, apperror.NewValidation("rate period has no tiers").
			WithDetail("field", "tiers")
	}

	tiers.normalize()

	if partySize <= 0 {
		return tiers[0], false, nil
	}

	for _, tier := range tiers {
		if tier.Bucket >= partySize {
			return tier, false, nil
		}
	}

	// Party larger than every bucket: largest bucket price as a floor.
	return tiers[len(tiers)-1], true, nil
}
