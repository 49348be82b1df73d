package booking

import (
	"tourops/internal/core/apperror"
	"tourops/internal/core/types"
)

// Totals is the aggregator's output: the booking's derived money state.
type Totals struct {
	TotalCostPrice types.Money `json:"totalCostPrice"`
	TotalSellPrice types.Money `json:"totalSellPrice"`
	GrossProfit    types.Money `json:"grossProfit"`
}

// ComputeTotals folds the items into booking-level totals using decimal
// arithmetic. Deterministic and idempotent: the same items always produce
// identical totals, no matter how often it runs.
func ComputeTotals(items []*ServiceItem) (Totals, error) {
	cost := types.Zero()
	sell := types.Zero()

	for _, item := range items {
		cost = cost.Add(item.Cost())
		sell = sell.Add(item.Sell())
	}

	if cost.IsNegative() || sell.IsNegative() {
		return Totals{}, apperror.NewIntegrity("booking totals became negative", nil).
			WithDetail("totalCost", cost.String()).
			WithDetail("totalSell", sell.String())
	}

	return Totals{
		TotalCostPrice: cost,
		TotalSellPrice: sell,
		GrossProfit:    sell.Sub(cost),
	}, nil
}
