package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourops/internal/core/id"
	"tourops/internal/core/types"
)

func itemWithPrices(bookingID id.ID, cost, sell string) *ServiceItem {
	item := NewServiceItem(bookingID, ItemTransfer)
	item.CostPrice = types.MustMoney(cost)
	item.SellPrice = types.MustMoney(sell)
	return item
}

func TestComputeTotals(t *testing.T) {
	bookingID := id.New()
	items := []*ServiceItem{
		itemWithPrices(bookingID, "100.00", "150.00"),
		itemWithPrices(bookingID, "40.00", "60.00"),
	}

	totals, err := ComputeTotals(items)
	require.NoError(t, err)

	assert.Equal(t, "140.00", totals.TotalCostPrice.StringFixed(2))
	assert.Equal(t, "210.00", totals.TotalSellPrice.StringFixed(2))
	assert.Equal(t, "70.00", totals.GrossProfit.StringFixed(2))
}

func TestComputeTotals_Empty(t *testing.T) {
	totals, err := ComputeTotals(nil)
	require.NoError(t, err)

	assert.True(t, totals.TotalCostPrice.IsZero())
	assert.True(t, totals.TotalSellPrice.IsZero())
	assert.True(t, totals.GrossProfit.IsZero())
}

func TestComputeTotals_Idempotent(t *testing.T) {
	bookingID := id.New()
	items := []*ServiceItem{
		itemWithPrices(bookingID, "33.33", "49.99"),
		itemWithPrices(bookingID, "66.67", "99.01"),
	}

	first, err := ComputeTotals(items)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := ComputeTotals(items)
		require.NoError(t, err)
		assert.True(t, first.TotalCostPrice.Equal(again.TotalCostPrice))
		assert.True(t, first.TotalSellPrice.Equal(again.TotalSellPrice))
		assert.True(t, first.GrossProfit.Equal(again.GrossProfit))
	}
}

// Decimal arithmetic must not drift: 10000 cents sum to exactly 100.00.
func TestComputeTotals_DecimalPrecision(t *testing.T) {
	bookingID := id.New()
	items := make([]*ServiceItem, 10000)
	for i := range items {
		items[i] = itemWithPrices(bookingID, "0.01", "0.01")
	}

	totals, err := ComputeTotals(items)
	require.NoError(t, err)

	assert.Equal(t, "100.00", totals.TotalCostPrice.StringFixed(2))
	assert.Equal(t, "100.00", totals.TotalSellPrice.StringFixed(2))
	assert.Equal(t, "0.00", totals.GrossProfit.StringFixed(2))
}

func TestComputeTotals_MixedVariants(t *testing.T) {
	bookingID := id.New()

	hotel := NewServiceItem(bookingID, ItemHotelStay)
	hotel.CostPerNight = types.MustMoney("80.00")
	hotel.Nights = 2
	hotel.Rooms = 1
	hotel.SellPrice = types.MustMoney("200.00")

	flight := NewServiceItem(bookingID, ItemFlight)
	flight.CostPrice = types.MustMoney("300.00")
	// No sell price: flight sells at cost.

	totals, err := ComputeTotals([]*ServiceItem{hotel, flight})
	require.NoError(t, err)

	assert.Equal(t, "460.00", totals.TotalCostPrice.StringFixed(2))
	assert.Equal(t, "500.00", totals.TotalSellPrice.StringFixed(2))
	assert.Equal(t, "40.00", totals.GrossProfit.StringFixed(2))
}

func TestBooking_RefreshPaymentStatus(t *testing.T) {
	b := NewBooking(id.New(), 2, "USD")
	b.TotalSellPrice = types.MustMoney("500.00")

	b.RefreshPaymentStatus()
	assert.Equal(t, PaymentUnpaid, b.PaymentStatus)

	b.AmountReceived = types.MustMoney("200.00")
	b.RefreshPaymentStatus()
	assert.Equal(t, PaymentPartial, b.PaymentStatus)

	b.AmountReceived = types.MustMoney("500.00")
	b.RefreshPaymentStatus()
	assert.Equal(t, PaymentPaid, b.PaymentStatus)

	b.AmountReceived = types.MustMoney("650.00")
	b.RefreshPaymentStatus()
	assert.Equal(t, PaymentPaid, b.PaymentStatus)
}

func TestBooking_RefreshPaymentStatus_ZeroSellTotal(t *testing.T) {
	b := NewBooking(id.New(), 2, "USD")

	b.RefreshPaymentStatus()
	assert.Equal(t, PaymentUnpaid, b.PaymentStatus)

	// A deposit taken before any items are priced covers the zero total.
	b.AmountReceived = types.MustMoney("100.00")
	b.RefreshPaymentStatus()
	assert.Equal(t, PaymentPaid, b.PaymentStatus)
}
