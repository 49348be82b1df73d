package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourops/internal/core/id"
	"tourops/internal/core/types"
)

func TestServiceItem_Cost(t *testing.T) {
	t.Run("hotel stay multiplies nights and rooms", func(t *testing.T) {
		item := NewServiceItem(id.New(), ItemHotelStay)
		item.CostPerNight = types.MustMoney("85.50")
		item.Nights = 3
		item.Rooms = 2

		assert.Equal(t, "513.00", item.Cost().StringFixed(2))
	})

	t.Run("supplier operated tour uses supplier cost", func(t *testing.T) {
		item := NewServiceItem(id.New(), ItemTour)
		item.SupplierOperated = true
		item.SupplierCost = types.MustMoney("420.00")
		item.GuideCost = types.MustMoney("999.00") // ignored

		assert.Equal(t, "420.00", item.Cost().StringFixed(2))
	})

	t.Run("own operated tour sums components", func(t *testing.T) {
		item := NewServiceItem(id.New(), ItemTour)
		item.GuideCost = types.MustMoney("100.00")
		item.VehicleCost = types.MustMoney("80.00")
		item.EntranceFees = types.MustMoney("45.50")
		item.OtherCosts = types.MustMoney("10.00")

		assert.Equal(t, "235.50", item.Cost().StringFixed(2))
	})

	t.Run("transfer and flight use cost price", func(t *testing.T) {
		for _, typ := range []ItemType{ItemTransfer, ItemFlight} {
			item := NewServiceItem(id.New(), typ)
			item.CostPrice = types.MustMoney("60.00")
			assert.Equal(t, "60.00", item.Cost().StringFixed(2))
		}
	})
}

func TestServiceItem_Sell(t *testing.T) {
	t.Run("explicit sell price wins", func(t *testing.T) {
		item := NewServiceItem(id.New(), ItemTransfer)
		item.CostPrice = types.MustMoney("60.00")
		item.SellPrice = types.MustMoney("90.00")

		assert.Equal(t, "90.00", item.Sell().StringFixed(2))
	})

	t.Run("flight without sell price sells at cost", func(t *testing.T) {
		item := NewServiceItem(id.New(), ItemFlight)
		item.CostPrice = types.MustMoney("250.00")

		assert.Equal(t, "250.00", item.Sell().StringFixed(2))
	})

	t.Run("non-flight without sell price sells at zero", func(t *testing.T) {
		item := NewServiceItem(id.New(), ItemTransfer)
		item.CostPrice = types.MustMoney("60.00")

		assert.True(t, item.Sell().IsZero())
	})
}

func TestServiceItem_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("hotel stay requires positive nights and rooms", func(t *testing.T) {
		item := NewServiceItem(id.New(), ItemHotelStay)
		item.Nights = 0
		item.Rooms = 1
		assert.Error(t, item.Validate(ctx))

		item.Nights = 2
		item.Rooms = 0
		assert.Error(t, item.Validate(ctx))

		item.Rooms = 1
		assert.NoError(t, item.Validate(ctx))
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		item := NewServiceItem(id.New(), ItemType("cruise"))
		assert.Error(t, item.Validate(ctx))
	})

	t.Run("missing booking rejected", func(t *testing.T) {
		item := NewServiceItem(id.Nil(), ItemTransfer)
		assert.Error(t, item.Validate(ctx))
	})

	t.Run("negative tour component rejected", func(t *testing.T) {
		item := NewServiceItem(id.New(), ItemTour)
		item.GuideCost = types.MustMoney("-1")
		assert.Error(t, item.Validate(ctx))
	})
}

func TestServiceItem_Apply(t *testing.T) {
	item := NewServiceItem(id.New(), ItemHotelStay)
	item.Nights = 2
	item.Rooms = 1
	item.CostPerNight = types.MustMoney("100")

	nights := 5
	price := types.MustMoney("110")
	item.Apply(ItemPatch{Nights: &nights, CostPerNight: &price})

	assert.Equal(t, 5, item.Nights)
	assert.Equal(t, 1, item.Rooms)
	assert.Equal(t, "110.00", item.CostPerNight.StringFixed(2))

	// Unset fields stay as they were.
	require.NoError(t, item.Validate(context.Background()))
}
