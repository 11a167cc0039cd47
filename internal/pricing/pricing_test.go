package pricing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/pricing"
)

// A school-day lunchtime: Wednesday 2026-03-04 12:00.
var lunchtime = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func activeDiscount(id string, priority int, value string, effect domain.DiscountEffect) domain.Discount {
	return domain.Discount{
		ID:          id,
		Name:        id,
		Eligibility: domain.Eligibility{IsActive: true},
		Value:       decimal.RequireFromString(value),
		Priority:    priority,
		Effect:      effect,
	}
}

func TestSelectBest(t *testing.T) {
	t.Run("returns nil when no candidates", func(t *testing.T) {
		assert.Nil(t, pricing.SelectBest(nil, lunchtime))
	})

	t.Run("higher priority wins regardless of value", func(t *testing.T) {
		candidates := []domain.Discount{
			activeDiscount("big-value", 1, "50", domain.PercentageOff{Percent: decimal.NewFromInt(50)}),
			activeDiscount("high-priority", 10, "5", domain.PercentageOff{Percent: decimal.NewFromInt(5)}),
		}

		best := pricing.SelectBest(candidates, lunchtime)
		require.NotNil(t, best)
		assert.Equal(t, "high-priority", best.ID)
	})

	t.Run("value breaks a priority tie", func(t *testing.T) {
		candidates := []domain.Discount{
			activeDiscount("small", 5, "10", domain.PercentageOff{Percent: decimal.NewFromInt(10)}),
			activeDiscount("large", 5, "20", domain.PercentageOff{Percent: decimal.NewFromInt(20)}),
		}

		best := pricing.SelectBest(candidates, lunchtime)
		require.NotNil(t, best)
		assert.Equal(t, "large", best.ID)
	})

	t.Run("selection is deterministic on a full tie", func(t *testing.T) {
		candidates := []domain.Discount{
			activeDiscount("first", 5, "10", domain.PercentageOff{Percent: decimal.NewFromInt(10)}),
			activeDiscount("second", 5, "10", domain.PercentageOff{Percent: decimal.NewFromInt(10)}),
		}

		for i := 0; i < 10; i++ {
			best := pricing.SelectBest(candidates, lunchtime)
			require.NotNil(t, best)
			assert.Equal(t, "first", best.ID)
		}
	})

	t.Run("inactive discounts are skipped", func(t *testing.T) {
		d := activeDiscount("off", 5, "10", domain.PercentageOff{Percent: decimal.NewFromInt(10)})
		d.Eligibility.IsActive = false

		assert.Nil(t, pricing.SelectBest([]domain.Discount{d}, lunchtime))
	})

	t.Run("date range bounds are inclusive on calendar days", func(t *testing.T) {
		start := time.Date(2026, 3, 4, 23, 0, 0, 0, time.UTC) // later clock time, same day
		end := time.Date(2026, 3, 4, 1, 0, 0, 0, time.UTC)    // earlier clock time, same day

		d := activeDiscount("today-only", 5, "10", domain.PercentageOff{Percent: decimal.NewFromInt(10)})
		d.Eligibility.StartDate = &start
		d.Eligibility.EndDate = &end

		best := pricing.SelectBest([]domain.Discount{d}, lunchtime)
		require.NotNil(t, best)
		assert.Equal(t, "today-only", best.ID)
	})

	t.Run("daily time window is inclusive", func(t *testing.T) {
		d := activeDiscount("lunch-only", 5, "10", domain.PercentageOff{Percent: decimal.NewFromInt(10)})
		d.Eligibility.StartTime = "12:00"
		d.Eligibility.EndTime = "14:00"

		require.NotNil(t, pricing.SelectBest([]domain.Discount{d}, lunchtime))

		d.Eligibility.StartTime = "12:01"
		assert.Nil(t, pricing.SelectBest([]domain.Discount{d}, lunchtime))
	})

	t.Run("day flag disables the discount only when explicitly false", func(t *testing.T) {
		enabled := false
		d := activeDiscount("not-wednesday", 5, "10", domain.PercentageOff{Percent: decimal.NewFromInt(10)})
		d.Eligibility.Wednesday = &enabled

		assert.Nil(t, pricing.SelectBest([]domain.Discount{d}, lunchtime))

		d.Eligibility.Wednesday = nil
		assert.NotNil(t, pricing.SelectBest([]domain.Discount{d}, lunchtime))
	})
}

func TestPriceLine(t *testing.T) {
	product := domain.Product{
		ID:       "prod-1",
		Name:     "Sandwich",
		Price:    decimal.RequireFromString("10.00"),
		IsActive: true,
	}

	t.Run("no discount prices at gross", func(t *testing.T) {
		priced, err := pricing.PriceLine(product, 3, nil)
		require.NoError(t, err)

		assert.True(t, priced.GrossTotal.Equal(decimal.RequireFromString("30.00")))
		assert.True(t, priced.DiscountAmount.IsZero())
		assert.True(t, priced.NetTotal.Equal(decimal.RequireFromString("30.00")))
		assert.Empty(t, priced.DiscountID)
	})

	t.Run("buy two get one on three units", func(t *testing.T) {
		d := activeDiscount("b2g1", 5, "1", domain.BuyXGetY{BuyQuantity: 2, GetQuantity: 1})

		priced, err := pricing.PriceLine(product, 3, &d)
		require.NoError(t, err)

		assert.True(t, priced.GrossTotal.Equal(decimal.RequireFromString("30.00")))
		assert.True(t, priced.DiscountAmount.Equal(decimal.RequireFromString("10.00")))
		assert.True(t, priced.NetTotal.Equal(decimal.RequireFromString("20.00")))
		assert.Equal(t, "b2g1", priced.DiscountID)
	})

	t.Run("ten percent off fifty", func(t *testing.T) {
		expensive := product
		expensive.Price = decimal.RequireFromString("50.00")
		d := activeDiscount("ten-pct", 5, "10", domain.PercentageOff{Percent: decimal.NewFromInt(10)})

		priced, err := pricing.PriceLine(expensive, 1, &d)
		require.NoError(t, err)

		assert.True(t, priced.DiscountAmount.Equal(decimal.RequireFromString("5.00")))
		assert.True(t, priced.NetTotal.Equal(decimal.RequireFromString("45.00")))
	})

	t.Run("fixed amount is clamped to the gross total", func(t *testing.T) {
		d := activeDiscount("huge", 5, "100", domain.FixedAmountOff{Off: decimal.NewFromInt(100)})

		priced, err := pricing.PriceLine(product, 1, &d)
		require.NoError(t, err)

		assert.True(t, priced.DiscountAmount.Equal(decimal.RequireFromString("10.00")))
		assert.True(t, priced.NetTotal.IsZero())
	})

	t.Run("buy x get y below threshold contributes nothing", func(t *testing.T) {
		d := activeDiscount("b2g1", 5, "1", domain.BuyXGetY{BuyQuantity: 2, GetQuantity: 1})

		priced, err := pricing.PriceLine(product, 1, &d)
		require.NoError(t, err)

		assert.True(t, priced.DiscountAmount.IsZero())
		assert.Empty(t, priced.DiscountID, "a zero-amount discount must not be recorded on the line")
	})

	t.Run("bundle discounts price at gross", func(t *testing.T) {
		d := activeDiscount("bundle", 5, "5", domain.Bundle{Value: decimal.NewFromInt(5)})

		priced, err := pricing.PriceLine(product, 2, &d)
		require.NoError(t, err)

		assert.True(t, priced.NetTotal.Equal(priced.GrossTotal))
		assert.Empty(t, priced.DiscountID)
	})

	t.Run("percentage amounts are rounded half up to cents", func(t *testing.T) {
		cheap := product
		cheap.Price = decimal.RequireFromString("0.95")
		d := activeDiscount("fifteen-pct", 5, "15", domain.PercentageOff{Percent: decimal.NewFromInt(15)})

		priced, err := pricing.PriceLine(cheap, 1, &d) // 15% of 0.95 = 0.1425
		require.NoError(t, err)

		assert.True(t, priced.DiscountAmount.Equal(decimal.RequireFromString("0.14")))
		assert.True(t, priced.NetTotal.Equal(decimal.RequireFromString("0.81")))
		assert.GreaterOrEqual(t, priced.NetTotal.Exponent(), int32(-2),
			"net totals must be whole cents")

		cheap.Price = decimal.RequireFromString("1.25")
		d = activeDiscount("ten-pct", 5, "10", domain.PercentageOff{Percent: decimal.NewFromInt(10)})

		priced, err = pricing.PriceLine(cheap, 1, &d) // 10% of 1.25 = 0.125
		require.NoError(t, err)

		assert.True(t, priced.DiscountAmount.Equal(decimal.RequireFromString("0.13")),
			"a half cent rounds up")
		assert.True(t, priced.NetTotal.Equal(decimal.RequireFromString("1.12")))
	})

	t.Run("purchase minimums are stored but never gate the pricer", func(t *testing.T) {
		d := activeDiscount("min-fields", 5, "10", domain.PercentageOff{Percent: decimal.NewFromInt(10)})
		d.MinimumPurchaseAmount = decimal.RequireFromString("999.00")
		d.MinimumQuantity = 99

		priced, err := pricing.PriceLine(product, 1, &d)
		require.NoError(t, err)
		assert.True(t, priced.DiscountAmount.Equal(decimal.RequireFromString("1.00")))
	})

	t.Run("inactive product is rejected", func(t *testing.T) {
		inactive := product
		inactive.IsActive = false

		_, err := pricing.PriceLine(inactive, 1, nil)
		assert.ErrorIs(t, err, pricing.ErrProductInactive)
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		_, err := pricing.PriceLine(product, 0, nil)
		assert.ErrorIs(t, err, pricing.ErrInvalidQuantity)

		_, err = pricing.PriceLine(product, -2, nil)
		assert.ErrorIs(t, err, pricing.ErrInvalidQuantity)
	})
}
