package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunchpass/lunchpass-api/internal/domain"
)

type fakeSpendingRepo struct {
	amounts map[string]decimal.Decimal
}

func (f *fakeSpendingRepo) GetOrCreate(_ context.Context, kidID string, year, month int) (domain.MonthlySpending, error) {
	amount, ok := f.amounts[kidID]
	if !ok {
		amount = decimal.Zero
	}

	return domain.MonthlySpending{
		ID:     "spending-" + kidID,
		KidID:  kidID,
		Year:   year,
		Month:  month,
		Amount: amount,
	}, nil
}

func (f *fakeSpendingRepo) FindAllByKidID(_ context.Context, kidID string) ([]domain.MonthlySpending, error) {
	spending, _ := f.GetOrCreate(context.Background(), kidID, 2026, 3)
	return []domain.MonthlySpending{spending}, nil
}

func TestLedgerServiceCheckLimit(t *testing.T) {
	at := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

	t.Run("kid without a limit can always order", func(t *testing.T) {
		svc := NewLedgerService(&fakeSpendingRepo{amounts: map[string]decimal.Decimal{}})
		kid := domain.Kid{ID: "kid-1"}

		check, err := svc.CheckLimit(context.Background(), kid, decimal.RequireFromString("9999.99"), at)
		require.NoError(t, err)

		assert.True(t, check.CanOrder)
		assert.True(t, check.Unlimited)
		assert.Nil(t, check.RemainingBudget)
	})

	t.Run("order within the remaining budget passes", func(t *testing.T) {
		svc := NewLedgerService(&fakeSpendingRepo{amounts: map[string]decimal.Decimal{
			"kid-1": decimal.RequireFromString("15.00"),
		}})
		kid := domain.Kid{ID: "kid-1", MonthlySpendingLimit: decimal.RequireFromString("20.00")}

		check, err := svc.CheckLimit(context.Background(), kid, decimal.RequireFromString("4.00"), at)
		require.NoError(t, err)

		assert.True(t, check.CanOrder)
		assert.False(t, check.Unlimited)
		require.NotNil(t, check.RemainingBudget)
		assert.True(t, check.RemainingBudget.Equal(decimal.RequireFromString("5.00")))
	})

	t.Run("order exceeding the remaining budget is refused", func(t *testing.T) {
		svc := NewLedgerService(&fakeSpendingRepo{amounts: map[string]decimal.Decimal{
			"kid-1": decimal.RequireFromString("15.00"),
		}})
		kid := domain.Kid{ID: "kid-1", MonthlySpendingLimit: decimal.RequireFromString("20.00")}

		check, err := svc.CheckLimit(context.Background(), kid, decimal.RequireFromString("10.00"), at)
		require.NoError(t, err)

		assert.False(t, check.CanOrder)
		require.NotNil(t, check.RemainingBudget)
		assert.True(t, check.RemainingBudget.Equal(decimal.RequireFromString("5.00")))
	})

	t.Run("an order exactly at the remaining budget passes", func(t *testing.T) {
		svc := NewLedgerService(&fakeSpendingRepo{amounts: map[string]decimal.Decimal{
			"kid-1": decimal.RequireFromString("15.00"),
		}})
		kid := domain.Kid{ID: "kid-1", MonthlySpendingLimit: decimal.RequireFromString("20.00")}

		check, err := svc.CheckLimit(context.Background(), kid, decimal.RequireFromString("5.00"), at)
		require.NoError(t, err)
		assert.True(t, check.CanOrder)
	})
}

func TestRemainingAfter(t *testing.T) {
	limit := decimal.RequireFromString("20.00")

	t.Run("plenty left", func(t *testing.T) {
		remaining, exhausted, low := RemainingAfter(limit, decimal.RequireFromString("10.00"))
		assert.True(t, remaining.Equal(decimal.RequireFromString("10.00")))
		assert.False(t, exhausted)
		assert.False(t, low)
	})

	t.Run("under twenty percent is low", func(t *testing.T) {
		remaining, exhausted, low := RemainingAfter(limit, decimal.RequireFromString("19.00"))
		assert.True(t, remaining.Equal(decimal.RequireFromString("1.00")))
		assert.False(t, exhausted)
		assert.True(t, low)
	})

	t.Run("exactly at the threshold is not yet low", func(t *testing.T) {
		_, _, low := RemainingAfter(limit, decimal.RequireFromString("16.00"))
		assert.False(t, low, "low balance means strictly under twenty percent")

		_, _, low = RemainingAfter(limit, decimal.RequireFromString("16.01"))
		assert.True(t, low)
	})

	t.Run("spent to the limit is exhausted, not low", func(t *testing.T) {
		remaining, exhausted, low := RemainingAfter(limit, decimal.RequireFromString("20.00"))
		assert.True(t, remaining.IsZero())
		assert.True(t, exhausted)
		assert.False(t, low)
	})
}
