// Package pricing holds the pure pieces of the checkout pipeline: picking
// the discount for a line and computing the line's totals. Everything here
// is deterministic given the same inputs and wall-clock time.
package pricing

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lunchpass/lunchpass-api/internal/domain"
)

var (
	ErrProductInactive = errors.New("product is not active")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// SelectBest returns the single highest-ranked discount eligible at the
// given time, or nil when none qualifies. Ranking is (priority desc, value
// desc); administrators control priority, the value tie-break favours the
// customer. Stackability is deliberately ignored: one discount per line.
func SelectBest(candidates []domain.Discount, at time.Time) *domain.Discount {
	eligible := make([]domain.Discount, 0, len(candidates))
	for _, d := range candidates {
		if d.Eligibility.MatchesAt(at) {
			eligible = append(eligible, d)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Priority != eligible[j].Priority {
			return eligible[i].Priority > eligible[j].Priority
		}
		return eligible[i].Value.GreaterThan(eligible[j].Value)
	})

	best := eligible[0]
	return &best
}

// PriceLine computes the totals for one cart line. The discount amount is
// clamped to [0, gross]; net = gross - discount. A nil discount prices the
// line at its gross total.
func PriceLine(product domain.Product, quantity int, discount *domain.Discount) (domain.LinePricing, error) {
	if !product.IsActive {
		return domain.LinePricing{}, ErrProductInactive
	}
	if quantity <= 0 {
		return domain.LinePricing{}, ErrInvalidQuantity
	}

	unitPrice := product.Price
	gross := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	discountAmount := decimal.Zero
	discountID := ""
	if discount != nil && discount.Effect != nil {
		// Percentage effects can yield sub-cent amounts; everything stored
		// or summed downstream is fixed-point cents, so round half up here.
		discountAmount = discount.Effect.Amount(unitPrice, quantity, gross).Round(2)
		if discountAmount.IsNegative() {
			discountAmount = decimal.Zero
		}
		if discountAmount.GreaterThan(gross) {
			discountAmount = gross
		}
		if discountAmount.IsPositive() {
			discountID = discount.ID
		}
	}

	return domain.LinePricing{
		UnitPrice:      unitPrice,
		GrossTotal:     gross,
		DiscountAmount: discountAmount,
		NetTotal:       gross.Sub(discountAmount),
		DiscountID:     discountID,
	}, nil
}
