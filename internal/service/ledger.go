package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lunchpass/lunchpass-api/internal/domain"
)

// lowBalanceThreshold is the fraction of the monthly limit below which a
// kid's remaining budget triggers a low-balance notification.
var lowBalanceThreshold = decimal.NewFromFloat(0.2)

type LedgerSpendingRepository interface {
	GetOrCreate(ctx context.Context, kidID string, year, month int) (domain.MonthlySpending, error)
	FindAllByKidID(ctx context.Context, kidID string) ([]domain.MonthlySpending, error)
}

// LedgerService reads the monthly spending ledger and answers limit
// questions ahead of a checkout. The authoritative check happens again
// inside the commit transaction; this one exists to fail fast.
type LedgerService struct {
	repo LedgerSpendingRepository
}

func NewLedgerService(repo LedgerSpendingRepository) *LedgerService {
	return &LedgerService{
		repo: repo,
	}
}

// CurrentSpending returns the kid's ledger record for the month containing
// at, creating a zero record on first access.
func (s *LedgerService) CurrentSpending(ctx context.Context, kidID string, at time.Time) (domain.MonthlySpending, error) {
	spending, err := s.repo.GetOrCreate(ctx, kidID, at.Year(), int(at.Month()))
	if err != nil {
		return domain.MonthlySpending{}, fmt.Errorf("s.repo.GetOrCreate -> %w", err)
	}

	return spending, nil
}

// CheckLimit compares a prospective order total against the kid's monthly
// cap. Kids without a cap can always order and report a nil remaining
// budget.
func (s *LedgerService) CheckLimit(ctx context.Context, kid domain.Kid, orderTotal decimal.Decimal, at time.Time) (domain.LimitCheck, error) {
	if !kid.HasSpendingLimit() {
		return domain.LimitCheck{CanOrder: true, Unlimited: true}, nil
	}

	spending, err := s.CurrentSpending(ctx, kid.ID, at)
	if err != nil {
		return domain.LimitCheck{}, err
	}

	remaining := kid.MonthlySpendingLimit.Sub(spending.Amount)

	return domain.LimitCheck{
		CanOrder:        orderTotal.LessThanOrEqual(remaining),
		RemainingBudget: &remaining,
	}, nil
}

// History returns all ledger records for a kid, newest period first.
func (s *LedgerService) History(ctx context.Context, kidID string) ([]domain.MonthlySpending, error) {
	spendings, err := s.repo.FindAllByKidID(ctx, kidID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAllByKidID -> %w", err)
	}

	return spendings, nil
}

// RemainingAfter evaluates where a kid's budget stands once spent has been
// charged: whether the limit is now exhausted and whether the remainder
// has dropped under the low-balance threshold.
func RemainingAfter(limit, spent decimal.Decimal) (remaining decimal.Decimal, exhausted, low bool) {
	remaining = limit.Sub(spent)
	exhausted = !remaining.IsPositive()
	low = !exhausted && remaining.LessThan(limit.Mul(lowBalanceThreshold))
	return remaining, exhausted, low
}
