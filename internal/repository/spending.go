package repository

import (
	"context"
	"fmt"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/repository/dao"
)

type SpendingDAO interface {
	GetOrCreate(ctx context.Context, kidID string, year, month int) (dao.MonthlySpending, error)
	FindAllByKidID(ctx context.Context, kidID string) ([]dao.MonthlySpending, error)
}

type SpendingRepository struct {
	dao SpendingDAO
}

func NewSpendingRepository(dao SpendingDAO) *SpendingRepository {
	return &SpendingRepository{
		dao: dao,
	}
}

func spendingDaoToDomain(s dao.MonthlySpending) domain.MonthlySpending {
	return domain.MonthlySpending{
		ID:        s.ID,
		KidID:     s.KidID,
		Year:      s.Year,
		Month:     s.Month,
		Amount:    s.Amount,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (r *SpendingRepository) GetOrCreate(ctx context.Context, kidID string, year, month int) (domain.MonthlySpending, error) {
	spending, err := r.dao.GetOrCreate(ctx, kidID, year, month)
	if err != nil {
		return domain.MonthlySpending{}, fmt.Errorf("r.dao.GetOrCreate -> %w", err)
	}

	return spendingDaoToDomain(spending), nil
}

func (r *SpendingRepository) FindAllByKidID(ctx context.Context, kidID string) ([]domain.MonthlySpending, error) {
	spendings, err := r.dao.FindAllByKidID(ctx, kidID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllByKidID -> %w", err)
	}

	result := make([]domain.MonthlySpending, len(spendings))
	for i, s := range spendings {
		result[i] = spendingDaoToDomain(s)
	}

	return result, nil
}
