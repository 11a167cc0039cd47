package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/repository"
)

var ErrDiscountNotFound = repository.ErrDiscountNotFound

type DiscountRepository interface {
	Create(ctx context.Context, discount domain.Discount) (domain.Discount, error)
	FindByID(ctx context.Context, id string) (domain.Discount, error)
	FindAll(ctx context.Context) ([]domain.Discount, error)
	Update(ctx context.Context, discount domain.Discount) (domain.Discount, error)
	Delete(ctx context.Context, id string) error
}

type DiscountService struct {
	repo DiscountRepository
}

func NewDiscountService(repo DiscountRepository) *DiscountService {
	return &DiscountService{
		repo: repo,
	}
}

func (s *DiscountService) CreateDiscount(ctx context.Context, discount domain.Discount) (domain.Discount, error) {
	created, err := s.repo.Create(ctx, discount)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *DiscountService) GetDiscount(ctx context.Context, id string) (domain.Discount, error) {
	discount, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDiscountNotFound) {
			return domain.Discount{}, ErrDiscountNotFound
		}

		return domain.Discount{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return discount, nil
}

func (s *DiscountService) ListDiscounts(ctx context.Context) ([]domain.Discount, error) {
	discounts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return discounts, nil
}

func (s *DiscountService) UpdateDiscount(ctx context.Context, discount domain.Discount) (domain.Discount, error) {
	updated, err := s.repo.Update(ctx, discount)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *DiscountService) DeleteDiscount(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrDiscountNotFound) {
			return ErrDiscountNotFound
		}

		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
