package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/repository"
)

type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindAll(ctx context.Context, activeOnly bool) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
}

type ProductService struct {
	repo ProductRepository
}

func NewProductService(repo ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	product.IsActive = true

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domain.Product{}, ErrProductNotFound
		}

		return domain.Product{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return product, nil
}

// ListProducts returns the catalog. Non-admin callers only see active
// products.
func (s *ProductService) ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	products, err := s.repo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return products, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}
