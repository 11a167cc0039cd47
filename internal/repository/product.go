package repository

import (
	"context"
	"fmt"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/repository/dao"
)

var ErrProductNotFound = dao.ErrProductNotFound

type ProductDAO interface {
	Insert(ctx context.Context, product dao.Product) (dao.Product, error)
	FindByID(ctx context.Context, id string) (dao.Product, error)
	FindAll(ctx context.Context, activeOnly bool) ([]dao.Product, error)
	Update(ctx context.Context, product dao.Product) (dao.Product, error)
}

type ProductRepository struct {
	dao ProductDAO
}

func NewProductRepository(dao ProductDAO) *ProductRepository {
	return &ProductRepository{
		dao: dao,
	}
}

func productDomainToDao(p domain.Product) dao.Product {
	var groupID *string
	if p.ProductGroupID != "" {
		id := p.ProductGroupID
		groupID = &id
	}

	return dao.Product{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		ProductGroupID: groupID,
		ImageURL:       p.ImageURL,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func productDaoToDomain(p dao.Product) domain.Product {
	groupID := ""
	if p.ProductGroupID != nil {
		groupID = *p.ProductGroupID
	}

	return domain.Product{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		ProductGroupID: groupID,
		ImageURL:       p.ImageURL,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	created, err := r.dao.Insert(ctx, productDomainToDao(product))
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return productDaoToDomain(created), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	product, err := r.dao.FindByID(ctx, id)
	if err != nil {
		if err == dao.ErrProductNotFound {
			return domain.Product{}, ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return productDaoToDomain(product), nil
}

func (r *ProductRepository) FindAll(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	products, err := r.dao.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	result := make([]domain.Product, len(products))
	for i, p := range products {
		result[i] = productDaoToDomain(p)
	}

	return result, nil
}

func (r *ProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	updated, err := r.dao.Update(ctx, productDomainToDao(product))
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return productDaoToDomain(updated), nil
}
