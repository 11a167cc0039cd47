package repository

import (
	"context"
	"fmt"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/repository/dao"
)

var (
	ErrKidNotFound    = dao.ErrKidNotFound
	ErrRFIDTokenInUse = dao.ErrRFIDTokenInUse
)

type KidDAO interface {
	Insert(ctx context.Context, kid dao.Kid) (dao.Kid, error)
	FindByID(ctx context.Context, id string) (dao.Kid, error)
	FindWithSchools(ctx context.Context, id string) (dao.Kid, error)
	FindByRFIDToken(ctx context.Context, token string) (dao.Kid, error)
	FindByParentID(ctx context.Context, parentID string) ([]dao.Kid, error)
	FindActiveWithSpendingLimits(ctx context.Context) ([]dao.Kid, error)
	Update(ctx context.Context, kid dao.Kid) (dao.Kid, error)
	AddSchool(ctx context.Context, kidID, schoolID string) error
}

type KidRepository struct {
	dao KidDAO
}

func NewKidRepository(dao KidDAO) *KidRepository {
	return &KidRepository{
		dao: dao,
	}
}

func kidDomainToDao(k domain.Kid) dao.Kid {
	tokens := make([]dao.KidRFIDToken, len(k.RFIDTokens))
	for i, t := range k.RFIDTokens {
		tokens[i] = dao.KidRFIDToken{KidID: k.ID, Token: t}
	}

	return dao.Kid{
		ID:                   k.ID,
		Name:                 k.Name,
		ParentID:             k.ParentID,
		RFIDTokens:           tokens,
		MonthlySpendingLimit: k.MonthlySpendingLimit,
		IsActive:             k.IsActive,
		CreatedAt:            k.CreatedAt,
		UpdatedAt:            k.UpdatedAt,
	}
}

func kidDaoToDomain(k dao.Kid) domain.Kid {
	tokens := make([]string, len(k.RFIDTokens))
	for i, t := range k.RFIDTokens {
		tokens[i] = t.Token
	}

	return domain.Kid{
		ID:                   k.ID,
		Name:                 k.Name,
		ParentID:             k.ParentID,
		RFIDTokens:           tokens,
		MonthlySpendingLimit: k.MonthlySpendingLimit,
		IsActive:             k.IsActive,
		CreatedAt:            k.CreatedAt,
		UpdatedAt:            k.UpdatedAt,
	}
}

func (r *KidRepository) Create(ctx context.Context, kid domain.Kid) (domain.Kid, error) {
	created, err := r.dao.Insert(ctx, kidDomainToDao(kid))
	if err != nil {
		if err == dao.ErrRFIDTokenInUse {
			return domain.Kid{}, ErrRFIDTokenInUse
		}
		return domain.Kid{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return kidDaoToDomain(created), nil
}

func (r *KidRepository) FindByID(ctx context.Context, id string) (domain.Kid, error) {
	kid, err := r.dao.FindByID(ctx, id)
	if err != nil {
		if err == dao.ErrKidNotFound {
			return domain.Kid{}, ErrKidNotFound
		}
		return domain.Kid{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return kidDaoToDomain(kid), nil
}

func (r *KidRepository) FindWithSchools(ctx context.Context, id string) (domain.KidWithSchools, error) {
	kid, err := r.dao.FindWithSchools(ctx, id)
	if err != nil {
		if err == dao.ErrKidNotFound {
			return domain.KidWithSchools{}, ErrKidNotFound
		}
		return domain.KidWithSchools{}, fmt.Errorf("r.dao.FindWithSchools -> %w", err)
	}

	schools := make([]domain.School, len(kid.Schools))
	for i, s := range kid.Schools {
		schools[i] = schoolDaoToDomain(s)
	}

	return domain.KidWithSchools{
		Kid:     kidDaoToDomain(kid),
		Schools: schools,
	}, nil
}

func (r *KidRepository) FindByRFIDToken(ctx context.Context, token string) (domain.Kid, error) {
	kid, err := r.dao.FindByRFIDToken(ctx, token)
	if err != nil {
		if err == dao.ErrKidNotFound {
			return domain.Kid{}, ErrKidNotFound
		}
		return domain.Kid{}, fmt.Errorf("r.dao.FindByRFIDToken -> %w", err)
	}

	return kidDaoToDomain(kid), nil
}

func (r *KidRepository) FindByParentID(ctx context.Context, parentID string) ([]domain.Kid, error) {
	kids, err := r.dao.FindByParentID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByParentID -> %w", err)
	}

	result := make([]domain.Kid, len(kids))
	for i, k := range kids {
		result[i] = kidDaoToDomain(k)
	}

	return result, nil
}

func (r *KidRepository) FindActiveWithSpendingLimits(ctx context.Context) ([]domain.Kid, error) {
	kids, err := r.dao.FindActiveWithSpendingLimits(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActiveWithSpendingLimits -> %w", err)
	}

	result := make([]domain.Kid, len(kids))
	for i, k := range kids {
		result[i] = kidDaoToDomain(k)
	}

	return result, nil
}

func (r *KidRepository) Update(ctx context.Context, kid domain.Kid) (domain.Kid, error) {
	updated, err := r.dao.Update(ctx, kidDomainToDao(kid))
	if err != nil {
		return domain.Kid{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return kidDaoToDomain(updated), nil
}

func (r *KidRepository) AddSchool(ctx context.Context, kidID, schoolID string) error {
	if err := r.dao.AddSchool(ctx, kidID, schoolID); err != nil {
		return fmt.Errorf("r.dao.AddSchool -> %w", err)
	}

	return nil
}
