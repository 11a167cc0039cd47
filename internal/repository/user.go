package repository

import (
	"context"
	"fmt"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id string) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindByRole(ctx context.Context, role string) ([]dao.User, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) domainToDao(u domain.User) dao.User {
	return dao.User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      domain.UserRole(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(user))
	if err != nil {
		if err == dao.ErrUserEmailExists {
			return domain.User{}, ErrUserEmailExists
		}
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	user, err := r.dao.FindByID(ctx, id)
	if err != nil {
		if err == dao.ErrUserNotFound {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(user), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	user, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		if err == dao.ErrUserNotFound {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(user), nil
}

func (r *UserRepository) FindByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	users, err := r.dao.FindByRole(ctx, string(role))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByRole -> %w", err)
	}

	result := make([]domain.User, len(users))
	for i, u := range users {
		result[i] = r.daoToDomain(u)
	}

	return result, nil
}
