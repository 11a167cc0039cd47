package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/repository"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) ListParents(ctx context.Context) ([]domain.User, error) {
	parents, err := s.repo.FindByRole(ctx, domain.RoleParent)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByRole -> %w", err)
	}

	return parents, nil
}
