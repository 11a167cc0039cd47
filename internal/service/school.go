package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/repository"
)

var ErrSchoolNotFound = repository.ErrSchoolNotFound

type SchoolRepository interface {
	Create(ctx context.Context, school domain.School) (domain.School, error)
	FindByID(ctx context.Context, id string) (domain.School, error)
	FindAll(ctx context.Context) ([]domain.School, error)
	Update(ctx context.Context, school domain.School) (domain.School, error)
}

type SchoolService struct {
	repo SchoolRepository
}

func NewSchoolService(repo SchoolRepository) *SchoolService {
	return &SchoolService{
		repo: repo,
	}
}

func (s *SchoolService) CreateSchool(ctx context.Context, school domain.School) (domain.School, error) {
	school.IsActive = true

	created, err := s.repo.Create(ctx, school)
	if err != nil {
		return domain.School{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *SchoolService) GetSchool(ctx context.Context, id string) (domain.School, error) {
	school, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSchoolNotFound) {
			return domain.School{}, ErrSchoolNotFound
		}

		return domain.School{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return school, nil
}

func (s *SchoolService) ListSchools(ctx context.Context) ([]domain.School, error) {
	schools, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return schools, nil
}

func (s *SchoolService) UpdateSchool(ctx context.Context, school domain.School) (domain.School, error) {
	updated, err := s.repo.Update(ctx, school)
	if err != nil {
		return domain.School{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}
