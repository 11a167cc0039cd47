package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/repository"
)

var ErrRFIDTokenInUse = repository.ErrRFIDTokenInUse

type KidRepository interface {
	Create(ctx context.Context, kid domain.Kid) (domain.Kid, error)
	FindByID(ctx context.Context, id string) (domain.Kid, error)
	FindWithSchools(ctx context.Context, id string) (domain.KidWithSchools, error)
	FindByRFIDToken(ctx context.Context, token string) (domain.Kid, error)
	FindByParentID(ctx context.Context, parentID string) ([]domain.Kid, error)
	Update(ctx context.Context, kid domain.Kid) (domain.Kid, error)
	AddSchool(ctx context.Context, kidID, schoolID string) error
}

type KidService struct {
	repo KidRepository
}

func NewKidService(repo KidRepository) *KidService {
	return &KidService{
		repo: repo,
	}
}

// CreateKid registers a kid. Parents always own the kids they create;
// admin and staff may create kids for any parent.
func (s *KidService) CreateKid(ctx context.Context, actor domain.User, kid domain.Kid) (domain.Kid, error) {
	if actor.Role == domain.RoleParent {
		kid.ParentID = actor.ID
	}
	kid.IsActive = true

	created, err := s.repo.Create(ctx, kid)
	if err != nil {
		if errors.Is(err, repository.ErrRFIDTokenInUse) {
			return domain.Kid{}, ErrRFIDTokenInUse
		}

		return domain.Kid{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *KidService) GetKid(ctx context.Context, actor domain.User, id string) (domain.KidWithSchools, error) {
	kid, err := s.repo.FindWithSchools(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrKidNotFound) {
			return domain.KidWithSchools{}, ErrKidNotFound
		}

		return domain.KidWithSchools{}, fmt.Errorf("s.repo.FindWithSchools -> %w", err)
	}

	if !actor.CanActOnKid(kid.Kid) {
		return domain.KidWithSchools{}, ErrNotKidParent
	}

	return kid, nil
}

// GetKidByRFIDToken resolves a card scan to its kid. Used by canteen
// staff at the till, so only the card identifier is needed.
func (s *KidService) GetKidByRFIDToken(ctx context.Context, token string) (domain.Kid, error) {
	kid, err := s.repo.FindByRFIDToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrKidNotFound) {
			return domain.Kid{}, ErrKidNotFound
		}

		return domain.Kid{}, fmt.Errorf("s.repo.FindByRFIDToken -> %w", err)
	}

	return kid, nil
}

func (s *KidService) ListByParent(ctx context.Context, parentID string) ([]domain.Kid, error) {
	kids, err := s.repo.FindByParentID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByParentID -> %w", err)
	}

	return kids, nil
}

// UpdateKid applies changes to a kid the actor controls. Parent ownership
// cannot be reassigned here.
func (s *KidService) UpdateKid(ctx context.Context, actor domain.User, kid domain.Kid) (domain.Kid, error) {
	existing, err := s.repo.FindByID(ctx, kid.ID)
	if err != nil {
		if errors.Is(err, repository.ErrKidNotFound) {
			return domain.Kid{}, ErrKidNotFound
		}

		return domain.Kid{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanActOnKid(existing) {
		return domain.Kid{}, ErrNotKidParent
	}
	kid.ParentID = existing.ParentID

	updated, err := s.repo.Update(ctx, kid)
	if err != nil {
		if errors.Is(err, repository.ErrRFIDTokenInUse) {
			return domain.Kid{}, ErrRFIDTokenInUse
		}

		return domain.Kid{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *KidService) AddSchool(ctx context.Context, kidID, schoolID string) error {
	if err := s.repo.AddSchool(ctx, kidID, schoolID); err != nil {
		return fmt.Errorf("s.repo.AddSchool -> %w", err)
	}

	return nil
}
