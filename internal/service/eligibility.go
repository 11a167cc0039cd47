package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/repository"
)

var (
	ErrKidNotFound    = repository.ErrKidNotFound
	ErrKidInactive    = errors.New("kid is not active")
	ErrNotKidParent   = errors.New("user is not a parent of this kid")
	ErrOrderingClosed = errors.New("ordering is closed at this time")
)

type EligibilityKidRepository interface {
	FindWithSchools(ctx context.Context, id string) (domain.KidWithSchools, error)
}

// EligibilityService decides whether an actor may order for a kid right
// now: the kid must be active, the actor must be allowed to act on the
// kid, and the kid's school must be open for orders.
type EligibilityService struct {
	kidRepo EligibilityKidRepository
}

func NewEligibilityService(kidRepo EligibilityKidRepository) *EligibilityService {
	return &EligibilityService{
		kidRepo: kidRepo,
	}
}

// Authorize loads the kid and checks the actor against it. On success it
// returns the kid joined with its schools for the time-window check.
func (s *EligibilityService) Authorize(ctx context.Context, actor domain.User, kidID string) (domain.KidWithSchools, error) {
	kid, err := s.kidRepo.FindWithSchools(ctx, kidID)
	if err != nil {
		if errors.Is(err, repository.ErrKidNotFound) {
			return domain.KidWithSchools{}, ErrKidNotFound
		}

		return domain.KidWithSchools{}, fmt.Errorf("s.kidRepo.FindWithSchools -> %w", err)
	}

	if !kid.IsActive {
		return domain.KidWithSchools{}, ErrKidInactive
	}

	if !actor.CanActOnKid(kid.Kid) {
		return domain.KidWithSchools{}, ErrNotKidParent
	}

	return kid, nil
}

// CheckOrderingWindow verifies the kid's school accepts orders at the
// given time. A kid with no school association is not time-restricted.
func (s *EligibilityService) CheckOrderingWindow(kid domain.KidWithSchools, at time.Time) error {
	if len(kid.Schools) == 0 {
		return nil
	}

	if !kid.Schools[0].OrderingAllowedAt(at) {
		return ErrOrderingClosed
	}

	return nil
}
