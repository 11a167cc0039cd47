package repository

import (
	"context"
	"fmt"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/repository/dao"
)

var ErrSchoolNotFound = dao.ErrSchoolNotFound

type SchoolDAO interface {
	Insert(ctx context.Context, school dao.School) (dao.School, error)
	FindByID(ctx context.Context, id string) (dao.School, error)
	FindAll(ctx context.Context) ([]dao.School, error)
	Update(ctx context.Context, school dao.School) (dao.School, error)
}

type SchoolRepository struct {
	dao SchoolDAO
}

func NewSchoolRepository(dao SchoolDAO) *SchoolRepository {
	return &SchoolRepository{
		dao: dao,
	}
}

func schoolDomainToDao(s domain.School) dao.School {
	return dao.School{
		ID:               s.ID,
		Name:             s.Name,
		Address:          s.Address,
		City:             s.City,
		PostalCode:       s.PostalCode,
		ContactEmail:     s.ContactEmail,
		ContactPhone:     s.ContactPhone,
		OpeningHour:      s.OpeningHour,
		ClosingHour:      s.ClosingHour,
		MondayEnabled:    s.Weekdays.Monday,
		TuesdayEnabled:   s.Weekdays.Tuesday,
		WednesdayEnabled: s.Weekdays.Wednesday,
		ThursdayEnabled:  s.Weekdays.Thursday,
		FridayEnabled:    s.Weekdays.Friday,
		SaturdayEnabled:  s.Weekdays.Saturday,
		SundayEnabled:    s.Weekdays.Sunday,
		IsActive:         s.IsActive,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func schoolDaoToDomain(s dao.School) domain.School {
	return domain.School{
		ID:           s.ID,
		Name:         s.Name,
		Address:      s.Address,
		City:         s.City,
		PostalCode:   s.PostalCode,
		ContactEmail: s.ContactEmail,
		ContactPhone: s.ContactPhone,
		OpeningHour:  s.OpeningHour,
		ClosingHour:  s.ClosingHour,
		Weekdays: domain.WeekdayFlags{
			Monday:    s.MondayEnabled,
			Tuesday:   s.TuesdayEnabled,
			Wednesday: s.WednesdayEnabled,
			Thursday:  s.ThursdayEnabled,
			Friday:    s.FridayEnabled,
			Saturday:  s.SaturdayEnabled,
			Sunday:    s.SundayEnabled,
		},
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (r *SchoolRepository) Create(ctx context.Context, school domain.School) (domain.School, error) {
	created, err := r.dao.Insert(ctx, schoolDomainToDao(school))
	if err != nil {
		return domain.School{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return schoolDaoToDomain(created), nil
}

func (r *SchoolRepository) FindByID(ctx context.Context, id string) (domain.School, error) {
	school, err := r.dao.FindByID(ctx, id)
	if err != nil {
		if err == dao.ErrSchoolNotFound {
			return domain.School{}, ErrSchoolNotFound
		}
		return domain.School{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return schoolDaoToDomain(school), nil
}

func (r *SchoolRepository) FindAll(ctx context.Context) ([]domain.School, error) {
	schools, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	result := make([]domain.School, len(schools))
	for i, s := range schools {
		result[i] = schoolDaoToDomain(s)
	}

	return result, nil
}

func (r *SchoolRepository) Update(ctx context.Context, school domain.School) (domain.School, error) {
	updated, err := r.dao.Update(ctx, schoolDomainToDao(school))
	if err != nil {
		return domain.School{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return schoolDaoToDomain(updated), nil
}
