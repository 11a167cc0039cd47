package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSchoolNotFound = errors.New("school not found")

type School struct {
	ID string `gorm:"type:uuid;primaryKey"`

	Name         string `gorm:"not null"`
	Address      string
	City         string
	PostalCode   string
	ContactEmail string
	ContactPhone string

	// "HH:MM", both or neither; empty means no time-of-day restriction.
	OpeningHour string `gorm:"type:varchar(5)"`
	ClosingHour string `gorm:"type:varchar(5)"`

	MondayEnabled    bool `gorm:"not null;default:true"`
	TuesdayEnabled   bool `gorm:"not null;default:true"`
	WednesdayEnabled bool `gorm:"not null;default:true"`
	ThursdayEnabled  bool `gorm:"not null;default:true"`
	FridayEnabled    bool `gorm:"not null;default:true"`
	SaturdayEnabled  bool `gorm:"not null;default:false"`
	SundayEnabled    bool `gorm:"not null;default:false"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (School) TableName() string {
	return "schools"
}

func (s *School) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type SchoolDAO struct {
	db *gorm.DB
}

func NewSchoolDAO(db *gorm.DB) *SchoolDAO {
	return &SchoolDAO{
		db: db,
	}
}

func (d *SchoolDAO) Insert(ctx context.Context, school School) (School, error) {
	result := d.db.WithContext(ctx).Create(&school)
	if result.Error != nil {
		return School{}, result.Error
	}

	return school, nil
}

func (d *SchoolDAO) FindByID(ctx context.Context, id string) (School, error) {
	var school School

	result := d.db.WithContext(ctx).First(&school, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return School{}, ErrSchoolNotFound
		}

		return School{}, result.Error
	}

	return school, nil
}

func (d *SchoolDAO) FindAll(ctx context.Context) ([]School, error) {
	var schools []School

	result := d.db.WithContext(ctx).Order("name ASC").Find(&schools)
	if result.Error != nil {
		return nil, result.Error
	}

	return schools, nil
}

func (d *SchoolDAO) Update(ctx context.Context, school School) (School, error) {
	result := d.db.WithContext(ctx).Save(&school)
	if result.Error != nil {
		return School{}, result.Error
	}

	return school, nil
}
