package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrDiscountNotFound = errors.New("discount not found")

type Discount struct {
	ID string `gorm:"type:uuid;primaryKey"`

	Name        string `gorm:"not null"`
	Description string

	DiscountType  string          `gorm:"not null"` // "percentage", "fixed_amount", "buy_x_get_y", or "bundle"
	DiscountValue decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	TargetType string  `gorm:"not null;index"`
	TargetID   *string `gorm:"type:uuid;index"`

	StartDate *time.Time `gorm:"type:date"`
	EndDate   *time.Time `gorm:"type:date"`
	StartTime *string    `gorm:"type:varchar(5)"` // "HH:MM"
	EndTime   *string    `gorm:"type:varchar(5)"`

	MondayEnabled    *bool
	TuesdayEnabled   *bool
	WednesdayEnabled *bool
	ThursdayEnabled  *bool
	FridayEnabled    *bool
	SaturdayEnabled  *bool
	SundayEnabled    *bool

	MinimumPurchaseAmount *decimal.Decimal `gorm:"type:numeric(10,2)"`
	MinimumQuantity       *int
	BuyQuantity           *int
	GetQuantity           *int

	IsStackable bool `gorm:"not null;default:false"`
	Priority    int  `gorm:"not null;default:0"`
	IsActive    bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Discount) TableName() string {
	return "discounts"
}

func (d *Discount) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// dayColumns maps time.Weekday to the corresponding enable-flag column.
var dayColumns = map[time.Weekday]string{
	time.Sunday:    "sunday_enabled",
	time.Monday:    "monday_enabled",
	time.Tuesday:   "tuesday_enabled",
	time.Wednesday: "wednesday_enabled",
	time.Thursday:  "thursday_enabled",
	time.Friday:    "friday_enabled",
	time.Saturday:  "saturday_enabled",
}

type DiscountDAO struct {
	db *gorm.DB
}

func NewDiscountDAO(db *gorm.DB) *DiscountDAO {
	return &DiscountDAO{
		db: db,
	}
}

// FindEligibleCandidates returns the discounts that could apply to the
// given product at the given time: product-specific rules, product-group
// rules when a group id is present, and global product rules (null target).
// Eligibility (active flag, date range, time range, day flag) is filtered
// in SQL; ordering is (priority desc, discount_value desc).
func (d *DiscountDAO) FindEligibleCandidates(ctx context.Context, productID string, productGroupID *string, at time.Time) ([]Discount, error) {
	today := at.Format("2006-01-02")
	clock := at.Format("15:04")
	dayColumn := dayColumns[at.Weekday()]

	query := d.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("(start_date IS NULL OR start_date <= ?)", today).
		Where("(end_date IS NULL OR end_date >= ?)", today).
		Where("(start_time IS NULL OR start_time <= ?)", clock).
		Where("(end_time IS NULL OR end_time >= ?)", clock).
		Where("(" + dayColumn + " IS NULL OR " + dayColumn + " = TRUE)")

	if productGroupID != nil && *productGroupID != "" {
		query = query.Where(
			"(target_type = ? AND (target_id = ? OR target_id IS NULL)) OR (target_type = ? AND target_id = ?)",
			"product", productID, "product_group", *productGroupID,
		)
	} else {
		query = query.Where(
			"target_type = ? AND (target_id = ? OR target_id IS NULL)",
			"product", productID,
		)
	}

	var discounts []Discount
	result := query.
		Order("priority DESC").
		Order("discount_value DESC").
		Find(&discounts)
	if result.Error != nil {
		return nil, result.Error
	}

	return discounts, nil
}

func (d *DiscountDAO) Insert(ctx context.Context, discount Discount) (Discount, error) {
	result := d.db.WithContext(ctx).Create(&discount)
	if result.Error != nil {
		return Discount{}, result.Error
	}

	return discount, nil
}

func (d *DiscountDAO) FindByID(ctx context.Context, id string) (Discount, error) {
	var discount Discount

	result := d.db.WithContext(ctx).First(&discount, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Discount{}, ErrDiscountNotFound
		}

		return Discount{}, result.Error
	}

	return discount, nil
}

func (d *DiscountDAO) FindAll(ctx context.Context) ([]Discount, error) {
	var discounts []Discount

	result := d.db.WithContext(ctx).
		Order("priority DESC").
		Order("created_at DESC").
		Find(&discounts)
	if result.Error != nil {
		return nil, result.Error
	}

	return discounts, nil
}

func (d *DiscountDAO) Update(ctx context.Context, discount Discount) (Discount, error) {
	result := d.db.WithContext(ctx).Save(&discount)
	if result.Error != nil {
		return Discount{}, result.Error
	}

	return discount, nil
}

func (d *DiscountDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&Discount{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDiscountNotFound
	}

	return nil
}
