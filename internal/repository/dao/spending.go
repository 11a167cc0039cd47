package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MonthlySpending struct {
	ID string `gorm:"type:uuid;primaryKey"`

	KidID string `gorm:"type:uuid;not null;uniqueIndex:uni_monthly_spending_period"`
	Year  int    `gorm:"not null;uniqueIndex:uni_monthly_spending_period"`
	Month int    `gorm:"not null;uniqueIndex:uni_monthly_spending_period"`

	Amount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (MonthlySpending) TableName() string {
	return "monthly_spendings"
}

func (m *MonthlySpending) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type SpendingDAO struct {
	db *gorm.DB
}

func NewSpendingDAO(db *gorm.DB) *SpendingDAO {
	return &SpendingDAO{
		db: db,
	}
}

// GetOrCreate reads the record for the period, creating it with a zero
// amount on first access.
func (d *SpendingDAO) GetOrCreate(ctx context.Context, kidID string, year, month int) (MonthlySpending, error) {
	return d.getOrCreate(d.db.WithContext(ctx), kidID, year, month, false)
}

// IncrementLocked adds delta to the period's amount through the caller's
// tx handle and returns the updated record. The row is taken FOR UPDATE
// first, so two concurrent increments for the same period serialize and
// the returned amount is the true post-increment total.
func (d *SpendingDAO) IncrementLocked(tx *gorm.DB, kidID string, year, month int, delta decimal.Decimal) (MonthlySpending, error) {
	spending, err := d.getOrCreate(tx, kidID, year, month, true)
	if err != nil {
		return MonthlySpending{}, err
	}

	spending.Amount = spending.Amount.Add(delta)
	if result := tx.Save(&spending); result.Error != nil {
		return MonthlySpending{}, result.Error
	}

	return spending, nil
}

func (d *SpendingDAO) FindAllByKidID(ctx context.Context, kidID string) ([]MonthlySpending, error) {
	var spendings []MonthlySpending

	result := d.db.WithContext(ctx).
		Where("kid_id = ?", kidID).
		Order("year DESC").
		Order("month DESC").
		Find(&spendings)
	if result.Error != nil {
		return nil, result.Error
	}

	return spendings, nil
}

func (d *SpendingDAO) getOrCreate(tx *gorm.DB, kidID string, year, month int, forUpdate bool) (MonthlySpending, error) {
	query := tx
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var spending MonthlySpending
	err := query.
		Where("kid_id = ? AND year = ? AND month = ?", kidID, year, month).
		First(&spending).Error
	if err == nil {
		return spending, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return MonthlySpending{}, err
	}

	// First touch of the period. Two transactions can race here, so the
	// insert must tolerate losing to a concurrent creator instead of
	// failing on the unique index.
	spending = MonthlySpending{
		KidID:  kidID,
		Year:   year,
		Month:  month,
		Amount: decimal.Zero,
	}
	if result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&spending); result.Error != nil {
		return MonthlySpending{}, result.Error
	}

	// Re-read what actually landed, whoever inserted it (under the lock
	// when the caller asked for one).
	reread := tx
	if forUpdate {
		reread = reread.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err = reread.
		Where("kid_id = ? AND year = ? AND month = ?", kidID, year, month).
		First(&spending).Error
	if err != nil {
		return MonthlySpending{}, err
	}

	return spending, nil
}
