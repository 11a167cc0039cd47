package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

type Order struct {
	ID string `gorm:"type:uuid;primaryKey"`

	KidID    string `gorm:"type:uuid;not null;index"`
	ParentID string `gorm:"type:uuid;not null;index"`

	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Status      string          `gorm:"not null;default:pending"`

	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

type OrderLine struct {
	ID      string `gorm:"type:uuid;primaryKey"`
	OrderID string `gorm:"type:uuid;not null;index"`

	ProductID string `gorm:"type:uuid;not null"`

	// Captured at purchase time; later catalog edits do not touch these.
	ProductName string          `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Quantity    int             `gorm:"not null"`

	GrossTotal     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	NetTotal       decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	DiscountID *string `gorm:"type:uuid"`

	CreatedAt time.Time `gorm:"not null"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}

func (l *OrderLine) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

type OrderDAO struct {
	db *gorm.DB
}

func NewOrderDAO(db *gorm.DB) *OrderDAO {
	return &OrderDAO{
		db: db,
	}
}

// Transaction runs fn inside one database transaction. Every write fn
// performs must go through the tx handle it receives; an error from fn
// rolls the whole unit of work back.
func (d *OrderDAO) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.db.WithContext(ctx).Transaction(fn)
}

// InsertOrder writes the order through the caller's tx handle.
func (d *OrderDAO) InsertOrder(tx *gorm.DB, order Order) (Order, error) {
	result := tx.Create(&order)
	if result.Error != nil {
		return Order{}, result.Error
	}

	return order, nil
}

// InsertLines writes the order's lines through the caller's tx handle.
func (d *OrderDAO) InsertLines(tx *gorm.DB, lines []OrderLine) ([]OrderLine, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	result := tx.Create(&lines)
	if result.Error != nil {
		return nil, result.Error
	}

	return lines, nil
}

func (d *OrderDAO) FindByIDWithLines(ctx context.Context, id string) (Order, error) {
	var order Order

	result := d.db.WithContext(ctx).Preload("Lines").First(&order, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Order{}, ErrOrderNotFound
		}

		return Order{}, result.Error
	}

	return order, nil
}

func (d *OrderDAO) FindByParentID(ctx context.Context, parentID string, status string, limit, offset int) ([]Order, int64, error) {
	return d.findFiltered(ctx, "parent_id = ?", parentID, status, limit, offset)
}

func (d *OrderDAO) FindByKidID(ctx context.Context, kidID string, status string, limit, offset int) ([]Order, int64, error) {
	return d.findFiltered(ctx, "kid_id = ?", kidID, status, limit, offset)
}

func (d *OrderDAO) findFiltered(ctx context.Context, cond, arg, status string, limit, offset int) ([]Order, int64, error) {
	query := d.db.WithContext(ctx).Model(&Order{}).Where(cond, arg)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []Order
	result := query.
		Preload("Lines").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return orders, total, nil
}

func (d *OrderDAO) UpdateStatus(ctx context.Context, id, status string) error {
	result := d.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
