package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

type ProductGroup struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Name        string `gorm:"not null"`
	Description string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ProductGroup) TableName() string {
	return "product_groups"
}

func (g *ProductGroup) BeforeCreate(*gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

type Product struct {
	ID string `gorm:"type:uuid;primaryKey"`

	Name        string          `gorm:"not null"`
	Description string
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	ProductGroupID *string `gorm:"type:uuid;index"`
	ImageURL       string

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type ProductDAO struct {
	db *gorm.DB
}

func NewProductDAO(db *gorm.DB) *ProductDAO {
	return &ProductDAO{
		db: db,
	}
}

func (d *ProductDAO) Insert(ctx context.Context, product Product) (Product, error) {
	result := d.db.WithContext(ctx).Create(&product)
	if result.Error != nil {
		return Product{}, result.Error
	}

	return product, nil
}

func (d *ProductDAO) FindByID(ctx context.Context, id string) (Product, error) {
	var product Product

	result := d.db.WithContext(ctx).First(&product, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Product{}, ErrProductNotFound
		}

		return Product{}, result.Error
	}

	return product, nil
}

func (d *ProductDAO) FindAll(ctx context.Context, activeOnly bool) ([]Product, error) {
	var products []Product

	query := d.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	result := query.Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

func (d *ProductDAO) Update(ctx context.Context, product Product) (Product, error) {
	result := d.db.WithContext(ctx).Save(&product)
	if result.Error != nil {
		return Product{}, result.Error
	}

	return product, nil
}
