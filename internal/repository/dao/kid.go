package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrKidNotFound    = errors.New("kid not found")
	ErrRFIDTokenInUse = errors.New("rfid token already assigned")
)

type Kid struct {
	ID string `gorm:"type:uuid;primaryKey"`

	Name     string `gorm:"not null"`
	ParentID string `gorm:"type:uuid;not null;index"`

	RFIDTokens []KidRFIDToken `gorm:"foreignKey:KidID;constraint:OnDelete:CASCADE"`
	Schools    []School       `gorm:"many2many:kid_schools;"`

	// Zero means unlimited.
	MonthlySpendingLimit decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Kid) TableName() string {
	return "kids"
}

func (k *Kid) BeforeCreate(*gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	return nil
}

// KidRFIDToken is one card identifier. The unique index is what enforces
// "a token maps to at most one kid".
type KidRFIDToken struct {
	ID    string `gorm:"type:uuid;primaryKey"`
	KidID string `gorm:"type:uuid;not null;index"`
	Token string `gorm:"uniqueIndex:uni_kid_rfid_tokens_token;not null"`
}

func (KidRFIDToken) TableName() string {
	return "kid_rfid_tokens"
}

func (t *KidRFIDToken) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type KidDAO struct {
	db *gorm.DB
}

func NewKidDAO(db *gorm.DB) *KidDAO {
	return &KidDAO{
		db: db,
	}
}

func (d *KidDAO) Insert(ctx context.Context, kid Kid) (Kid, error) {
	result := d.db.WithContext(ctx).Create(&kid)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, "uni_kid_rfid_tokens_token") {
			return Kid{}, ErrRFIDTokenInUse
		}

		return Kid{}, result.Error
	}

	return kid, nil
}

func (d *KidDAO) FindByID(ctx context.Context, id string) (Kid, error) {
	var kid Kid

	result := d.db.WithContext(ctx).Preload("RFIDTokens").First(&kid, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Kid{}, ErrKidNotFound
		}

		return Kid{}, result.Error
	}

	return kid, nil
}

func (d *KidDAO) FindWithSchools(ctx context.Context, id string) (Kid, error) {
	var kid Kid

	result := d.db.WithContext(ctx).
		Preload("RFIDTokens").
		Preload("Schools").
		First(&kid, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Kid{}, ErrKidNotFound
		}

		return Kid{}, result.Error
	}

	return kid, nil
}

func (d *KidDAO) FindByRFIDToken(ctx context.Context, token string) (Kid, error) {
	var link KidRFIDToken

	result := d.db.WithContext(ctx).First(&link, "token = ?", token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Kid{}, ErrKidNotFound
		}

		return Kid{}, result.Error
	}

	return d.FindByID(ctx, link.KidID)
}

func (d *KidDAO) FindByParentID(ctx context.Context, parentID string) ([]Kid, error) {
	var kids []Kid

	result := d.db.WithContext(ctx).
		Preload("RFIDTokens").
		Where("parent_id = ?", parentID).
		Order("name ASC").
		Find(&kids)
	if result.Error != nil {
		return nil, result.Error
	}

	return kids, nil
}

func (d *KidDAO) FindActiveWithSpendingLimits(ctx context.Context) ([]Kid, error) {
	var kids []Kid

	result := d.db.WithContext(ctx).
		Where("is_active = ? AND monthly_spending_limit > 0", true).
		Find(&kids)
	if result.Error != nil {
		return nil, result.Error
	}

	return kids, nil
}

func (d *KidDAO) Update(ctx context.Context, kid Kid) (Kid, error) {
	result := d.db.WithContext(ctx).Save(&kid)
	if result.Error != nil {
		return Kid{}, result.Error
	}

	return kid, nil
}

func (d *KidDAO) AddSchool(ctx context.Context, kidID, schoolID string) error {
	kid := Kid{ID: kidID}
	school := School{ID: schoolID}

	return d.db.WithContext(ctx).Model(&kid).Association("Schools").Append(&school)
}
