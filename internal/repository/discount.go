package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/repository/dao"
)

var ErrDiscountNotFound = dao.ErrDiscountNotFound

type DiscountDAO interface {
	FindEligibleCandidates(ctx context.Context, productID string, productGroupID *string, at time.Time) ([]dao.Discount, error)
	Insert(ctx context.Context, discount dao.Discount) (dao.Discount, error)
	FindByID(ctx context.Context, id string) (dao.Discount, error)
	FindAll(ctx context.Context) ([]dao.Discount, error)
	Update(ctx context.Context, discount dao.Discount) (dao.Discount, error)
	Delete(ctx context.Context, id string) error
}

type DiscountRepository struct {
	dao DiscountDAO
}

func NewDiscountRepository(dao DiscountDAO) *DiscountRepository {
	return &DiscountRepository{
		dao: dao,
	}
}

// discountEffect builds the typed effect from the persisted discriminator
// row. Unknown types fall back to a zero-amount bundle effect rather than
// failing the whole candidate set.
func discountEffect(d dao.Discount) domain.DiscountEffect {
	switch d.DiscountType {
	case "percentage":
		return domain.PercentageOff{Percent: d.DiscountValue}
	case "fixed_amount":
		return domain.FixedAmountOff{Off: d.DiscountValue}
	case "buy_x_get_y":
		buy, get := 0, 0
		if d.BuyQuantity != nil {
			buy = *d.BuyQuantity
		}
		if d.GetQuantity != nil {
			get = *d.GetQuantity
		}
		return domain.BuyXGetY{BuyQuantity: buy, GetQuantity: get}
	default:
		return domain.Bundle{Value: d.DiscountValue}
	}
}

func discountDaoToDomain(d dao.Discount) domain.Discount {
	targetID := ""
	if d.TargetID != nil {
		targetID = *d.TargetID
	}

	startTime, endTime := "", ""
	if d.StartTime != nil {
		startTime = *d.StartTime
	}
	if d.EndTime != nil {
		endTime = *d.EndTime
	}

	minPurchase := decimal.Zero
	if d.MinimumPurchaseAmount != nil {
		minPurchase = *d.MinimumPurchaseAmount
	}
	minQuantity := 0
	if d.MinimumQuantity != nil {
		minQuantity = *d.MinimumQuantity
	}

	return domain.Discount{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		TargetType:  domain.DiscountTarget(d.TargetType),
		TargetID:    targetID,
		Eligibility: domain.Eligibility{
			IsActive:  d.IsActive,
			StartDate: d.StartDate,
			EndDate:   d.EndDate,
			StartTime: startTime,
			EndTime:   endTime,
			Monday:    d.MondayEnabled,
			Tuesday:   d.TuesdayEnabled,
			Wednesday: d.WednesdayEnabled,
			Thursday:  d.ThursdayEnabled,
			Friday:    d.FridayEnabled,
			Saturday:  d.SaturdayEnabled,
			Sunday:    d.SundayEnabled,
		},
		Value:                 d.DiscountValue,
		Priority:              d.Priority,
		MinimumPurchaseAmount: minPurchase,
		MinimumQuantity:       minQuantity,
		IsStackable:           d.IsStackable,
		Effect:                discountEffect(d),
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

func discountDomainToDao(d domain.Discount) dao.Discount {
	var targetID *string
	if d.TargetID != "" {
		id := d.TargetID
		targetID = &id
	}

	var startTime, endTime *string
	if d.Eligibility.StartTime != "" {
		t := d.Eligibility.StartTime
		startTime = &t
	}
	if d.Eligibility.EndTime != "" {
		t := d.Eligibility.EndTime
		endTime = &t
	}

	var minPurchase *decimal.Decimal
	if d.MinimumPurchaseAmount.IsPositive() {
		v := d.MinimumPurchaseAmount
		minPurchase = &v
	}
	var minQuantity *int
	if d.MinimumQuantity > 0 {
		v := d.MinimumQuantity
		minQuantity = &v
	}

	row := dao.Discount{
		ID:                    d.ID,
		Name:                  d.Name,
		Description:           d.Description,
		DiscountType:          d.Effect.Kind(),
		DiscountValue:         d.Value,
		TargetType:            string(d.TargetType),
		TargetID:              targetID,
		StartDate:             d.Eligibility.StartDate,
		EndDate:               d.Eligibility.EndDate,
		StartTime:             startTime,
		EndTime:               endTime,
		MondayEnabled:         d.Eligibility.Monday,
		TuesdayEnabled:        d.Eligibility.Tuesday,
		WednesdayEnabled:      d.Eligibility.Wednesday,
		ThursdayEnabled:       d.Eligibility.Thursday,
		FridayEnabled:         d.Eligibility.Friday,
		SaturdayEnabled:       d.Eligibility.Saturday,
		SundayEnabled:         d.Eligibility.Sunday,
		MinimumPurchaseAmount: minPurchase,
		MinimumQuantity:       minQuantity,
		IsStackable:           d.IsStackable,
		Priority:              d.Priority,
		IsActive:              d.Eligibility.IsActive,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}

	if effect, ok := d.Effect.(domain.BuyXGetY); ok {
		buy, get := effect.BuyQuantity, effect.GetQuantity
		row.BuyQuantity = &buy
		row.GetQuantity = &get
	}

	return row
}

// FindEligibleCandidates returns the currently eligible discounts for a
// product, ranked (priority desc, value desc) by the store.
func (r *DiscountRepository) FindEligibleCandidates(ctx context.Context, productID, productGroupID string, at time.Time) ([]domain.Discount, error) {
	var groupID *string
	if productGroupID != "" {
		groupID = &productGroupID
	}

	discounts, err := r.dao.FindEligibleCandidates(ctx, productID, groupID, at)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindEligibleCandidates -> %w", err)
	}

	result := make([]domain.Discount, len(discounts))
	for i, d := range discounts {
		result[i] = discountDaoToDomain(d)
	}

	return result, nil
}

func (r *DiscountRepository) Create(ctx context.Context, discount domain.Discount) (domain.Discount, error) {
	created, err := r.dao.Insert(ctx, discountDomainToDao(discount))
	if err != nil {
		return domain.Discount{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return discountDaoToDomain(created), nil
}

func (r *DiscountRepository) FindByID(ctx context.Context, id string) (domain.Discount, error) {
	discount, err := r.dao.FindByID(ctx, id)
	if err != nil {
		if err == dao.ErrDiscountNotFound {
			return domain.Discount{}, ErrDiscountNotFound
		}
		return domain.Discount{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return discountDaoToDomain(discount), nil
}

func (r *DiscountRepository) FindAll(ctx context.Context) ([]domain.Discount, error) {
	discounts, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	result := make([]domain.Discount, len(discounts))
	for i, d := range discounts {
		result[i] = discountDaoToDomain(d)
	}

	return result, nil
}

func (r *DiscountRepository) Update(ctx context.Context, discount domain.Discount) (domain.Discount, error) {
	updated, err := r.dao.Update(ctx, discountDomainToDao(discount))
	if err != nil {
		return domain.Discount{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return discountDaoToDomain(updated), nil
}

func (r *DiscountRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		if err == dao.ErrDiscountNotFound {
			return ErrDiscountNotFound
		}
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}
