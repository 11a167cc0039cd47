package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type DiscountRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	DiscountType  string `json:"discount_type"`
	DiscountValue string `json:"discount_value"`

	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id,omitempty"`

	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`

	Monday    *bool `json:"monday,omitempty"`
	Tuesday   *bool `json:"tuesday,omitempty"`
	Wednesday *bool `json:"wednesday,omitempty"`
	Thursday  *bool `json:"thursday,omitempty"`
	Friday    *bool `json:"friday,omitempty"`
	Saturday  *bool `json:"saturday,omitempty"`
	Sunday    *bool `json:"sunday,omitempty"`

	MinimumPurchaseAmount string `json:"minimum_purchase_amount,omitempty"`
	MinimumQuantity       int    `json:"minimum_quantity,omitempty"`

	BuyQuantity int `json:"buy_quantity,omitempty"`
	GetQuantity int `json:"get_quantity,omitempty"`

	IsStackable bool  `json:"is_stackable"`
	Priority    int   `json:"priority"`
	IsActive    *bool `json:"is_active,omitempty"`
}

func (req *DiscountRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.DiscountType, validation.Required,
			validation.In("percentage", "fixed_amount", "buy_x_get_y", "bundle")),
		validation.Field(&req.DiscountValue, validation.Required, is.Float),
		validation.Field(&req.TargetType, validation.Required,
			validation.In("product", "product_group", "order", "user", "kid")),
		validation.Field(&req.TargetID, is.UUIDv4),
		validation.Field(&req.StartTime, validation.Match(hourPattern)),
		validation.Field(&req.EndTime, validation.Match(hourPattern)),
	)
}
