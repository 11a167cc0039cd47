package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type ProductRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Price          string `json:"price"`
	ProductGroupID string `json:"product_group_id,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	IsActive       *bool  `json:"is_active,omitempty"`
}

func (req *ProductRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Price, validation.Required, is.Float),
		validation.Field(&req.ProductGroupID, is.UUIDv4),
		validation.Field(&req.ImageURL, is.URL),
	)
}
