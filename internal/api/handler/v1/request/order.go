package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type OrderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (req OrderLineRequest) Validate() error {
	return validation.ValidateStruct(
		&req,
		validation.Field(&req.ProductID, validation.Required, is.UUIDv4),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}

type PlaceOrderRequest struct {
	KidID string             `json:"kid_id"`
	Lines []OrderLineRequest `json:"lines"`
}

func (req *PlaceOrderRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.KidID, validation.Required, is.UUIDv4),
		validation.Field(&req.Lines, validation.Required, validation.Length(1, 0)),
	)
	if err != nil {
		return err
	}

	for _, line := range req.Lines {
		if err = line.Validate(); err != nil {
			return err
		}
	}

	return nil
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (req *UpdateOrderStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In("pending", "completed", "canceled")),
	)
}
