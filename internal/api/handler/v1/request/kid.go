package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type CreateKidRequest struct {
	Name                 string   `json:"name"`
	ParentID             string   `json:"parent_id,omitempty"`
	RFIDTokens           []string `json:"rfid_tokens,omitempty"`
	MonthlySpendingLimit string   `json:"monthly_spending_limit,omitempty"`
	SchoolID             string   `json:"school_id,omitempty"`
}

func (req *CreateKidRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.ParentID, is.UUIDv4),
		validation.Field(&req.SchoolID, is.UUIDv4),
	)
}

type UpdateKidRequest struct {
	Name                 string   `json:"name"`
	RFIDTokens           []string `json:"rfid_tokens,omitempty"`
	MonthlySpendingLimit string   `json:"monthly_spending_limit,omitempty"`
	IsActive             *bool    `json:"is_active,omitempty"`
}

func (req *UpdateKidRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
	)
}
