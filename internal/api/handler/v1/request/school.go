package request

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var hourPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type SchoolRequest struct {
	Name         string `json:"name"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`

	OpeningHour string `json:"opening_hour,omitempty"`
	ClosingHour string `json:"closing_hour,omitempty"`

	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
	Sunday    bool `json:"sunday"`
}

func (req *SchoolRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.ContactEmail, is.Email),
		validation.Field(&req.OpeningHour, validation.Match(hourPattern)),
		validation.Field(&req.ClosingHour, validation.Match(hourPattern)),
	)
}
