package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kid struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`

	// RFIDTokens are the card identifiers assigned to this kid. A token
	// belongs to at most one active kid.
	RFIDTokens []string `json:"rfid_tokens"`

	// MonthlySpendingLimit caps the kid's spend per calendar month.
	// Zero means unlimited.
	MonthlySpendingLimit decimal.Decimal `json:"monthly_spending_limit"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasSpendingLimit reports whether a monthly cap applies to this kid.
func (k Kid) HasSpendingLimit() bool {
	return k.MonthlySpendingLimit.IsPositive()
}

// KidWithSchools is the kid row joined with its associated schools,
// ordered by association time. The first school drives the ordering
// time-window check.
type KidWithSchools struct {
	Kid
	Schools []School `json:"schools"`
}
