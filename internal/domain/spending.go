package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySpending is the running spend total for one kid in one calendar
// month. Created lazily with a zero amount, then incremented as orders
// commit.
type MonthlySpending struct {
	ID     string          `json:"id"`
	KidID  string          `json:"kid_id"`
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LimitCheck is the outcome of comparing a prospective order total with a
// kid's monthly cap. RemainingBudget is nil when the kid has no limit.
type LimitCheck struct {
	CanOrder        bool             `json:"can_order"`
	Unlimited       bool             `json:"unlimited"`
	RemainingBudget *decimal.Decimal `json:"remaining_budget"`
}
