package response

import (
	"github.com/shopspring/decimal"

	"github.com/lunchpass/lunchpass-api/internal/domain"
)

type ListOrdersResponse struct {
	Orders []domain.OrderWithLines `json:"orders"`
	Total  int64                   `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
}

// SpendingResponse reports a kid's current month against their cap.
// RemainingBudget is null for kids without a limit.
type SpendingResponse struct {
	KidID           string                   `json:"kid_id"`
	Year            int                      `json:"year"`
	Month           int                      `json:"month"`
	Spent           decimal.Decimal          `json:"spent"`
	Limit           *decimal.Decimal         `json:"limit"`
	RemainingBudget *decimal.Decimal         `json:"remaining_budget"`
	History         []domain.MonthlySpending `json:"history,omitempty"`
}
