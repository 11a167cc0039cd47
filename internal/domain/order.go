package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCanceled  OrderStatus = "canceled"
)

// ValidOrderStatus reports whether s is one of the known order states.
func ValidOrderStatus(s OrderStatus) bool {
	return s == OrderPending || s == OrderCompleted || s == OrderCanceled
}

type Order struct {
	ID       string `json:"id"`
	KidID    string `json:"kid_id"`
	ParentID string `json:"parent_id"`

	// TotalAmount is the sum of the net totals of the order's lines.
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      OrderStatus     `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderLine is one priced cart line. ProductName and UnitPrice are
// captured at purchase time and never re-read from the catalog.
type OrderLine struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`

	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`

	GrossTotal     decimal.Decimal `json:"gross_total"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	NetTotal       decimal.Decimal `json:"net_total"`

	DiscountID string `json:"discount_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// OrderWithLines is the order joined with its lines, as returned to the
// boundary layer after a successful checkout.
type OrderWithLines struct {
	Order
	Lines []OrderLine `json:"lines"`
}

// LinePricing is the result of pricing one cart line during the dry run.
type LinePricing struct {
	UnitPrice      decimal.Decimal `json:"unit_price"`
	GrossTotal     decimal.Decimal `json:"gross_total"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	NetTotal       decimal.Decimal `json:"net_total"`
	DiscountID     string          `json:"discount_id,omitempty"`
}
