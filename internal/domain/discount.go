package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountTarget string

const (
	TargetProduct      DiscountTarget = "product"
	TargetProductGroup DiscountTarget = "product_group"
	TargetOrder        DiscountTarget = "order"
	TargetUser         DiscountTarget = "user"
	TargetKid          DiscountTarget = "kid"
)

// Discount is a promotional rule read by the order pipeline. The pricing
// behaviour lives in Effect; the remaining fields describe where and when
// the rule applies and how competing rules are ranked.
type Discount struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	TargetType  DiscountTarget `json:"target_type"`

	// TargetID narrows the rule to one entity of TargetType. Empty means
	// the rule applies to every entity of that type.
	TargetID string `json:"target_id,omitempty"`

	Eligibility Eligibility `json:"eligibility"`

	// Value is the raw configured magnitude, kept alongside Effect as the
	// secondary ranking key (higher value wins a priority tie).
	Value    decimal.Decimal `json:"value"`
	Priority int             `json:"priority"`

	// MinimumPurchaseAmount and MinimumQuantity are persisted for
	// administrators but, like IsStackable, not consulted when pricing.
	MinimumPurchaseAmount decimal.Decimal `json:"minimum_purchase_amount,omitempty"`
	MinimumQuantity       int             `json:"minimum_quantity,omitempty"`

	// IsStackable is persisted for administrators but not consulted:
	// only the single top-ranked discount is ever applied to a line.
	IsStackable bool `json:"is_stackable"`

	Effect DiscountEffect `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DiscountEffect computes the amount taken off one order line. The result
// is clamped to [0, gross] by the pricer, not here.
type DiscountEffect interface {
	Amount(unitPrice decimal.Decimal, quantity int, gross decimal.Decimal) decimal.Decimal
	Kind() string
}

// PercentageOff removes Percent% of the gross line total.
type PercentageOff struct {
	Percent decimal.Decimal
}

func (e PercentageOff) Amount(_ decimal.Decimal, _ int, gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(e.Percent).Div(decimal.NewFromInt(100))
}

func (e PercentageOff) Kind() string { return "percentage" }

// FixedAmountOff removes a flat amount, independent of quantity.
type FixedAmountOff struct {
	Off decimal.Decimal
}

func (e FixedAmountOff) Amount(_ decimal.Decimal, _ int, _ decimal.Decimal) decimal.Decimal {
	return e.Off
}

func (e FixedAmountOff) Kind() string { return "fixed_amount" }

// BuyXGetY grants GetQuantity free units per BuyQuantity units purchased.
type BuyXGetY struct {
	BuyQuantity int
	GetQuantity int
}

func (e BuyXGetY) Amount(unitPrice decimal.Decimal, quantity int, _ decimal.Decimal) decimal.Decimal {
	if e.BuyQuantity <= 0 || e.GetQuantity <= 0 || quantity < e.BuyQuantity {
		return decimal.Zero
	}
	freeUnits := (quantity / e.BuyQuantity) * e.GetQuantity
	return unitPrice.Mul(decimal.NewFromInt(int64(freeUnits)))
}

func (e BuyXGetY) Kind() string { return "buy_x_get_y" }

// Bundle discounts need multi-line context the line pricer does not have,
// so they contribute nothing here. Known gap carried over from the
// administrative catalog.
type Bundle struct {
	Value decimal.Decimal
}

func (e Bundle) Amount(_ decimal.Decimal, _ int, _ decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

func (e Bundle) Kind() string { return "bundle" }

// Eligibility is the time envelope of a discount: an active flag, an
// optional date range, an optional daily "HH:MM" window, and per-day
// enable flags (nil means the day is not restricted).
type Eligibility struct {
	IsActive  bool       `json:"is_active"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	StartTime string     `json:"start_time,omitempty"`
	EndTime   string     `json:"end_time,omitempty"`

	Monday    *bool `json:"monday,omitempty"`
	Tuesday   *bool `json:"tuesday,omitempty"`
	Wednesday *bool `json:"wednesday,omitempty"`
	Thursday  *bool `json:"thursday,omitempty"`
	Friday    *bool `json:"friday,omitempty"`
	Saturday  *bool `json:"saturday,omitempty"`
	Sunday    *bool `json:"sunday,omitempty"`
}

// MatchesAt reports whether the discount is currently eligible. Date
// bounds are compared on calendar days, time bounds on zero-padded
// "HH:MM" strings, both inclusive.
func (e Eligibility) MatchesAt(t time.Time) bool {
	if !e.IsActive {
		return false
	}

	day := t.Format("2006-01-02")
	if e.StartDate != nil && day < e.StartDate.Format("2006-01-02") {
		return false
	}
	if e.EndDate != nil && day > e.EndDate.Format("2006-01-02") {
		return false
	}

	clock := t.Format("15:04")
	if e.StartTime != "" && clock < e.StartTime {
		return false
	}
	if e.EndTime != "" && clock > e.EndTime {
		return false
	}

	if flag := e.dayFlag(t.Weekday()); flag != nil && !*flag {
		return false
	}

	return true
}

func (e Eligibility) dayFlag(day time.Weekday) *bool {
	switch day {
	case time.Monday:
		return e.Monday
	case time.Tuesday:
		return e.Tuesday
	case time.Wednesday:
		return e.Wednesday
	case time.Thursday:
		return e.Thursday
	case time.Friday:
		return e.Friday
	case time.Saturday:
		return e.Saturday
	case time.Sunday:
		return e.Sunday
	}
	return nil
}
