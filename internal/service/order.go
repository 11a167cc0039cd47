package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/pricing"
	"github.com/lunchpass/lunchpass-api/internal/repository"
)

var (
	ErrCartEmpty          = errors.New("order must contain at least one line")
	ErrInvalidQuantity    = pricing.ErrInvalidQuantity
	ErrProductInactive    = pricing.ErrProductInactive
	ErrProductNotFound    = repository.ErrProductNotFound
	ErrOrderNotFound      = repository.ErrOrderNotFound
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrNotOrderOwner        = errors.New("user cannot access this order")
	ErrOrderAlreadyCanceled = errors.New("order is already canceled")
)

// SpendingLimitError rejects a checkout that would push a kid past the
// monthly cap. RemainingBudget is what the kid could still spend.
type SpendingLimitError struct {
	RemainingBudget decimal.Decimal
}

func (e *SpendingLimitError) Error() string {
	return fmt.Sprintf("monthly spending limit exceeded, remaining budget %s", e.RemainingBudget.StringFixed(2))
}

// OrderLineInput is one requested cart line before pricing.
type OrderLineInput struct {
	ProductID string
	Quantity  int
}

type OrderRepository interface {
	Atomically(ctx context.Context, fn func(tx repository.OrderTx) error) error
	FindByIDWithLines(ctx context.Context, id string) (domain.OrderWithLines, error)
	FindByParentID(ctx context.Context, parentID string, status domain.OrderStatus, limit, offset int) ([]domain.OrderWithLines, int64, error)
	FindByKidID(ctx context.Context, kidID string, status domain.OrderStatus, limit, offset int) ([]domain.OrderWithLines, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

type OrderProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
}

type OrderDiscountRepository interface {
	FindEligibleCandidates(ctx context.Context, productID, productGroupID string, at time.Time) ([]domain.Discount, error)
}

// OrderService coordinates a checkout: authorization, the pricing dry
// run, the spending-limit precheck, and the atomic commit of the order,
// its lines and the ledger increment.
type OrderService struct {
	repo         OrderRepository
	productRepo  OrderProductRepository
	discountRepo OrderDiscountRepository
	eligibility  *EligibilityService
	ledger       *LedgerService
	notifier     Notifier

	now func() time.Time
}

func NewOrderService(
	repo OrderRepository,
	productRepo OrderProductRepository,
	discountRepo OrderDiscountRepository,
	eligibility *EligibilityService,
	ledger *LedgerService,
	notifier Notifier,
) *OrderService {
	return &OrderService{
		repo:         repo,
		productRepo:  productRepo,
		discountRepo: discountRepo,
		eligibility:  eligibility,
		ledger:       ledger,
		notifier:     notifier,
		now:          time.Now,
	}
}

// PlaceOrder runs the full checkout pipeline for one cart. Nothing is
// persisted unless every step succeeds; the ledger increment re-checks the
// limit under a row lock so concurrent orders cannot both slip under the
// cap.
func (s *OrderService) PlaceOrder(ctx context.Context, actor domain.User, kidID string, inputs []OrderLineInput) (domain.OrderWithLines, error) {
	if len(inputs) == 0 {
		return domain.OrderWithLines{}, ErrCartEmpty
	}
	for _, in := range inputs {
		if in.Quantity <= 0 {
			return domain.OrderWithLines{}, ErrInvalidQuantity
		}
	}

	kid, err := s.eligibility.Authorize(ctx, actor, kidID)
	if err != nil {
		return domain.OrderWithLines{}, err
	}

	at := s.now()
	if err = s.eligibility.CheckOrderingWindow(kid, at); err != nil {
		return domain.OrderWithLines{}, err
	}

	lines, total, err := s.priceCart(ctx, inputs, at)
	if err != nil {
		return domain.OrderWithLines{}, err
	}

	check, err := s.ledger.CheckLimit(ctx, kid.Kid, total, at)
	if err != nil {
		return domain.OrderWithLines{}, err
	}
	if !check.CanOrder {
		return domain.OrderWithLines{}, &SpendingLimitError{RemainingBudget: *check.RemainingBudget}
	}

	var (
		created      domain.Order
		createdLines []domain.OrderLine
		postSpending domain.MonthlySpending
	)
	err = s.repo.Atomically(ctx, func(tx repository.OrderTx) error {
		created, err = tx.CreateOrder(domain.Order{
			KidID:       kid.ID,
			ParentID:    kid.ParentID,
			TotalAmount: total,
			Status:      domain.OrderCompleted,
		})
		if err != nil {
			return err
		}

		for i := range lines {
			lines[i].OrderID = created.ID
		}
		createdLines, err = tx.CreateOrderLines(lines)
		if err != nil {
			return err
		}

		postSpending, err = tx.IncrementSpending(kid.ID, at.Year(), int(at.Month()), total)
		if err != nil {
			return err
		}

		// Authoritative limit check: the increment holds the ledger row
		// lock, so the post-increment amount is race-free. Exceeding the
		// cap here rolls the whole order back.
		if kid.HasSpendingLimit() && postSpending.Amount.GreaterThan(kid.MonthlySpendingLimit) {
			before := kid.MonthlySpendingLimit.Sub(postSpending.Amount.Sub(total))
			return &SpendingLimitError{RemainingBudget: before}
		}

		return nil
	})
	if err != nil {
		var limitErr *SpendingLimitError
		if errors.As(err, &limitErr) {
			return domain.OrderWithLines{}, limitErr
		}

		return domain.OrderWithLines{}, fmt.Errorf("s.repo.Atomically -> %w", err)
	}

	s.notifyAfterOrder(ctx, kid, created, postSpending)

	return domain.OrderWithLines{Order: created, Lines: createdLines}, nil
}

// priceCart runs the pricing dry run: every line gets its best eligible
// discount and totals, nothing is written.
func (s *OrderService) priceCart(ctx context.Context, inputs []OrderLineInput, at time.Time) ([]domain.OrderLine, decimal.Decimal, error) {
	lines := make([]domain.OrderLine, 0, len(inputs))
	total := decimal.Zero

	for _, in := range inputs {
		product, err := s.productRepo.FindByID(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, decimal.Zero, ErrProductNotFound
			}

			return nil, decimal.Zero, fmt.Errorf("s.productRepo.FindByID -> %w", err)
		}

		candidates, err := s.discountRepo.FindEligibleCandidates(ctx, product.ID, product.ProductGroupID, at)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("s.discountRepo.FindEligibleCandidates -> %w", err)
		}

		best := pricing.SelectBest(candidates, at)
		priced, err := pricing.PriceLine(product, in.Quantity, best)
		if err != nil {
			return nil, decimal.Zero, err
		}

		lines = append(lines, domain.OrderLine{
			ProductID:      product.ID,
			ProductName:    product.Name,
			UnitPrice:      priced.UnitPrice,
			Quantity:       in.Quantity,
			GrossTotal:     priced.GrossTotal,
			DiscountAmount: priced.DiscountAmount,
			NetTotal:       priced.NetTotal,
			DiscountID:     priced.DiscountID,
		})
		total = total.Add(priced.NetTotal)
	}

	return lines, total, nil
}

func (s *OrderService) notifyAfterOrder(ctx context.Context, kid domain.KidWithSchools, order domain.Order, spending domain.MonthlySpending) {
	s.notifier.Notify(ctx, kid.ParentID, NotifyOrderConfirmed,
		fmt.Sprintf("Order for %s confirmed: %s", kid.Name, order.TotalAmount.StringFixed(2)))

	if !kid.HasSpendingLimit() {
		return
	}

	remaining, exhausted, low := RemainingAfter(kid.MonthlySpendingLimit, spending.Amount)
	switch {
	case exhausted:
		s.notifier.Notify(ctx, kid.ParentID, NotifyLimitReached,
			fmt.Sprintf("%s has reached the monthly spending limit of %s", kid.Name, kid.MonthlySpendingLimit.StringFixed(2)))
	case low:
		s.notifier.Notify(ctx, kid.ParentID, NotifyLowBalance,
			fmt.Sprintf("%s has only %s left this month", kid.Name, remaining.StringFixed(2)))
	}
}

// GetOrder returns one order with its lines. Parents can only read their
// own orders.
func (s *OrderService) GetOrder(ctx context.Context, actor domain.User, orderID string) (domain.OrderWithLines, error) {
	order, err := s.repo.FindByIDWithLines(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domain.OrderWithLines{}, ErrOrderNotFound
		}

		return domain.OrderWithLines{}, fmt.Errorf("s.repo.FindByIDWithLines -> %w", err)
	}

	if actor.Role == domain.RoleParent && order.ParentID != actor.ID {
		return domain.OrderWithLines{}, ErrNotOrderOwner
	}

	return order, nil
}

// ListByParent returns the actor's orders, newest first.
func (s *OrderService) ListByParent(ctx context.Context, parentID string, status domain.OrderStatus, limit, offset int) ([]domain.OrderWithLines, int64, error) {
	if status != "" && !domain.ValidOrderStatus(status) {
		return nil, 0, ErrInvalidOrderStatus
	}

	orders, total, err := s.repo.FindByParentID(ctx, parentID, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.FindByParentID -> %w", err)
	}

	return orders, total, nil
}

// ListByKid returns a kid's orders, newest first. The actor must be
// allowed to act on the kid.
func (s *OrderService) ListByKid(ctx context.Context, actor domain.User, kidID string, status domain.OrderStatus, limit, offset int) ([]domain.OrderWithLines, int64, error) {
	if status != "" && !domain.ValidOrderStatus(status) {
		return nil, 0, ErrInvalidOrderStatus
	}

	if _, err := s.eligibility.Authorize(ctx, actor, kidID); err != nil {
		return nil, 0, err
	}

	orders, total, err := s.repo.FindByKidID(ctx, kidID, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.FindByKidID -> %w", err)
	}

	return orders, total, nil
}

// CancelOrder moves an order to canceled. Parents can cancel their own
// orders, staff and admins any. The ledger charge stands either way.
func (s *OrderService) CancelOrder(ctx context.Context, actor domain.User, orderID string) error {
	order, err := s.repo.FindByIDWithLines(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}

		return fmt.Errorf("s.repo.FindByIDWithLines -> %w", err)
	}

	if actor.Role == domain.RoleParent && order.ParentID != actor.ID {
		return ErrNotOrderOwner
	}
	if order.Status == domain.OrderCanceled {
		return ErrOrderAlreadyCanceled
	}

	if err = s.repo.UpdateStatus(ctx, orderID, domain.OrderCanceled); err != nil {
		return fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return nil
}

// UpdateStatus moves an order to a new state. Canceling does not refund
// the spending ledger; charges stand once committed.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if !domain.ValidOrderStatus(status) {
		return ErrInvalidOrderStatus
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}

		return fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return nil
}
