package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/repository"
)

var wednesdayNoon = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

type fakeKidRepo struct {
	kids map[string]domain.KidWithSchools
}

func (f *fakeKidRepo) FindWithSchools(_ context.Context, id string) (domain.KidWithSchools, error) {
	kid, ok := f.kids[id]
	if !ok {
		return domain.KidWithSchools{}, repository.ErrKidNotFound
	}
	return kid, nil
}

type fakeProductRepo struct {
	products map[string]domain.Product
}

func (f *fakeProductRepo) FindByID(_ context.Context, id string) (domain.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return domain.Product{}, repository.ErrProductNotFound
	}
	return product, nil
}

type fakeDiscountRepo struct {
	candidates map[string][]domain.Discount
}

func (f *fakeDiscountRepo) FindEligibleCandidates(_ context.Context, productID, _ string, _ time.Time) ([]domain.Discount, error) {
	return f.candidates[productID], nil
}

// fakeOrderTx buffers writes so the repo can discard them when the
// callback errors, mirroring a real transaction rollback.
type fakeOrderTx struct {
	priorSpent decimal.Decimal

	order     domain.Order
	lines     []domain.OrderLine
	increment decimal.Decimal
}

func (t *fakeOrderTx) CreateOrder(order domain.Order) (domain.Order, error) {
	order.ID = "order-1"
	t.order = order
	return order, nil
}

func (t *fakeOrderTx) CreateOrderLines(lines []domain.OrderLine) ([]domain.OrderLine, error) {
	t.lines = lines
	return lines, nil
}

func (t *fakeOrderTx) IncrementSpending(kidID string, year, month int, delta decimal.Decimal) (domain.MonthlySpending, error) {
	t.increment = delta
	return domain.MonthlySpending{
		KidID:  kidID,
		Year:   year,
		Month:  month,
		Amount: t.priorSpent.Add(delta),
	}, nil
}

type fakeOrderRepo struct {
	priorSpent decimal.Decimal

	stored        *domain.OrderWithLines
	statusUpdates []domain.OrderStatus

	committed  *fakeOrderTx
	rolledBack bool
}

func (f *fakeOrderRepo) Atomically(_ context.Context, fn func(tx repository.OrderTx) error) error {
	tx := &fakeOrderTx{priorSpent: f.priorSpent}
	if err := fn(tx); err != nil {
		f.rolledBack = true
		return err
	}

	f.committed = tx
	return nil
}

func (f *fakeOrderRepo) FindByIDWithLines(context.Context, string) (domain.OrderWithLines, error) {
	if f.stored == nil {
		return domain.OrderWithLines{}, repository.ErrOrderNotFound
	}
	return *f.stored, nil
}

func (f *fakeOrderRepo) FindByParentID(context.Context, string, domain.OrderStatus, int, int) ([]domain.OrderWithLines, int64, error) {
	return nil, 0, nil
}

func (f *fakeOrderRepo) FindByKidID(context.Context, string, domain.OrderStatus, int, int) ([]domain.OrderWithLines, int64, error) {
	return nil, 0, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, _ string, status domain.OrderStatus) error {
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

type recordedNotification struct {
	userID string
	kind   NotificationKind
}

type recordingNotifier struct {
	notifications []recordedNotification
}

func (n *recordingNotifier) Notify(_ context.Context, userID string, kind NotificationKind, _ string) {
	n.notifications = append(n.notifications, recordedNotification{userID: userID, kind: kind})
}

func (n *recordingNotifier) kinds() []NotificationKind {
	kinds := make([]NotificationKind, len(n.notifications))
	for i, rec := range n.notifications {
		kinds[i] = rec.kind
	}
	return kinds
}

type orderFixture struct {
	svc      *OrderService
	repo     *fakeOrderRepo
	notifier *recordingNotifier
}

// newOrderFixture wires the coordinator over an active kid owned by
// parent-1 attending a weekday school, a 10.00 sandwich, and the given
// spending state.
func newOrderFixture(kid domain.Kid, priorSpent string, candidates []domain.Discount) *orderFixture {
	school := domain.School{
		ID:          "school-1",
		OpeningHour: "08:00",
		ClosingHour: "14:00",
		Weekdays: domain.WeekdayFlags{
			Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true,
		},
		IsActive: true,
	}

	prior := decimal.RequireFromString(priorSpent)
	repo := &fakeOrderRepo{priorSpent: prior}
	notifier := &recordingNotifier{}

	svc := NewOrderService(
		repo,
		&fakeProductRepo{products: map[string]domain.Product{
			"prod-1": {ID: "prod-1", Name: "Sandwich", Price: decimal.RequireFromString("10.00"), IsActive: true},
		}},
		&fakeDiscountRepo{candidates: map[string][]domain.Discount{"prod-1": candidates}},
		NewEligibilityService(&fakeKidRepo{kids: map[string]domain.KidWithSchools{
			kid.ID: {Kid: kid, Schools: []domain.School{school}},
		}}),
		NewLedgerService(&fakeSpendingRepo{amounts: map[string]decimal.Decimal{kid.ID: prior}}),
		notifier,
	)
	svc.now = func() time.Time { return wednesdayNoon }

	return &orderFixture{svc: svc, repo: repo, notifier: notifier}
}

func activeKid() domain.Kid {
	return domain.Kid{ID: "kid-1", Name: "Alex", ParentID: "parent-1", IsActive: true}
}

var parent = domain.User{ID: "parent-1", Role: domain.RoleParent}

func TestOrderServicePlaceOrder(t *testing.T) {
	t.Run("prices the cart and commits order, lines and ledger together", func(t *testing.T) {
		buyTwoGetOne := domain.Discount{
			ID:          "b2g1",
			Eligibility: domain.Eligibility{IsActive: true},
			Value:       decimal.NewFromInt(1),
			Priority:    5,
			Effect:      domain.BuyXGetY{BuyQuantity: 2, GetQuantity: 1},
		}
		f := newOrderFixture(activeKid(), "0.00", []domain.Discount{buyTwoGetOne})

		order, err := f.svc.PlaceOrder(context.Background(), parent, "kid-1",
			[]OrderLineInput{{ProductID: "prod-1", Quantity: 3}})
		require.NoError(t, err)

		assert.Equal(t, domain.OrderCompleted, order.Status)
		assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("20.00")))
		assert.Equal(t, "parent-1", order.ParentID)

		require.Len(t, order.Lines, 1)
		line := order.Lines[0]
		assert.Equal(t, "Sandwich", line.ProductName)
		assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("10.00")))
		assert.True(t, line.DiscountAmount.Equal(decimal.RequireFromString("10.00")))
		assert.True(t, line.NetTotal.Equal(decimal.RequireFromString("20.00")))
		assert.Equal(t, "b2g1", line.DiscountID)

		require.NotNil(t, f.repo.committed)
		assert.True(t, f.repo.committed.increment.Equal(order.TotalAmount),
			"ledger must be charged the order total")
		assert.Equal(t, []NotificationKind{NotifyOrderConfirmed}, f.notifier.kinds())
	})

	t.Run("total is the sum of line net totals", func(t *testing.T) {
		f := newOrderFixture(activeKid(), "0.00", nil)

		order, err := f.svc.PlaceOrder(context.Background(), parent, "kid-1",
			[]OrderLineInput{
				{ProductID: "prod-1", Quantity: 2},
				{ProductID: "prod-1", Quantity: 1},
			})
		require.NoError(t, err)

		assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("30.00")))
		require.Len(t, order.Lines, 2)
	})

	t.Run("rejects an empty cart", func(t *testing.T) {
		f := newOrderFixture(activeKid(), "0.00", nil)

		_, err := f.svc.PlaceOrder(context.Background(), parent, "kid-1", nil)
		assert.ErrorIs(t, err, ErrCartEmpty)
		assert.Nil(t, f.repo.committed)
	})

	t.Run("rejects a non-positive quantity before touching storage", func(t *testing.T) {
		f := newOrderFixture(activeKid(), "0.00", nil)

		_, err := f.svc.PlaceOrder(context.Background(), parent, "kid-1",
			[]OrderLineInput{{ProductID: "prod-1", Quantity: 0}})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("rejects an unknown product", func(t *testing.T) {
		f := newOrderFixture(activeKid(), "0.00", nil)

		_, err := f.svc.PlaceOrder(context.Background(), parent, "kid-1",
			[]OrderLineInput{{ProductID: "nope", Quantity: 1}})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("rejects a stranger's kid", func(t *testing.T) {
		f := newOrderFixture(activeKid(), "0.00", nil)
		stranger := domain.User{ID: "parent-2", Role: domain.RoleParent}

		_, err := f.svc.PlaceOrder(context.Background(), stranger, "kid-1",
			[]OrderLineInput{{ProductID: "prod-1", Quantity: 1}})
		assert.ErrorIs(t, err, ErrNotKidParent)
	})

	t.Run("staff can order for any kid", func(t *testing.T) {
		f := newOrderFixture(activeKid(), "0.00", nil)
		staff := domain.User{ID: "staff-1", Role: domain.RoleStaff}

		_, err := f.svc.PlaceOrder(context.Background(), staff, "kid-1",
			[]OrderLineInput{{ProductID: "prod-1", Quantity: 1}})
		assert.NoError(t, err)
	})

	t.Run("rejects an inactive kid", func(t *testing.T) {
		kid := activeKid()
		kid.IsActive = false
		f := newOrderFixture(kid, "0.00", nil)

		_, err := f.svc.PlaceOrder(context.Background(), parent, "kid-1",
			[]OrderLineInput{{ProductID: "prod-1", Quantity: 1}})
		assert.ErrorIs(t, err, ErrKidInactive)
	})

	t.Run("rejects orders outside the school window", func(t *testing.T) {
		f := newOrderFixture(activeKid(), "0.00", nil)
		f.svc.now = func() time.Time {
			return time.Date(2026, 3, 4, 17, 0, 0, 0, time.UTC) // after closing
		}

		_, err := f.svc.PlaceOrder(context.Background(), parent, "kid-1",
			[]OrderLineInput{{ProductID: "prod-1", Quantity: 1}})
		assert.ErrorIs(t, err, ErrOrderingClosed)
		assert.Nil(t, f.repo.committed)
	})

	t.Run("refuses an order over the remaining budget before writing", func(t *testing.T) {
		kid := activeKid()
		kid.MonthlySpendingLimit = decimal.RequireFromString("20.00")
		f := newOrderFixture(kid, "15.00", nil)

		_, err := f.svc.PlaceOrder(context.Background(), parent, "kid-1",
			[]OrderLineInput{{ProductID: "prod-1", Quantity: 1}})

		var limitErr *SpendingLimitError
		require.ErrorAs(t, err, &limitErr)
		assert.True(t, limitErr.RemainingBudget.Equal(decimal.RequireFromString("5.00")))
		assert.Nil(t, f.repo.committed)
		assert.False(t, f.repo.rolledBack, "precheck failures never open a transaction")
		assert.Empty(t, f.notifier.kinds())
	})

	t.Run("rolls everything back when a concurrent order took the budget", func(t *testing.T) {
		kid := activeKid()
		kid.MonthlySpendingLimit = decimal.RequireFromString("20.00")
		f := newOrderFixture(kid, "0.00", nil)

		// The precheck sees 0.00 spent, but by commit time a racing
		// order has already charged 15.00.
		f.repo.priorSpent = decimal.RequireFromString("15.00")

		_, err := f.svc.PlaceOrder(context.Background(), parent, "kid-1",
			[]OrderLineInput{{ProductID: "prod-1", Quantity: 1}})

		var limitErr *SpendingLimitError
		require.ErrorAs(t, err, &limitErr)
		assert.True(t, limitErr.RemainingBudget.Equal(decimal.RequireFromString("5.00")))
		assert.True(t, f.repo.rolledBack)
		assert.Nil(t, f.repo.committed, "no partial writes may survive")
		assert.Empty(t, f.notifier.kinds())
	})

	t.Run("notifies when the remaining budget runs low", func(t *testing.T) {
		kid := activeKid()
		kid.MonthlySpendingLimit = decimal.RequireFromString("20.00")
		f := newOrderFixture(kid, "9.00", nil)

		_, err := f.svc.PlaceOrder(context.Background(), parent, "kid-1",
			[]OrderLineInput{{ProductID: "prod-1", Quantity: 1}})
		require.NoError(t, err)

		assert.Equal(t, []NotificationKind{NotifyOrderConfirmed, NotifyLowBalance}, f.notifier.kinds())
	})

	t.Run("notifies when the order exhausts the limit exactly", func(t *testing.T) {
		kid := activeKid()
		kid.MonthlySpendingLimit = decimal.RequireFromString("20.00")
		f := newOrderFixture(kid, "10.00", nil)

		order, err := f.svc.PlaceOrder(context.Background(), parent, "kid-1",
			[]OrderLineInput{{ProductID: "prod-1", Quantity: 1}})
		require.NoError(t, err, "an order landing exactly on the limit is allowed")
		assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("10.00")))

		assert.Equal(t, []NotificationKind{NotifyOrderConfirmed, NotifyLimitReached}, f.notifier.kinds())
	})
}

func TestOrderServiceUpdateStatus(t *testing.T) {
	f := newOrderFixture(activeKid(), "0.00", nil)

	err := f.svc.UpdateStatus(context.Background(), "order-1", "shipped")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	err = f.svc.UpdateStatus(context.Background(), "order-1", domain.OrderCanceled)
	assert.NoError(t, err)
}

func TestOrderServiceCancelOrder(t *testing.T) {
	completedOrder := func() *domain.OrderWithLines {
		return &domain.OrderWithLines{Order: domain.Order{
			ID:       "order-1",
			KidID:    "kid-1",
			ParentID: "parent-1",
			Status:   domain.OrderCompleted,
		}}
	}

	t.Run("the owning parent can cancel", func(t *testing.T) {
		f := newOrderFixture(activeKid(), "0.00", nil)
		f.repo.stored = completedOrder()

		err := f.svc.CancelOrder(context.Background(), parent, "order-1")
		require.NoError(t, err)
		assert.Equal(t, []domain.OrderStatus{domain.OrderCanceled}, f.repo.statusUpdates)
	})

	t.Run("another parent cannot", func(t *testing.T) {
		f := newOrderFixture(activeKid(), "0.00", nil)
		f.repo.stored = completedOrder()
		stranger := domain.User{ID: "parent-2", Role: domain.RoleParent}

		err := f.svc.CancelOrder(context.Background(), stranger, "order-1")
		assert.ErrorIs(t, err, ErrNotOrderOwner)
		assert.Empty(t, f.repo.statusUpdates)
	})

	t.Run("staff can cancel any order", func(t *testing.T) {
		f := newOrderFixture(activeKid(), "0.00", nil)
		f.repo.stored = completedOrder()
		staff := domain.User{ID: "staff-1", Role: domain.RoleStaff}

		err := f.svc.CancelOrder(context.Background(), staff, "order-1")
		assert.NoError(t, err)
	})

	t.Run("canceling twice conflicts", func(t *testing.T) {
		f := newOrderFixture(activeKid(), "0.00", nil)
		canceled := completedOrder()
		canceled.Status = domain.OrderCanceled
		f.repo.stored = canceled

		err := f.svc.CancelOrder(context.Background(), parent, "order-1")
		assert.ErrorIs(t, err, ErrOrderAlreadyCanceled)
	})

	t.Run("missing order", func(t *testing.T) {
		f := newOrderFixture(activeKid(), "0.00", nil)

		err := f.svc.CancelOrder(context.Background(), parent, "missing")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestOrderServiceGetOrder(t *testing.T) {
	f := newOrderFixture(activeKid(), "0.00", nil)

	_, err := f.svc.GetOrder(context.Background(), parent, "missing")
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}
