package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/repository/dao"
)

var ErrOrderNotFound = dao.ErrOrderNotFound

// OrderTx is the set of writes available inside one checkout transaction.
// Returning an error from the Atomically callback rolls all of them back.
type OrderTx interface {
	CreateOrder(order domain.Order) (domain.Order, error)
	CreateOrderLines(lines []domain.OrderLine) ([]domain.OrderLine, error)
	IncrementSpending(kidID string, year, month int, delta decimal.Decimal) (domain.MonthlySpending, error)
}

type OrderDAO interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	InsertOrder(tx *gorm.DB, order dao.Order) (dao.Order, error)
	InsertLines(tx *gorm.DB, lines []dao.OrderLine) ([]dao.OrderLine, error)
	FindByIDWithLines(ctx context.Context, id string) (dao.Order, error)
	FindByParentID(ctx context.Context, parentID string, status string, limit, offset int) ([]dao.Order, int64, error)
	FindByKidID(ctx context.Context, kidID string, status string, limit, offset int) ([]dao.Order, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type SpendingTxDAO interface {
	IncrementLocked(tx *gorm.DB, kidID string, year, month int, delta decimal.Decimal) (dao.MonthlySpending, error)
}

type OrderRepository struct {
	dao      OrderDAO
	spending SpendingTxDAO
}

func NewOrderRepository(orderDAO OrderDAO, spendingDAO SpendingTxDAO) *OrderRepository {
	return &OrderRepository{
		dao:      orderDAO,
		spending: spendingDAO,
	}
}

func orderDomainToDao(o domain.Order) dao.Order {
	return dao.Order{
		ID:          o.ID,
		KidID:       o.KidID,
		ParentID:    o.ParentID,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func orderDaoToDomain(o dao.Order) domain.Order {
	return domain.Order{
		ID:          o.ID,
		KidID:       o.KidID,
		ParentID:    o.ParentID,
		TotalAmount: o.TotalAmount,
		Status:      domain.OrderStatus(o.Status),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func orderLineDomainToDao(l domain.OrderLine) dao.OrderLine {
	var discountID *string
	if l.DiscountID != "" {
		id := l.DiscountID
		discountID = &id
	}

	return dao.OrderLine{
		ID:             l.ID,
		OrderID:        l.OrderID,
		ProductID:      l.ProductID,
		ProductName:    l.ProductName,
		UnitPrice:      l.UnitPrice,
		Quantity:       l.Quantity,
		GrossTotal:     l.GrossTotal,
		DiscountAmount: l.DiscountAmount,
		NetTotal:       l.NetTotal,
		DiscountID:     discountID,
		CreatedAt:      l.CreatedAt,
	}
}

func orderLineDaoToDomain(l dao.OrderLine) domain.OrderLine {
	discountID := ""
	if l.DiscountID != nil {
		discountID = *l.DiscountID
	}

	return domain.OrderLine{
		ID:             l.ID,
		OrderID:        l.OrderID,
		ProductID:      l.ProductID,
		ProductName:    l.ProductName,
		UnitPrice:      l.UnitPrice,
		Quantity:       l.Quantity,
		GrossTotal:     l.GrossTotal,
		DiscountAmount: l.DiscountAmount,
		NetTotal:       l.NetTotal,
		DiscountID:     discountID,
		CreatedAt:      l.CreatedAt,
	}
}

func orderWithLinesDaoToDomain(o dao.Order) domain.OrderWithLines {
	lines := make([]domain.OrderLine, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = orderLineDaoToDomain(l)
	}

	return domain.OrderWithLines{
		Order: orderDaoToDomain(o),
		Lines: lines,
	}
}

// orderTx implements OrderTx over one live gorm transaction handle.
type orderTx struct {
	tx       *gorm.DB
	dao      OrderDAO
	spending SpendingTxDAO
}

func (t *orderTx) CreateOrder(order domain.Order) (domain.Order, error) {
	created, err := t.dao.InsertOrder(t.tx, orderDomainToDao(order))
	if err != nil {
		return domain.Order{}, fmt.Errorf("t.dao.InsertOrder -> %w", err)
	}

	return orderDaoToDomain(created), nil
}

func (t *orderTx) CreateOrderLines(lines []domain.OrderLine) ([]domain.OrderLine, error) {
	daoLines := make([]dao.OrderLine, len(lines))
	for i, l := range lines {
		daoLines[i] = orderLineDomainToDao(l)
	}

	created, err := t.dao.InsertLines(t.tx, daoLines)
	if err != nil {
		return nil, fmt.Errorf("t.dao.InsertLines -> %w", err)
	}

	result := make([]domain.OrderLine, len(created))
	for i, l := range created {
		result[i] = orderLineDaoToDomain(l)
	}

	return result, nil
}

func (t *orderTx) IncrementSpending(kidID string, year, month int, delta decimal.Decimal) (domain.MonthlySpending, error) {
	spending, err := t.spending.IncrementLocked(t.tx, kidID, year, month, delta)
	if err != nil {
		return domain.MonthlySpending{}, fmt.Errorf("t.spending.IncrementLocked -> %w", err)
	}

	return spendingDaoToDomain(spending), nil
}

// Atomically runs fn inside one database transaction. All writes fn makes
// through the OrderTx it receives commit together or not at all.
func (r *OrderRepository) Atomically(ctx context.Context, fn func(tx OrderTx) error) error {
	return r.dao.Transaction(ctx, func(tx *gorm.DB) error {
		return fn(&orderTx{tx: tx, dao: r.dao, spending: r.spending})
	})
}

func (r *OrderRepository) FindByIDWithLines(ctx context.Context, id string) (domain.OrderWithLines, error) {
	order, err := r.dao.FindByIDWithLines(ctx, id)
	if err != nil {
		if err == dao.ErrOrderNotFound {
			return domain.OrderWithLines{}, ErrOrderNotFound
		}
		return domain.OrderWithLines{}, fmt.Errorf("r.dao.FindByIDWithLines -> %w", err)
	}

	return orderWithLinesDaoToDomain(order), nil
}

func (r *OrderRepository) FindByParentID(ctx context.Context, parentID string, status domain.OrderStatus, limit, offset int) ([]domain.OrderWithLines, int64, error) {
	orders, total, err := r.dao.FindByParentID(ctx, parentID, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.FindByParentID -> %w", err)
	}

	result := make([]domain.OrderWithLines, len(orders))
	for i, o := range orders {
		result[i] = orderWithLinesDaoToDomain(o)
	}

	return result, total, nil
}

func (r *OrderRepository) FindByKidID(ctx context.Context, kidID string, status domain.OrderStatus, limit, offset int) ([]domain.OrderWithLines, int64, error) {
	orders, total, err := r.dao.FindByKidID(ctx, kidID, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.FindByKidID -> %w", err)
	}

	result := make([]domain.OrderWithLines, len(orders))
	for i, o := range orders {
		result[i] = orderWithLinesDaoToDomain(o)
	}

	return result, total, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if err := r.dao.UpdateStatus(ctx, id, string(status)); err != nil {
		if err == dao.ErrOrderNotFound {
			return ErrOrderNotFound
		}
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}
