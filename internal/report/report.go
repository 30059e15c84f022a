package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/inventory"
)

type Items interface {
	Count(ctx context.Context) (int, error)
	LowStock(ctx context.Context) ([]*inventory.Item, error)
}

type Ledger interface {
	TodaySalesTotal(ctx context.Context) (decimal.Decimal, error)
	TodayPurchasesTotal(ctx context.Context) (decimal.Decimal, error)
}

type Debts interface {
	TotalOutstanding(ctx context.Context) (decimal.Decimal, error)
	CountOverdue(ctx context.Context) (int, error)
}

type Customers interface {
	Count(ctx context.Context) (int, error)
}

// Dashboard is the at-a-glance view of the garage's stock and money.
type Dashboard struct {
	TotalItems      int
	LowStockItems   []*inventory.Item
	TodaySales      decimal.Decimal
	TodayPurchases  decimal.Decimal
	OutstandingDebt decimal.Decimal
	OverdueDebts    int
	TotalCustomers  int
}

type Service struct {
	items     Items
	ledger    Ledger
	debts     Debts
	customers Customers
}

func NewService(items Items, ledger Ledger, debts Debts, customers Customers) *Service {
	return &Service{items: items, ledger: ledger, debts: debts, customers: customers}
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		d   Dashboard
		err error
	)

	if d.TotalItems, err = s.items.Count(ctx); err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}

	if d.LowStockItems, err = s.items.LowStock(ctx); err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}

	if d.TodaySales, err = s.ledger.TodaySalesTotal(ctx); err != nil {
		return nil, fmt.Errorf("today sales: %w", err)
	}

	if d.TodayPurchases, err = s.ledger.TodayPurchasesTotal(ctx); err != nil {
		return nil, fmt.Errorf("today purchases: %w", err)
	}

	if d.OutstandingDebt, err = s.debts.TotalOutstanding(ctx); err != nil {
		return nil, fmt.Errorf("outstanding debt: %w", err)
	}

	if d.OverdueDebts, err = s.debts.CountOverdue(ctx); err != nil {
		return nil, fmt.Errorf("overdue debts: %w", err)
	}

	if d.TotalCustomers, err = s.customers.Count(ctx); err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}

	return &d, nil
}
