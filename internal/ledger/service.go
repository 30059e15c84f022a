package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	ListSales(ctx context.Context, filter ListFilter) ([]*Sale, error)
	ListPurchases(ctx context.Context, filter ListFilter) ([]*Purchase, error)
	SalesTotal(ctx context.Context, day time.Time) (decimal.Decimal, error)
	PurchasesTotal(ctx context.Context, day time.Time) (decimal.Decimal, error)
}

// Tx is one atomic unit of work against the stock ledger.
type Tx interface {
	// LockStock returns the current stock of an item and holds its row until the Tx ends.
	LockStock(ctx context.Context, itemID int64) (int, error)
	InsertSale(ctx context.Context, sale *Sale) error
	InsertPurchase(ctx context.Context, purchase *Purchase) error
	// AdjustStock adds delta to the stored quantity without reading it first.
	AdjustStock(ctx context.Context, itemID int64, delta int) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the clock used for default dates and "today" totals.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateSaleParams struct {
	ItemID     int64 `validate:"required"`
	CustomerID *int64
	Quantity   int             `validate:"gt=0"`
	UnitPrice  decimal.Decimal `validate:"dgte0,dmoney"`
	Date       time.Time
	Notes      string
}

type CreatePurchaseParams struct {
	ItemID        int64 `validate:"required"`
	SupplierID    *int64
	Quantity      int             `validate:"gt=0"`
	UnitPrice     decimal.Decimal `validate:"dgte0,dmoney"`
	Date          time.Time
	InvoiceNumber string
	Notes         string
}

type ListFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CustomerID *int64
	SupplierID *int64
	ItemID     *int64
}

// RecordSale stores a sale and takes its quantity out of stock in one transaction.
// Nothing is written when the item is missing or short.
func (s *Service) RecordSale(ctx context.Context, params CreateSaleParams) (*Sale, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin sale: %w", err)
	}
	defer tx.Rollback()

	available, err := tx.LockStock(ctx, params.ItemID)
	if err != nil {
		return nil, fmt.Errorf("lock stock: %w", err)
	}

	if params.Quantity > available {
		return nil, &InsufficientStockError{
			ItemID:    params.ItemID,
			Available: available,
			Requested: params.Quantity,
		}
	}

	sale := &Sale{
		ItemID:      params.ItemID,
		CustomerID:  params.CustomerID,
		Quantity:    params.Quantity,
		UnitPrice:   params.UnitPrice,
		TotalAmount: lineTotal(params.Quantity, params.UnitPrice),
		SaleDate:    s.dateOrToday(params.Date),
		Notes:       params.Notes,
	}

	if err := tx.InsertSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}

	if err := tx.AdjustStock(ctx, params.ItemID, -params.Quantity); err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit sale: %w", err)
	}

	return sale, nil
}

// RecordPurchase stores a purchase and adds its quantity to stock in one transaction.
func (s *Service) RecordPurchase(ctx context.Context, params CreatePurchaseParams) (*Purchase, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin purchase: %w", err)
	}
	defer tx.Rollback()

	purchase := &Purchase{
		ItemID:        params.ItemID,
		SupplierID:    params.SupplierID,
		Quantity:      params.Quantity,
		UnitPrice:     params.UnitPrice,
		TotalAmount:   lineTotal(params.Quantity, params.UnitPrice),
		PurchaseDate:  s.dateOrToday(params.Date),
		InvoiceNumber: params.InvoiceNumber,
		Notes:         params.Notes,
	}

	if err := tx.InsertPurchase(ctx, purchase); err != nil {
		return nil, fmt.Errorf("insert purchase: %w", err)
	}

	if err := tx.AdjustStock(ctx, params.ItemID, params.Quantity); err != nil {
		return nil, fmt.Errorf("increment stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit purchase: %w", err)
	}

	return purchase, nil
}

func (s *Service) ListSales(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	return s.repo.ListSales(ctx, filter)
}

func (s *Service) ListPurchases(ctx context.Context, filter ListFilter) ([]*Purchase, error) {
	return s.repo.ListPurchases(ctx, filter)
}

func (s *Service) SalesBetween(ctx context.Context, start, end time.Time) ([]*Sale, error) {
	return s.repo.ListSales(ctx, ListFilter{StartDate: &start, EndDate: &end})
}

func (s *Service) PurchasesBetween(ctx context.Context, start, end time.Time) ([]*Purchase, error) {
	return s.repo.ListPurchases(ctx, ListFilter{StartDate: &start, EndDate: &end})
}

func (s *Service) SalesByCustomer(ctx context.Context, customerID int64) ([]*Sale, error) {
	return s.repo.ListSales(ctx, ListFilter{CustomerID: &customerID})
}

func (s *Service) TodaySalesTotal(ctx context.Context) (decimal.Decimal, error) {
	return s.repo.SalesTotal(ctx, s.today())
}

func (s *Service) TodayPurchasesTotal(ctx context.Context) (decimal.Decimal, error) {
	return s.repo.PurchasesTotal(ctx, s.today())
}

func (s *Service) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) dateOrToday(d time.Time) time.Time {
	if d.IsZero() {
		return s.today()
	}

	return d
}
