package debt

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=debt
type Repository interface {
	Create(ctx context.Context, debt *Transaction) error
	Get(ctx context.Context, id int64) (*Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	Overdue(ctx context.Context, today time.Time) ([]*Transaction, error)
	CountOverdue(ctx context.Context, today time.Time) (int, error)
	TotalOutstanding(ctx context.Context) (decimal.Decimal, error)
	CustomerSummary(ctx context.Context, customerID int64, today time.Time) (*Summary, error)
	Payments(ctx context.Context, debtID int64) ([]*Payment, error)
	Delete(ctx context.Context, id int64) error
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)

	Begin(ctx context.Context) (Tx, error)
}

// Tx records a payment atomically.
type Tx interface {
	InsertPayment(ctx context.Context, payment *Payment) error
	// ApplyPayment subtracts amount from the balance only when the balance covers it.
	// applied is false when no row matched.
	ApplyPayment(ctx context.Context, debtID int64, amount decimal.Decimal) (remaining decimal.Decimal, status Status, applied bool, err error)
	Exists(ctx context.Context, debtID int64) (bool, error)
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

// WithClock replaces the clock that decides "today" for due dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateParams struct {
	CustomerID      int64           `validate:"required"`
	SaleID          *int64
	Type            Type            `validate:"omitempty,oneof=CREDIT_SALE PAYMENT ADJUSTMENT"`
	Amount          decimal.Decimal `validate:"dgt0,dmoney"`
	Date            time.Time
	DueDate         *time.Time
	PaymentMethod   string
	ReferenceNumber string
	Notes           string
}

type PaymentParams struct {
	DebtID          int64           `validate:"required"`
	Amount          decimal.Decimal `validate:"dgt0,dmoney"`
	Date            time.Time
	PaymentMethod   string
	ReferenceNumber string
	Notes           string
	CreatedBy       string
}

type ListFilter struct {
	CustomerID  *int64
	Statuses    []Status
	OldestFirst bool
}

const defaultRecorder = "admin"

// AddDebtTransaction opens a new ledger entry. Credit sales and adjustments
// start fully owed; a PAYMENT entry is settled on creation.
func (s *Service) AddDebtTransaction(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	debt := &Transaction{
		CustomerID:       params.CustomerID,
		SaleID:           params.SaleID,
		Type:             params.Type,
		Amount:           params.Amount,
		RemainingBalance: params.Amount,
		TransactionDate:  params.Date,
		DueDate:          params.DueDate,
		PaymentMethod:    params.PaymentMethod,
		ReferenceNumber:  params.ReferenceNumber,
		Notes:            params.Notes,
		Status:           StatusPending,
	}

	if debt.Type == "" {
		debt.Type = TypeCreditSale
	}

	if debt.Type == TypePayment {
		debt.RemainingBalance = decimal.Zero
		debt.Status = StatusPaid
	}

	if debt.TransactionDate.IsZero() {
		debt.TransactionDate = s.today()
	}

	if err := s.repo.Create(ctx, debt); err != nil {
		return nil, fmt.Errorf("create debt: %w", err)
	}

	return debt, nil
}

// RecordPayment applies a payment to a debt. Overpayment is rejected before
// anything is written; the storage guard catches payments that race each other.
func (s *Service) RecordPayment(ctx context.Context, params PaymentParams) (*Receipt, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	debt, err := s.repo.Get(ctx, params.DebtID)
	if err != nil {
		return nil, fmt.Errorf("get debt: %w", err)
	}

	if params.Amount.GreaterThan(debt.RemainingBalance) {
		return nil, ErrOverpayment
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin payment: %w", err)
	}
	defer tx.Rollback()

	payment := &Payment{
		DebtTransactionID: params.DebtID,
		Amount:            params.Amount,
		PaymentDate:       params.Date,
		PaymentMethod:     params.PaymentMethod,
		ReferenceNumber:   params.ReferenceNumber,
		Notes:             params.Notes,
		CreatedBy:         params.CreatedBy,
	}

	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = s.today()
	}

	if payment.CreatedBy == "" {
		payment.CreatedBy = defaultRecorder
	}

	if err := tx.InsertPayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	remaining, status, applied, err := tx.ApplyPayment(ctx, params.DebtID, params.Amount)
	if err != nil {
		return nil, fmt.Errorf("apply payment: %w", err)
	}

	if !applied {
		exists, err := tx.Exists(ctx, params.DebtID)
		if err != nil {
			return nil, fmt.Errorf("check debt: %w", err)
		}

		if !exists {
			return nil, ErrNotFound
		}

		return nil, ErrOverpayment
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit payment: %w", err)
	}

	return &Receipt{Payment: payment, RemainingBalance: remaining, Status: status}, nil
}

// MarkOverdue persists OVERDUE on every open debt past its due date and
// returns how many rows changed. Running it twice changes nothing the second time.
func (s *Service) MarkOverdue(ctx context.Context) (int64, error) {
	n, err := s.repo.MarkOverdue(ctx, s.today())
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}

	return n, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Transaction, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Transaction, error) {
	return s.repo.List(ctx, ListFilter{})
}

func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]*Transaction, error) {
	return s.repo.List(ctx, ListFilter{CustomerID: &customerID})
}

// Pending returns every debt with money still owed, oldest first.
func (s *Service) Pending(ctx context.Context) ([]*Transaction, error) {
	return s.repo.List(ctx, ListFilter{
		Statuses:    []Status{StatusPending, StatusPartial, StatusOverdue},
		OldestFirst: true,
	})
}

// Overdue returns debts matching the derived overdue predicate, earliest due first.
func (s *Service) Overdue(ctx context.Context) ([]*Transaction, error) {
	return s.repo.Overdue(ctx, s.today())
}

func (s *Service) CountOverdue(ctx context.Context) (int, error) {
	return s.repo.CountOverdue(ctx, s.today())
}

func (s *Service) TotalOutstanding(ctx context.Context) (decimal.Decimal, error) {
	return s.repo.TotalOutstanding(ctx)
}

func (s *Service) CustomerSummary(ctx context.Context, customerID int64) (*Summary, error) {
	return s.repo.CustomerSummary(ctx, customerID, s.today())
}

// PaymentHistory returns a debt's payments, newest first.
func (s *Service) PaymentHistory(ctx context.Context, debtID int64) ([]*Payment, error) {
	return s.repo.Payments(ctx, debtID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
