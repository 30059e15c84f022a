package debt

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeCreditSale Type = "CREDIT_SALE"
	TypePayment    Type = "PAYMENT"
	TypeAdjustment Type = "ADJUSTMENT"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPartial Status = "PARTIAL"
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"
)

// Open reports whether a debt in this status still has money owed.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusPartial || s == StatusOverdue
}

// Transaction is one entry in a customer's credit ledger.
// RemainingBalance always stays within [0, Amount].
type Transaction struct {
	ID               int64
	CustomerID       int64
	SaleID           *int64
	Type             Type
	Amount           decimal.Decimal
	RemainingBalance decimal.Decimal
	TransactionDate  time.Time
	DueDate          *time.Time
	PaymentMethod    string
	ReferenceNumber  string
	Notes            string
	Status           Status
	CreatedAt        time.Time

	CustomerName string // Loaded via JOIN
}

// Payment is an immutable record of money received against a debt.
type Payment struct {
	ID                int64
	DebtTransactionID int64
	Amount            decimal.Decimal
	PaymentDate       time.Time
	PaymentMethod     string
	ReferenceNumber   string
	Notes             string
	CreatedBy         string
	CreatedAt         time.Time
}

// Receipt is the outcome of a recorded payment.
type Receipt struct {
	Payment          *Payment
	RemainingBalance decimal.Decimal
	Status           Status
}

// Summary aggregates a customer's credit position. Zero values mean no rows.
// TotalPaid sums PAYMENT ledger entries; RecordedPayments sums the payments
// applied against the customer's debts.
type Summary struct {
	CustomerID       int64
	TotalCredit      decimal.Decimal
	TotalPaid        decimal.Decimal
	RecordedPayments decimal.Decimal
	Outstanding      decimal.Decimal
	OverdueCount     int
}
