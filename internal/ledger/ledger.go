package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable record of parts leaving stock.
type Sale struct {
	ID          int64
	ItemID      int64
	CustomerID  *int64
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal
	SaleDate    time.Time
	Notes       string
	CreatedAt   time.Time

	// Loaded via JOIN on reads.
	PartNumber   string
	ItemName     string
	CustomerName string
}

// Purchase is an immutable record of parts entering stock.
type Purchase struct {
	ID            int64
	ItemID        int64
	SupplierID    *int64
	Quantity      int
	UnitPrice     decimal.Decimal
	TotalAmount   decimal.Decimal
	PurchaseDate  time.Time
	InvoiceNumber string
	Notes         string
	CreatedAt     time.Time

	// Loaded via JOIN on reads.
	PartNumber   string
	ItemName     string
	SupplierName string
}

func lineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
