package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a spare part kept in stock.
type Item struct {
	ID            int64
	PartNumber    string
	Name          string
	Description   string
	Category      string
	UnitPrice     decimal.Decimal
	StockQuantity int
	MinStockLevel int
	Location      string
	SupplierID    *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time

	SupplierName string // Loaded via JOIN
}

// IsLowStock reports whether stock has reached the reorder level.
func (i *Item) IsLowStock() bool {
	return i.StockQuantity <= i.MinStockLevel
}

type Supplier struct {
	ID            int64
	Name          string
	ContactNumber string
	Email         string
	Address       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
