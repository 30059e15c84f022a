package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrSupplierNotFound  = errors.New("supplier not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError carries the stock seen under the row lock.
// It matches ErrInsufficientStock with errors.Is.
type InsufficientStockError struct {
	ItemID    int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d: available %d, requested %d", e.ItemID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
