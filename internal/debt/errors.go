package debt

import "errors"

var (
	ErrNotFound         = errors.New("debt not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrOverpayment      = errors.New("payment exceeds remaining balance")
	ErrHasPayments      = errors.New("debt has recorded payments")
)
