package inventory

import "errors"

var (
	ErrNotFound            = errors.New("item not found")
	ErrSupplierNotFound    = errors.New("supplier not found")
	ErrDuplicatePartNumber = errors.New("part number already exists")
	ErrInUse               = errors.New("item has recorded purchases or sales")
)
