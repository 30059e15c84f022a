package customer

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("customer not found")
	ErrInUse    = errors.New("customer has recorded debts")
)

type Customer struct {
	ID            int64
	Name          string
	ContactNumber string
	Email         string
	Address       string
	VehicleInfo   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
