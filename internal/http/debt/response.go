package debt

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/debt"
	"github.com/MrJamesThe3rd/garage/internal/http/web"
)

type debtResponse struct {
	ID               int64           `json:"id"`
	CustomerID       int64           `json:"customer_id"`
	CustomerName     string          `json:"customer_name,omitempty"`
	SaleID           *int64          `json:"sale_id,omitempty"`
	Type             debt.Type       `json:"transaction_type"`
	Amount           decimal.Decimal `json:"amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	TransactionDate  web.Date        `json:"transaction_date"`
	DueDate          *web.Date       `json:"due_date,omitempty"`
	PaymentMethod    string          `json:"payment_method,omitempty"`
	ReferenceNumber  string          `json:"reference_number,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	Status           debt.Status     `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
}

type paymentResponse struct {
	ID              int64           `json:"id"`
	DebtID          int64           `json:"debt_transaction_id"`
	Amount          decimal.Decimal `json:"payment_amount"`
	PaymentDate     web.Date        `json:"payment_date"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedBy       string          `json:"created_by"`
}

type receiptResponse struct {
	Payment          paymentResponse `json:"payment"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           debt.Status     `json:"status"`
}

func toResponse(d *debt.Transaction) debtResponse {
	resp := debtResponse{
		ID:               d.ID,
		CustomerID:       d.CustomerID,
		CustomerName:     d.CustomerName,
		SaleID:           d.SaleID,
		Type:             d.Type,
		Amount:           d.Amount,
		RemainingBalance: d.RemainingBalance,
		TransactionDate:  web.Date{Time: d.TransactionDate},
		PaymentMethod:    d.PaymentMethod,
		ReferenceNumber:  d.ReferenceNumber,
		Notes:            d.Notes,
		Status:           d.Status,
		CreatedAt:        d.CreatedAt,
	}

	if d.DueDate != nil {
		resp.DueDate = &web.Date{Time: *d.DueDate}
	}

	return resp
}

func toPaymentResponse(p *debt.Payment) paymentResponse {
	return paymentResponse{
		ID:              p.ID,
		DebtID:          p.DebtTransactionID,
		Amount:          p.Amount,
		PaymentDate:     web.Date{Time: p.PaymentDate},
		PaymentMethod:   p.PaymentMethod,
		ReferenceNumber: p.ReferenceNumber,
		Notes:           p.Notes,
		CreatedBy:       p.CreatedBy,
	}
}
