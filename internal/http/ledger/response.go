package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/http/web"
	"github.com/MrJamesThe3rd/garage/internal/ledger"
)

type saleResponse struct {
	ID           int64           `json:"id"`
	ItemID       int64           `json:"item_id"`
	PartNumber   string          `json:"part_number,omitempty"`
	ItemName     string          `json:"item_name,omitempty"`
	CustomerID   *int64          `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	SaleDate     web.Date        `json:"sale_date"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type purchaseResponse struct {
	ID            int64           `json:"id"`
	ItemID        int64           `json:"item_id"`
	PartNumber    string          `json:"part_number,omitempty"`
	ItemName      string          `json:"item_name,omitempty"`
	SupplierID    *int64          `json:"supplier_id,omitempty"`
	SupplierName  string          `json:"supplier_name,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PurchaseDate  web.Date        `json:"purchase_date"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toSaleResponse(s *ledger.Sale) saleResponse {
	return saleResponse{
		ID:           s.ID,
		ItemID:       s.ItemID,
		PartNumber:   s.PartNumber,
		ItemName:     s.ItemName,
		CustomerID:   s.CustomerID,
		CustomerName: s.CustomerName,
		Quantity:     s.Quantity,
		UnitPrice:    s.UnitPrice,
		TotalAmount:  s.TotalAmount,
		SaleDate:     web.Date{Time: s.SaleDate},
		Notes:        s.Notes,
		CreatedAt:    s.CreatedAt,
	}
}

func toPurchaseResponse(p *ledger.Purchase) purchaseResponse {
	return purchaseResponse{
		ID:            p.ID,
		ItemID:        p.ItemID,
		PartNumber:    p.PartNumber,
		ItemName:      p.ItemName,
		SupplierID:    p.SupplierID,
		SupplierName:  p.SupplierName,
		Quantity:      p.Quantity,
		UnitPrice:     p.UnitPrice,
		TotalAmount:   p.TotalAmount,
		PurchaseDate:  web.Date{Time: p.PurchaseDate},
		InvoiceNumber: p.InvoiceNumber,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}
