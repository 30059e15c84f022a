package item

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/inventory"
)

type itemRequest struct {
	PartNumber    string          `json:"part_number"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int             `json:"stock_quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	Location      string          `json:"location"`
	SupplierID    *int64          `json:"supplier_id,omitempty"`
}

func (req itemRequest) toParams() inventory.CreateParams {
	return inventory.CreateParams{
		PartNumber:    req.PartNumber,
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		UnitPrice:     req.UnitPrice,
		StockQuantity: req.StockQuantity,
		MinStockLevel: req.MinStockLevel,
		Location:      req.Location,
		SupplierID:    req.SupplierID,
	}
}

type itemResponse struct {
	ID            int64           `json:"id"`
	PartNumber    string          `json:"part_number"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int             `json:"stock_quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	LowStock      bool            `json:"low_stock"`
	Location      string          `json:"location,omitempty"`
	SupplierID    *int64          `json:"supplier_id,omitempty"`
	SupplierName  string          `json:"supplier_name,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toResponse(item *inventory.Item) itemResponse {
	return itemResponse{
		ID:            item.ID,
		PartNumber:    item.PartNumber,
		Name:          item.Name,
		Description:   item.Description,
		Category:      item.Category,
		UnitPrice:     item.UnitPrice,
		StockQuantity: item.StockQuantity,
		MinStockLevel: item.MinStockLevel,
		LowStock:      item.IsLowStock(),
		Location:      item.Location,
		SupplierID:    item.SupplierID,
		SupplierName:  item.SupplierName,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func toResponseList(items []*inventory.Item) []itemResponse {
	resp := make([]itemResponse, len(items))
	for i, item := range items {
		resp[i] = toResponse(item)
	}

	return resp
}
