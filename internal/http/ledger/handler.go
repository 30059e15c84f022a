package ledger

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/http/web"
	"github.com/MrJamesThe3rd/garage/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) SaleRoutes(r chi.Router) {
	r.Post("/", h.recordSale)
	r.Get("/", h.listSales)
}

func (h *Handler) PurchaseRoutes(r chi.Router) {
	r.Post("/", h.recordPurchase)
	r.Get("/", h.listPurchases)
}

type saleRequest struct {
	ItemID     int64           `json:"item_id"`
	CustomerID *int64          `json:"customer_id,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Date       *web.Date       `json:"sale_date,omitempty"`
	Notes      string          `json:"notes"`
}

type purchaseRequest struct {
	ItemID        int64           `json:"item_id"`
	SupplierID    *int64          `json:"supplier_id,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Date          *web.Date       `json:"purchase_date,omitempty"`
	InvoiceNumber string          `json:"invoice_number"`
	Notes         string          `json:"notes"`
}

func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if !web.Decode(w, r, &req) {
		return
	}

	sale, err := h.svc.RecordSale(r.Context(), ledger.CreateSaleParams{
		ItemID:     req.ItemID,
		CustomerID: req.CustomerID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		Date:       web.DateValue(req.Date),
		Notes:      req.Notes,
	})
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusCreated, toSaleResponse(sale))
}

func (h *Handler) recordPurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if !web.Decode(w, r, &req) {
		return
	}

	purchase, err := h.svc.RecordPurchase(r.Context(), ledger.CreatePurchaseParams{
		ItemID:        req.ItemID,
		SupplierID:    req.SupplierID,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		Date:          web.DateValue(req.Date),
		InvoiceNumber: req.InvoiceNumber,
		Notes:         req.Notes,
	})
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusCreated, toPurchaseResponse(purchase))
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	sales, err := h.svc.ListSales(r.Context(), filter)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	resp := make([]saleResponse, len(sales))
	for i, s := range sales {
		resp[i] = toSaleResponse(s)
	}

	web.JSON(w, http.StatusOK, resp)
}

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	purchases, err := h.svc.ListPurchases(r.Context(), filter)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	resp := make([]purchaseResponse, len(purchases))
	for i, p := range purchases {
		resp[i] = toPurchaseResponse(p)
	}

	web.JSON(w, http.StatusOK, resp)
}

func parseFilter(w http.ResponseWriter, r *http.Request) (ledger.ListFilter, bool) {
	var (
		filter ledger.ListFilter
		err    error
	)

	if filter.StartDate, err = web.QueryDate(r, "start_date"); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return filter, false
	}

	if filter.EndDate, err = web.QueryDate(r, "end_date"); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return filter, false
	}

	for name, dst := range map[string]**int64{
		"customer_id": &filter.CustomerID,
		"supplier_id": &filter.SupplierID,
		"item_id":     &filter.ItemID,
	} {
		s := r.URL.Query().Get(name)
		if s == "" {
			continue
		}

		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			http.Error(w, "invalid "+name, http.StatusBadRequest)
			return filter, false
		}

		*dst = new(id)
	}

	return filter, true
}
