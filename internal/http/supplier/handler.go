package supplier

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/http/web"
	"github.com/MrJamesThe3rd/garage/internal/inventory"
)

type Handler struct {
	svc *inventory.Service
}

func NewHandler(svc *inventory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/items", h.items)
	r.Post("/{id}/items/{itemID}", h.linkItem)
}

type supplierRequest struct {
	Name          string `json:"name"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

func (req supplierRequest) toParams() inventory.SupplierParams {
	return inventory.SupplierParams{
		Name:          req.Name,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		Address:       req.Address,
	}
}

type supplierResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	ContactNumber string    `json:"contact_number,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type itemResponse struct {
	ID            int64           `json:"id"`
	PartNumber    string          `json:"part_number"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int             `json:"stock_quantity"`
}

func toResponse(s *inventory.Supplier) supplierResponse {
	return supplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		ContactNumber: s.ContactNumber,
		Email:         s.Email,
		Address:       s.Address,
		CreatedAt:     s.CreatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if !web.Decode(w, r, &req) {
		return
	}

	sup, err := h.svc.CreateSupplier(r.Context(), req.toParams())
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusCreated, toResponse(sup))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	sups, err := h.svc.ListSuppliers(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}

	resp := make([]supplierResponse, len(sups))
	for i, s := range sups {
		resp[i] = toResponse(s)
	}

	web.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(w, r, "id")
	if !ok {
		return
	}

	sup, err := h.svc.GetSupplier(r.Context(), id)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(sup))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(w, r, "id")
	if !ok {
		return
	}

	var req supplierRequest
	if !web.Decode(w, r, &req) {
		return
	}

	sup, err := h.svc.UpdateSupplier(r.Context(), id, req.toParams())
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(sup))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteSupplier(r.Context(), id); err != nil {
		web.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) items(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(w, r, "id")
	if !ok {
		return
	}

	items, err := h.svc.ItemsBySupplier(r.Context(), id)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	resp := make([]itemResponse, len(items))
	for i, it := range items {
		resp[i] = itemResponse{
			ID:            it.ID,
			PartNumber:    it.PartNumber,
			Name:          it.Name,
			UnitPrice:     it.UnitPrice,
			StockQuantity: it.StockQuantity,
		}
	}

	web.JSON(w, http.StatusOK, resp)
}

func (h *Handler) linkItem(w http.ResponseWriter, r *http.Request) {
	supplierID, ok := web.PathID(w, r, "id")
	if !ok {
		return
	}

	itemID, ok := web.PathID(w, r, "itemID")
	if !ok {
		return
	}

	if err := h.svc.LinkItem(r.Context(), supplierID, itemID); err != nil {
		web.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
