package customer

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/customer"
	"github.com/MrJamesThe3rd/garage/internal/debt"
	"github.com/MrJamesThe3rd/garage/internal/http/web"
)

type Handler struct {
	svc   *customer.Service
	debts *debt.Service
}

func NewHandler(svc *customer.Service, debts *debt.Service) *Handler {
	return &Handler{svc: svc, debts: debts}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/debt-summary", h.debtSummary)
}

type customerRequest struct {
	Name          string `json:"name"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	VehicleInfo   string `json:"vehicle_info"`
}

func (req customerRequest) toParams() customer.Params {
	return customer.Params{
		Name:          req.Name,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		Address:       req.Address,
		VehicleInfo:   req.VehicleInfo,
	}
}

type customerResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	ContactNumber string    `json:"contact_number,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	VehicleInfo   string    `json:"vehicle_info,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type summaryResponse struct {
	CustomerID       int64           `json:"customer_id"`
	TotalCredit      decimal.Decimal `json:"total_credit"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	RecordedPayments decimal.Decimal `json:"recorded_payments"`
	Outstanding      decimal.Decimal `json:"outstanding"`
	OverdueCount     int             `json:"overdue_count"`
}

func toResponse(c *customer.Customer) customerResponse {
	return customerResponse{
		ID:            c.ID,
		Name:          c.Name,
		ContactNumber: c.ContactNumber,
		Email:         c.Email,
		Address:       c.Address,
		VehicleInfo:   c.VehicleInfo,
		CreatedAt:     c.CreatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !web.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.Create(r.Context(), req.toParams())
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		customers []*customer.Customer
		err       error
	)

	if q := r.URL.Query().Get("q"); q != "" {
		customers, err = h.svc.Search(r.Context(), q)
	} else {
		customers, err = h.svc.List(r.Context())
	}

	if err != nil {
		web.Error(w, r, err)
		return
	}

	resp := make([]customerResponse, len(customers))
	for i, c := range customers {
		resp[i] = toResponse(c)
	}

	web.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(w, r, "id")
	if !ok {
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(w, r, "id")
	if !ok {
		return
	}

	var req customerRequest
	if !web.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.Update(r.Context(), id, req.toParams())
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		web.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) debtSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.svc.Get(r.Context(), id); err != nil {
		web.Error(w, r, err)
		return
	}

	sum, err := h.debts.CustomerSummary(r.Context(), id)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusOK, summaryResponse{
		CustomerID:       sum.CustomerID,
		TotalCredit:      sum.TotalCredit,
		TotalPaid:        sum.TotalPaid,
		RecordedPayments: sum.RecordedPayments,
		Outstanding:      sum.Outstanding,
		OverdueCount:     sum.OverdueCount,
	})
}
