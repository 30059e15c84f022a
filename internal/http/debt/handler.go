package debt

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/auth"
	"github.com/MrJamesThe3rd/garage/internal/debt"
	"github.com/MrJamesThe3rd/garage/internal/http/web"
)

type Handler struct {
	svc *debt.Service
}

func NewHandler(svc *debt.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/mark-overdue", h.markOverdue)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/payments", h.payments)
	r.Post("/{id}/payments", h.recordPayment)
}

type createRequest struct {
	CustomerID      int64           `json:"customer_id"`
	SaleID          *int64          `json:"sale_id,omitempty"`
	Type            debt.Type       `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Date            *web.Date       `json:"transaction_date,omitempty"`
	DueDate         *web.Date       `json:"due_date,omitempty"`
	PaymentMethod   string          `json:"payment_method"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
}

type paymentRequest struct {
	Amount          decimal.Decimal `json:"payment_amount"`
	Date            *web.Date       `json:"payment_date,omitempty"`
	PaymentMethod   string          `json:"payment_method"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !web.Decode(w, r, &req) {
		return
	}

	switch req.Type {
	case "", debt.TypeCreditSale, debt.TypePayment, debt.TypeAdjustment:
	default:
		http.Error(w, "invalid transaction_type", http.StatusBadRequest)
		return
	}

	d, err := h.svc.AddDebtTransaction(r.Context(), debt.CreateParams{
		CustomerID:      req.CustomerID,
		SaleID:          req.SaleID,
		Type:            req.Type,
		Amount:          req.Amount,
		Date:            web.DateValue(req.Date),
		DueDate:         web.DatePtr(req.DueDate),
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	})
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusCreated, toResponse(d))
}

// list serves ?filter=all|pending|overdue and ?customer_id=.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		debts []*debt.Transaction
		err   error
	)

	q := r.URL.Query()

	switch {
	case q.Get("customer_id") != "":
		id, perr := strconv.ParseInt(q.Get("customer_id"), 10, 64)
		if perr != nil {
			http.Error(w, "invalid customer_id", http.StatusBadRequest)
			return
		}

		debts, err = h.svc.ListByCustomer(r.Context(), id)
	case q.Get("filter") == "" || q.Get("filter") == "all":
		debts, err = h.svc.List(r.Context())
	case q.Get("filter") == "pending":
		debts, err = h.svc.Pending(r.Context())
	case q.Get("filter") == "overdue":
		debts, err = h.svc.Overdue(r.Context())
	default:
		http.Error(w, "filter must be all, pending or overdue", http.StatusBadRequest)
		return
	}

	if err != nil {
		web.Error(w, r, err)
		return
	}

	resp := make([]debtResponse, len(debts))
	for i, d := range debts {
		resp[i] = toResponse(d)
	}

	web.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(w, r, "id")
	if !ok {
		return
	}

	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(d))
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

func (h *Handler) payments(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(w, r, "id")
	if !ok {
		return
	}

	payments, err := h.svc.PaymentHistory(r.Context(), id)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toPaymentResponse(p)
	}

	web.JSON(w, http.StatusOK, resp)
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(w, r, "id")
	if !ok {
		return
	}

	var req paymentRequest
	if !web.Decode(w, r, &req) {
		return
	}

	receipt, err := h.svc.RecordPayment(r.Context(), debt.PaymentParams{
		DebtID:          id,
		Amount:          req.Amount,
		Date:            web.DateValue(req.Date),
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		CreatedBy:       auth.Username(r.Context()),
	})
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusCreated, receiptResponse{
		Payment:          toPaymentResponse(receipt.Payment),
		RemainingBalance: receipt.RemainingBalance,
		Status:           receipt.Status,
	})
}

func (h *Handler) markOverdue(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.MarkOverdue(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusOK, map[string]int64{"marked": n})
}
