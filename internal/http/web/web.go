package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/garage/internal/auth"
	"github.com/MrJamesThe3rd/garage/internal/customer"
	"github.com/MrJamesThe3rd/garage/internal/debt"
	"github.com/MrJamesThe3rd/garage/internal/export"
	"github.com/MrJamesThe3rd/garage/internal/inventory"
	"github.com/MrJamesThe3rd/garage/internal/ledger"
	"github.com/MrJamesThe3rd/garage/internal/validate"
)

// statusFor lists domain errors that are safe to show the client as is.
var statusFor = []struct {
	err    error
	status int
}{
	{auth.ErrInvalidCredentials, http.StatusUnauthorized},
	{auth.ErrInvalidToken, http.StatusUnauthorized},
	{inventory.ErrNotFound, http.StatusNotFound},
	{inventory.ErrSupplierNotFound, http.StatusNotFound},
	{ledger.ErrItemNotFound, http.StatusNotFound},
	{ledger.ErrCustomerNotFound, http.StatusNotFound},
	{ledger.ErrSupplierNotFound, http.StatusNotFound},
	{customer.ErrNotFound, http.StatusNotFound},
	{debt.ErrNotFound, http.StatusNotFound},
	{debt.ErrCustomerNotFound, http.StatusNotFound},
	{ledger.ErrInsufficientStock, http.StatusConflict},
	{debt.ErrOverpayment, http.StatusConflict},
	{inventory.ErrDuplicatePartNumber, http.StatusConflict},
	{inventory.ErrInUse, http.StatusConflict},
	{customer.ErrInUse, http.StatusConflict},
	{debt.ErrHasPayments, http.StatusConflict},
	{export.ErrUnknownReport, http.StatusBadRequest},
}

// Error writes the response for err. Anything that is not a known domain
// error is logged and reported as a generic failure.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var stockErr *ledger.InsufficientStockError
	if errors.As(err, &stockErr) {
		http.Error(w, stockErr.Error(), http.StatusConflict)
		return
	}

	// Validation messages carry row and field context from our own wrapping.
	if errors.Is(err, validate.ErrInvalid) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for _, m := range statusFor {
		if errors.Is(err, m.err) {
			http.Error(w, m.err.Error(), m.status)
			return
		}
	}

	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Decode reads a JSON request body into v, writing a 400 on failure.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}

	return true
}

// PathID parses a positive integer URL parameter, writing a 400 on failure.
func PathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}

	return id, true
}

// QueryDate parses an optional YYYY-MM-DD query parameter.
func QueryDate(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("%s must be YYYY-MM-DD", name)
	}

	return &t, nil
}

// Date is a YYYY-MM-DD value in JSON bodies.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}

	d.Time = t

	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(d.Format(time.DateOnly))
}

// DatePtr converts an optional body date to the domain representation.
func DatePtr(d *Date) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}

	return &d.Time
}

// DateValue returns the zero time for an absent date.
func DateValue(d *Date) time.Time {
	if d == nil {
		return time.Time{}
	}

	return d.Time
}
