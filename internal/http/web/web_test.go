package web_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/garage/internal/debt"
	"github.com/MrJamesThe3rd/garage/internal/http/web"
	"github.com/MrJamesThe3rd/garage/internal/inventory"
	"github.com/MrJamesThe3rd/garage/internal/ledger"
	"github.com/MrJamesThe3rd/garage/internal/validate"
)

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "NotFound",
			err:        fmt.Errorf("get item: %w", inventory.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   "item not found\n",
		},
		{
			name:       "InsufficientStock",
			err:        fmt.Errorf("record sale: %w", &ledger.InsufficientStockError{ItemID: 1, Available: 2, Requested: 5}),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "Overpayment",
			err:        fmt.Errorf("record payment: %w", debt.ErrOverpayment),
			wantStatus: http.StatusConflict,
			wantBody:   "payment exceeds remaining balance\n",
		},
		{
			name:       "Validation",
			err:        &validate.Error{Fields: []validate.FieldError{{Field: "Quantity", Tag: "gt", Param: "0"}}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "StorageFailureDoesNotLeak",
			err:        fmt.Errorf("insert sale: %w", errors.New("pq: connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal error\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			web.Error(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestError_InsufficientStockDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sales", nil)

	web.Error(rec, req, &ledger.InsufficientStockError{ItemID: 3, Available: 1, Requested: 4})

	assert.Contains(t, rec.Body.String(), "insufficient stock")
}
