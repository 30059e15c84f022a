package ledger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	httpledger "github.com/MrJamesThe3rd/garage/internal/http/ledger"
	"github.com/MrJamesThe3rd/garage/internal/ledger"
)

var fixedNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func newRouter(t *testing.T) (http.Handler, *ledger.MockRepository, *ledger.MockTx) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	tx := ledger.NewMockTx(ctrl)

	svc := ledger.NewService(repo).WithClock(func() time.Time { return fixedNow })
	h := httpledger.NewHandler(svc)

	r := chi.NewRouter()
	r.Route("/sales", h.SaleRoutes)
	r.Route("/purchases", h.PurchaseRoutes)

	return r, repo, tx
}

func TestHandler_RecordSale(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		setupMock  func(repo *ledger.MockRepository, tx *ledger.MockTx)
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name: "Created",
			body: `{"item_id":1,"quantity":3,"unit_price":"45.00"}`,
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockStock(gomock.Any(), int64(1)).Return(10, nil)
				tx.EXPECT().
					InsertSale(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, s *ledger.Sale) error {
						s.ID = 7
						return nil
					})
				tx.EXPECT().AdjustStock(gomock.Any(), int64(1), -3).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"total_amount":"135"`,
		},
		{
			name: "InsufficientStock",
			body: `{"item_id":1,"quantity":11,"unit_price":"45.00"}`,
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockStock(gomock.Any(), int64(1)).Return(10, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusConflict,
			wantBody:   "available 10, requested 11",
		},
		{
			name: "UnknownItem",
			body: `{"item_id":99,"quantity":1,"unit_price":"1"}`,
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockStock(gomock.Any(), int64(99)).Return(0, ledger.ErrItemNotFound)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "ZeroQuantity",
			body:       `{"item_id":1,"quantity":0,"unit_price":"1"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "SubCentPrice",
			body:       `{"item_id":1,"quantity":1,"unit_price":"45.005"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "BadDate",
			body:       `{"item_id":1,"quantity":1,"unit_price":"1","sale_date":"10/03/2026"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo, tx := newRouter(t)
			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sales/", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHandler_RecordPurchase(t *testing.T) {
	router, repo, tx := newRouter(t)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().
		InsertPurchase(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *ledger.Purchase) error {
			assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), p.PurchaseDate)
			p.ID = 2
			return nil
		})
	tx.EXPECT().AdjustStock(gomock.Any(), int64(1), 10).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	rec := httptest.NewRecorder()
	body := `{"item_id":1,"quantity":10,"unit_price":"30.00","purchase_date":"2026-03-01","invoice_number":"FT 2026/14"}`
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/purchases/", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"purchase_date":"2026-03-01"`)
	assert.Contains(t, rec.Body.String(), `"total_amount":"300"`)
}

func TestHandler_ListSales(t *testing.T) {
	t.Run("DateRange", func(t *testing.T) {
		router, repo, _ := newRouter(t)

		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
		repo.EXPECT().
			ListSales(gomock.Any(), ledger.ListFilter{StartDate: &start, EndDate: &end}).
			Return([]*ledger.Sale{{ID: 1, SaleDate: start}}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/?start_date=2026-03-01&end_date=2026-03-31", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"sale_date":"2026-03-01"`)
	})

	t.Run("BadDate", func(t *testing.T) {
		router, _, _ := newRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/?start_date=yesterday", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
