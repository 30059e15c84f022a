package item_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/garage/internal/http/item"
	"github.com/MrJamesThe3rd/garage/internal/inventory"
)

func newRouter(t *testing.T) (http.Handler, *inventory.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := inventory.NewMockRepository(ctrl)

	r := chi.NewRouter()
	r.Route("/items", item.NewHandler(inventory.NewService(repo)).Routes)

	return r, repo
}

func TestHandler_Create(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		setupMock  func(m *inventory.MockRepository)
		wantStatus int
	}

	tests := []testCase{
		{
			name: "Created",
			body: `{"part_number":"BP-1","name":"Brake pad","unit_price":"24.90","stock_quantity":3,"min_stock_level":5}`,
			setupMock: func(m *inventory.MockRepository) {
				m.EXPECT().
					CreateItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, it *inventory.Item) error {
						it.ID = 9
						return nil
					})
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "DuplicatePartNumber",
			body: `{"part_number":"BP-1","name":"Brake pad","unit_price":"1"}`,
			setupMock: func(m *inventory.MockRepository) {
				m.EXPECT().CreateItem(gomock.Any(), gomock.Any()).Return(inventory.ErrDuplicatePartNumber)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "ValidationFailure",
			body:       `{"name":"No part number","unit_price":"1"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MalformedBody",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "StorageFailure",
			body: `{"part_number":"BP-1","name":"Brake pad","unit_price":"1"}`,
			setupMock: func(m *inventory.MockRepository) {
				m.EXPECT().CreateItem(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := newRouter(t)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/items/", strings.NewReader(tt.body))
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_CreateResponse(t *testing.T) {
	router, repo := newRouter(t)
	repo.EXPECT().
		CreateItem(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, it *inventory.Item) error {
			it.ID = 9
			return nil
		})

	rec := httptest.NewRecorder()
	body := `{"part_number":"BP-1","name":"Brake pad","unit_price":"24.90","stock_quantity":3,"min_stock_level":5}`
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/items/", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.EqualValues(t, 9, got["id"])
	assert.Equal(t, "24.9", got["unit_price"])
	assert.Equal(t, true, got["low_stock"])
}

func TestHandler_Get(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		router, repo := newRouter(t)
		repo.EXPECT().GetItem(gomock.Any(), int64(4)).Return(&inventory.Item{
			ID:         4,
			PartNumber: "OF-2",
			Name:       "Oil filter",
			UnitPrice:  decimal.RequireFromString("4.50"),
		}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/4", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"part_number":"OF-2"`)
	})

	t.Run("NotFound", func(t *testing.T) {
		router, repo := newRouter(t)
		repo.EXPECT().GetItem(gomock.Any(), int64(4)).Return(nil, inventory.ErrNotFound)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/4", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/abc", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_LowStock(t *testing.T) {
	router, repo := newRouter(t)
	repo.EXPECT().
		ListItems(gomock.Any(), inventory.ListFilter{LowStockOnly: true}).
		Return([]*inventory.Item{{ID: 1, StockQuantity: 0, MinStockLevel: 2}}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/low-stock", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"low_stock":true`)
}

func TestHandler_DeleteInUse(t *testing.T) {
	router, repo := newRouter(t)
	repo.EXPECT().DeleteItem(gomock.Any(), int64(2)).Return(inventory.ErrInUse)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/items/2", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}
