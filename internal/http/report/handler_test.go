package report_test

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/garage/internal/export"
	httpreport "github.com/MrJamesThe3rd/garage/internal/http/report"
	"github.com/MrJamesThe3rd/garage/internal/inventory"
	"github.com/MrJamesThe3rd/garage/internal/ledger"
	"github.com/MrJamesThe3rd/garage/internal/report"
)

type fakeItems struct{ items []*inventory.Item }

func (f fakeItems) Count(context.Context) (int, error) { return len(f.items), nil }

func (f fakeItems) LowStock(context.Context) ([]*inventory.Item, error) {
	var low []*inventory.Item
	for _, it := range f.items {
		if it.IsLowStock() {
			low = append(low, it)
		}
	}

	return low, nil
}

func (f fakeItems) List(context.Context, inventory.ListFilter) ([]*inventory.Item, error) {
	return f.items, nil
}

type fakeLedger struct {
	sales     []*ledger.Sale
	gotFilter ledger.ListFilter
}

func (f *fakeLedger) TodaySalesTotal(context.Context) (decimal.Decimal, error) {
	return decimal.RequireFromString("135"), nil
}

func (f *fakeLedger) TodayPurchasesTotal(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *fakeLedger) ListSales(_ context.Context, filter ledger.ListFilter) ([]*ledger.Sale, error) {
	f.gotFilter = filter
	return f.sales, nil
}

func (f *fakeLedger) ListPurchases(context.Context, ledger.ListFilter) ([]*ledger.Purchase, error) {
	return nil, nil
}

type fakeDebts struct{}

func (fakeDebts) TotalOutstanding(context.Context) (decimal.Decimal, error) {
	return decimal.RequireFromString("60"), nil
}

func (fakeDebts) CountOverdue(context.Context) (int, error) { return 1, nil }

type fakeCustomers struct{}

func (fakeCustomers) Count(context.Context) (int, error) { return 4, nil }

func newRouter(lg *fakeLedger) http.Handler {
	items := fakeItems{items: []*inventory.Item{
		{ID: 1, PartNumber: "BP-1", Name: "Brake pad", UnitPrice: decimal.NewFromInt(45), StockQuantity: 7, MinStockLevel: 2},
		{ID: 2, PartNumber: "OF-2", Name: "Oil filter", UnitPrice: decimal.NewFromInt(4), StockQuantity: 1, MinStockLevel: 3},
	}}

	h := httpreport.NewHandler(
		report.NewService(items, lg, fakeDebts{}, fakeCustomers{}),
		export.NewService(items, lg),
	)

	r := chi.NewRouter()
	r.Route("/reports", h.Routes)

	return r
}

func TestHandler_Dashboard(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeLedger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"total_items": 2,
		"low_stock_items": [{"id":2,"part_number":"OF-2","name":"Oil filter","stock_quantity":1,"min_stock_level":3}],
		"today_sales": "135",
		"today_purchases": "0",
		"outstanding_debt": "60",
		"overdue_debts": 1,
		"total_customers": 4
	}`, rec.Body.String())
}

func TestHandler_ExportZip(t *testing.T) {
	lg := &fakeLedger{sales: []*ledger.Sale{{
		ID:          1,
		ItemID:      1,
		PartNumber:  "BP-1",
		ItemName:    "Brake pad",
		Quantity:    3,
		UnitPrice:   decimal.NewFromInt(45),
		TotalAmount: decimal.NewFromInt(135),
		SaleDate:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}}}

	rec := httptest.NewRecorder()
	body := `{"start_date":"2026-03-01","end_date":"2026-03-31"}`
	newRouter(lg).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports/export", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))

	require.NotNil(t, lg.gotFilter.StartDate)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *lg.gotFilter.StartDate)

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.ElementsMatch(t, []string{"stock.csv", "sales.csv", "purchases.csv", "summary.txt"}, names)
}

func TestHandler_ExportSummary(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeLedger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports/export/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"stock.csv"`)
	assert.Contains(t, rec.Body.String(), `"summary":"* stock.csv`)
}

func TestHandler_ExportSelectedReports(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"reports":["sales"]}`
	newRouter(&fakeLedger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports/export/summary", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"sales.csv"`)
	assert.NotContains(t, rec.Body.String(), `stock.csv`)
}

func TestHandler_ExportUnknownReport(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"reports":["invoices"]}`
	newRouter(&fakeLedger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports/export", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ExportBadDate(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"start_date":"March"}`
	newRouter(&fakeLedger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports/export", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
