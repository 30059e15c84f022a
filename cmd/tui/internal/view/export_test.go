package view

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/garage/internal/export"
	"github.com/MrJamesThe3rd/garage/internal/inventory"
	"github.com/MrJamesThe3rd/garage/internal/ledger"
)

type stubStock struct{}

func (stubStock) List(context.Context, inventory.ListFilter) ([]*inventory.Item, error) {
	return []*inventory.Item{{PartNumber: "BP-1", Name: "Brake pad", UnitPrice: decimal.NewFromInt(20), StockQuantity: 2}}, nil
}

type recordingLedger struct {
	salesFilter     *ledger.ListFilter
	purchasesCalled bool
}

func (l *recordingLedger) ListSales(_ context.Context, filter ledger.ListFilter) ([]*ledger.Sale, error) {
	l.salesFilter = &filter
	return []*ledger.Sale{{ID: 1, SaleDate: day("2026-10-02"), Quantity: 1, TotalAmount: decimal.NewFromInt(30)}}, nil
}

func (l *recordingLedger) ListPurchases(context.Context, ledger.ListFilter) ([]*ledger.Purchase, error) {
	l.purchasesCalled = true
	return nil, nil
}

func TestTimeframeSelectedMsg_Filter(t *testing.T) {
	t.Run("Range", func(t *testing.T) {
		f := TimeframeSelectedMsg{Start: day("2026-10-01"), End: day("2026-10-15")}.Filter()

		require.NotNil(t, f.StartDate)
		require.NotNil(t, f.EndDate)
		assert.Equal(t, day("2026-10-01"), *f.StartDate)
		assert.Equal(t, day("2026-10-15"), *f.EndDate)
		assert.Equal(t, "2026-10-01 to 2026-10-15", rangeLabel(f))
	})

	t.Run("AllTime", func(t *testing.T) {
		f := TimeframeSelectedMsg{All: true}.Filter()

		assert.Nil(t, f.StartDate)
		assert.Nil(t, f.EndDate)
		assert.Equal(t, "All Time", rangeLabel(f))
	})
}

func TestExportSelection(t *testing.T) {
	tests := []struct {
		name        string
		names       []string
		dir         string
		wantReports []export.Report
		wantDir     string
		wantErr     bool
	}{
		{name: "SalesOnly", names: []string{"sales"}, dir: " /tmp/out ", wantReports: []export.Report{export.ReportSales}, wantDir: "/tmp/out"},
		{name: "DefaultDir", names: []string{"stock", "purchases"}, wantReports: []export.Report{export.ReportStock, export.ReportPurchases}, wantDir: defaultExportDir},
		{name: "NothingSelected", names: nil, wantErr: true},
		{name: "Unknown", names: []string{"invoices"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports, dir, err := exportSelection(tt.names, tt.dir)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantReports, reports)
			assert.Equal(t, tt.wantDir, dir)
		})
	}
}

func TestExportRows(t *testing.T) {
	rows := exportRows([]export.File{
		{Name: "stock.csv", Path: "out/stock.csv", Rows: 12, Total: decimal.RequireFromString("410.5")},
		{Name: "sales.csv", Path: "out/sales.csv", Rows: 0, Total: decimal.Zero},
	})

	assert.Equal(t, []table.Row{
		{"Stock position", "12", "410.50 €", "out/stock.csv"},
		{"Sales", "0", "0.00 €", "out/sales.csv"},
	}, rows)
}

func TestExportModel_PeriodOpensOptions(t *testing.T) {
	m := NewExportModel(nil)

	updated, _ := m.Update(TimeframeSelectedMsg{Start: day("2026-10-01"), End: day("2026-10-15")})
	em := updated.(ExportModel)

	assert.Equal(t, exportStepOptions, em.step)
	assert.NotNil(t, em.form)
	require.NotNil(t, em.filter.StartDate)
	assert.Equal(t, day("2026-10-01"), *em.filter.StartDate)

	updated, _ = em.Update(tea.KeyMsg{Type: tea.KeyEsc})
	em = updated.(ExportModel)

	assert.Equal(t, exportStepPeriod, em.step)
	assert.True(t, em.picker.IsSelecting())
}

func TestExportModel_ExportCmdUsesSelection(t *testing.T) {
	led := &recordingLedger{}
	dir := filepath.Join(t.TempDir(), "reports")

	m := NewExportModel(export.NewService(stubStock{}, led))
	m.filter = TimeframeSelectedMsg{Start: day("2026-10-01"), End: day("2026-10-15")}.Filter()
	m.reports = []export.Report{export.ReportSales}
	m.dir = dir
	m.step = exportStepRunning

	msg := m.exportCmd()()
	done, ok := msg.(exportDoneMsg)
	require.True(t, ok, "got %T", msg)
	require.NoError(t, done.err)

	require.NotNil(t, led.salesFilter)
	require.NotNil(t, led.salesFilter.StartDate)
	assert.Equal(t, day("2026-10-01"), *led.salesFilter.StartDate)
	assert.Equal(t, day("2026-10-15"), *led.salesFilter.EndDate)
	assert.False(t, led.purchasesCalled)

	_, err := os.Stat(filepath.Join(dir, "sales.csv"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "stock.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	updated, _ := m.Update(done)
	em := updated.(ExportModel)

	assert.Equal(t, exportStepDone, em.step)
	require.Len(t, em.results.Rows(), 1)
	assert.Equal(t, "Sales", em.results.Rows()[0][0])
	assert.Contains(t, em.View(), "Export complete")

	updated, _ = em.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	em = updated.(ExportModel)

	assert.Equal(t, exportStepPeriod, em.step)
	assert.Empty(t, em.results.Rows())
}

func TestExportModel_FailedExport(t *testing.T) {
	m := NewExportModel(nil)
	m.step = exportStepRunning

	updated, _ := m.Update(exportDoneMsg{err: assert.AnError})
	em := updated.(ExportModel)

	assert.Equal(t, exportStepDone, em.step)
	assert.Contains(t, em.View(), "Export failed")
}
