package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/inventory"
	"github.com/MrJamesThe3rd/garage/internal/ledger"
)

type Items interface {
	List(ctx context.Context, filter inventory.ListFilter) ([]*inventory.Item, error)
}

type Ledger interface {
	ListSales(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Sale, error)
	ListPurchases(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Purchase, error)
}

// File is one report written to disk.
type File struct {
	Name  string
	Path  string
	Rows  int
	Total decimal.Decimal
}

// Service renders stock and ledger reports as CSV files.
type Service struct {
	items  Items
	ledger Ledger
}

func NewService(items Items, ledger Ledger) *Service {
	return &Service{items: items, ledger: ledger}
}

// Report names one CSV report.
type Report string

const (
	ReportStock     Report = "stock"
	ReportSales     Report = "sales"
	ReportPurchases Report = "purchases"
)

// AllReports is every report, in the order Export writes them.
var AllReports = []Report{ReportStock, ReportSales, ReportPurchases}

var ErrUnknownReport = errors.New("unknown report")

// ParseReports maps report names to Reports. An empty list selects all of them.
func ParseReports(names []string) ([]Report, error) {
	if len(names) == 0 {
		return AllReports, nil
	}

	reports := make([]Report, 0, len(names))

	for _, name := range names {
		r := Report(strings.ToLower(strings.TrimSpace(name)))
		if !slices.Contains(AllReports, r) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownReport, name)
		}

		if !slices.Contains(reports, r) {
			reports = append(reports, r)
		}
	}

	return reports, nil
}

// Export writes the stock, sales and purchase reports for the filter's date
// range into outputDir.
func (s *Service) Export(ctx context.Context, filter ledger.ListFilter, outputDir string) ([]File, error) {
	return s.ExportReports(ctx, filter, outputDir, AllReports...)
}

// ExportReports writes the chosen reports into outputDir in the order given.
// Stock is always the current position; the filter only narrows sales and purchases.
func (s *Service) ExportReports(ctx context.Context, filter ledger.ListFilter, outputDir string, reports ...Report) ([]File, error) {
	if len(reports) == 0 {
		return nil, fmt.Errorf("%w: none selected", ErrUnknownReport)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	files := make([]File, 0, len(reports))

	for _, r := range reports {
		f, err := s.write(ctx, r, filter, outputDir)
		if err != nil {
			return nil, err
		}

		files = append(files, f)
	}

	return files, nil
}

func (s *Service) write(ctx context.Context, r Report, filter ledger.ListFilter, dir string) (File, error) {
	path := filepath.Join(dir, string(r)+".csv")

	switch r {
	case ReportStock:
		items, err := s.items.List(ctx, inventory.ListFilter{})
		if err != nil {
			return File{}, fmt.Errorf("listing items: %w", err)
		}

		f, err := writeReport(path, stockRows(items))
		f.Total = stockValue(items)

		return f, err
	case ReportSales:
		sales, err := s.ledger.ListSales(ctx, filter)
		if err != nil {
			return File{}, fmt.Errorf("listing sales: %w", err)
		}

		f, err := writeReport(path, saleRows(sales))
		f.Total = sumSales(sales)

		return f, err
	case ReportPurchases:
		purchases, err := s.ledger.ListPurchases(ctx, filter)
		if err != nil {
			return File{}, fmt.Errorf("listing purchases: %w", err)
		}

		f, err := writeReport(path, purchaseRows(purchases))
		f.Total = sumPurchases(purchases)

		return f, err
	}

	return File{}, fmt.Errorf("%w: %q", ErrUnknownReport, r)
}

// GenerateSummary renders a short plain-text overview of exported files.
func (s *Service) GenerateSummary(files []File) string {
	var sb strings.Builder

	for _, f := range files {
		sb.WriteString(fmt.Sprintf("* %s | %d rows | %s €\n", f.Name, f.Rows, f.Total.StringFixed(2)))
	}

	return sb.String()
}

func writeReport(path string, rows [][]string) (File, error) {
	f, err := os.Create(path)
	if err != nil {
		return File{}, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return File{}, fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}

	return File{Name: filepath.Base(path), Path: path, Rows: len(rows) - 1}, nil
}

func stockRows(items []*inventory.Item) [][]string {
	rows := [][]string{{
		"part_number", "name", "category", "location", "unit_price",
		"stock_quantity", "min_stock_level", "stock_value", "low_stock",
	}}

	for _, it := range items {
		value := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.StockQuantity)))

		rows = append(rows, []string{
			it.PartNumber,
			it.Name,
			it.Category,
			it.Location,
			it.UnitPrice.StringFixed(2),
			strconv.Itoa(it.StockQuantity),
			strconv.Itoa(it.MinStockLevel),
			value.StringFixed(2),
			strconv.FormatBool(it.IsLowStock()),
		})
	}

	return rows
}

func saleRows(sales []*ledger.Sale) [][]string {
	rows := [][]string{{"id", "date", "part_number", "item", "customer", "quantity", "unit_price", "total"}}

	for _, s := range sales {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.SaleDate.Format(time.DateOnly),
			s.PartNumber,
			s.ItemName,
			s.CustomerName,
			strconv.Itoa(s.Quantity),
			s.UnitPrice.StringFixed(2),
			s.TotalAmount.StringFixed(2),
		})
	}

	return rows
}

func purchaseRows(purchases []*ledger.Purchase) [][]string {
	rows := [][]string{{"id", "date", "part_number", "item", "supplier", "invoice", "quantity", "unit_price", "total"}}

	for _, p := range purchases {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.PurchaseDate.Format(time.DateOnly),
			p.PartNumber,
			p.ItemName,
			p.SupplierName,
			p.InvoiceNumber,
			strconv.Itoa(p.Quantity),
			p.UnitPrice.StringFixed(2),
			p.TotalAmount.StringFixed(2),
		})
	}

	return rows
}

func stockValue(items []*inventory.Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.StockQuantity))))
	}

	return total
}

func sumSales(sales []*ledger.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.TotalAmount)
	}

	return total
}

func sumPurchases(purchases []*ledger.Purchase) decimal.Decimal {
	total := decimal.Zero
	for _, p := range purchases {
		total = total.Add(p.TotalAmount)
	}

	return total
}
