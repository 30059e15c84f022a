package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/garage/internal/encoding"
	"github.com/MrJamesThe3rd/garage/internal/inventory"
)

// Parser reads supplier price lists and produces item create params.
// It auto-detects the layout by matching column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]inventory.CreateParams, error) {
	utf8r, _, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, colMap, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching price list layout found: expected part number, name and price columns")
	}

	return parseRows(profile, colMap, rows[headerIdx+1:], headerIdx)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// index returns -1 for columns the file does not carry.
func (c colIndex) index(name string) int {
	if name == "" {
		return -1
	}

	idx, ok := c[name]
	if !ok {
		return -1
	}

	return idx
}

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts items from data rows using the matched profile.
// headerIdx is the 0-based index of the header in the original file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerIdx int) ([]inventory.CreateParams, error) {
	partIdx := cols.index(p.PartCol)
	nameIdx := cols.index(p.NameCol)

	var items []inventory.CreateParams

	for i, row := range rows {
		rowNum := headerIdx + i + 2 // 1-based, skipping header

		part := cellValue(row, partIdx)
		if part == "" {
			continue
		}

		name := cellValue(row, nameIdx)
		if name == "" && cellValue(row, cols.index(p.PriceCol)) == "" {
			continue // totals and page footers
		}

		if name == "" {
			return nil, fmt.Errorf("row %d: missing name for part %s", rowNum, part)
		}

		price, err := parseRowPrice(p, cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		params := inventory.CreateParams{
			PartNumber:  part,
			Name:        name,
			Description: cellValue(row, cols.index(p.DescCol)),
			Category:    cellValue(row, cols.index(p.CategoryCol)),
			UnitPrice:   price,
			Location:    cellValue(row, cols.index(p.LocationCol)),
		}

		if s := cellValue(row, cols.index(p.StockCol)); s != "" {
			if params.StockQuantity, err = parseCount(s); err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
		}

		if s := cellValue(row, cols.index(p.MinStockCol)); s != "" {
			if params.MinStockLevel, err = parseCount(s); err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
		}

		items = append(items, params)
	}

	return items, nil
}

// parseRowPrice extracts the unit price based on the profile's price mode.
func parseRowPrice(p *Profile, cols colIndex, row []string) (decimal.Decimal, error) {
	price, err := parsePrice(cellValue(row, cols.index(p.PriceCol)))
	if err != nil {
		return decimal.Zero, err
	}

	if p.PriceMode != priceDiscounted {
		return price, nil
	}

	s := strings.TrimSuffix(cellValue(row, cols.index(p.DiscountCol)), "%")
	if s == "" {
		return price, nil
	}

	pct, err := parseEuropeanAmount(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid discount %q", s)
	}

	return applyDiscount(price, pct)
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
