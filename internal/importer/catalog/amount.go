package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// parseEuropeanAmount parses a European-formatted number.
// Format examples: "1.234,56" -> 1234.56, "12,5" -> 12.5, "10" -> 10.
func parseEuropeanAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSuffix(strings.TrimSpace(s), "€")
	clean = strings.TrimSpace(clean)
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	return decimal.NewFromString(clean)
}

// parsePrice returns a non-negative amount rounded to cents.
func parsePrice(s string) (decimal.Decimal, error) {
	d, err := parseEuropeanAmount(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}

	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %q", s)
	}

	return d.Round(2), nil
}

// parseCount parses a whole, non-negative quantity. Spreadsheets often
// write "12,00" for 12.
func parseCount(s string) (int, error) {
	d, err := parseEuropeanAmount(s)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}

	if d.IsNegative() || !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("quantity %q is not a whole non-negative number", s)
	}

	return int(d.IntPart()), nil
}

var hundred = decimal.NewFromInt(100)

// applyDiscount returns list * (1 - pct/100) rounded to cents.
func applyDiscount(list, pct decimal.Decimal) (decimal.Decimal, error) {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return decimal.Zero, fmt.Errorf("discount %s%% out of range", pct)
	}

	return list.Mul(hundred.Sub(pct)).Div(hundred).Round(2), nil
}
