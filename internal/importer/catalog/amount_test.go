package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEuropeanAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1.234,56", want: "1234.56"},
		{in: "12,5", want: "12.5"},
		{in: "10", want: "10"},
		{in: "9,99 €", want: "9.99"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseEuropeanAmount(tt.in)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestApplyDiscount(t *testing.T) {
	got, err := applyDiscount(decimal.RequireFromString("19.99"), decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Equal(t, "17.99", got.StringFixed(2))

	_, err = applyDiscount(decimal.NewFromInt(10), decimal.NewFromInt(120))
	assert.Error(t, err)
}
