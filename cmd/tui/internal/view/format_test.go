package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "24.90 €", FormatMoney(decimal.RequireFromString("24.9")))
	assert.Equal(t, "0.00 €", FormatMoney(decimal.Zero))
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "12.50", want: "12.5"},
		{in: " 12,50 ", want: "12.5"},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMoney(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "3", want: 3},
		{in: " 12 ", want: 12},
		{in: "0", wantErr: true},
		{in: "-2", wantErr: true},
		{in: "1.5", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Error(t, validateCount(tt.in))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOptionalID(t *testing.T) {
	id, err := parseOptionalID("")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = parseOptionalID("42")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(42), *id)

	_, err = parseOptionalID("x")
	assert.Error(t, err)
}

func TestParseOptionalDate(t *testing.T) {
	d, err := parseOptionalDate("2026-10-15")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, day("2026-10-15"), *d)

	d, err = parseOptionalDate("  ")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = parseOptionalDate("15/10/2026")
	assert.Error(t, err)
}
