package format

import (
	"testing"
	"time"

	"github.com/flexprice/invoicedoc/internal/domain/invoice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatter_Currency(t *testing.T) {
	f := Default()

	tests := []struct {
		in   string
		want string
	}{
		{in: "2000", want: "$2000.00"},
		{in: "0", want: "$0.00"},
		{in: "1812.375", want: "$1812.38"},
		{in: "0.005", want: "$0.01"},
		{in: "1234567.891", want: "$1234567.89"},
		{in: "-12.5", want: "-$12.50"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Currency(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatter_CurrencyCode(t *testing.T) {
	assert.Equal(t, "USD", NewFormatter("").CurrencyCode())
	assert.Equal(t, "EUR", NewFormatter(" EUR ").CurrencyCode())
	assert.Equal(t, "€10.00", NewFormatter("eur").Currency(decimal.NewFromInt(10)))
}

func TestFormatter_Dates(t *testing.T) {
	f := Default()
	start := time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.November, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "Nov 9, 2025", f.Date(start))
	assert.Equal(t, "", f.Date(time.Time{}))
	assert.Equal(t, "Nov 9, 2025 to Nov 15, 2025", f.Period(invoice.BillingPeriod{Start: start, End: end}))
	assert.Equal(t, "", f.Period(invoice.BillingPeriod{}))
}

func TestFormatter_Numbers(t *testing.T) {
	f := Default()
	assert.Equal(t, "40", f.Hours(decimal.NewFromInt(40)))
	assert.Equal(t, "37.5", f.Hours(decimal.RequireFromString("37.50")))
	assert.Equal(t, "7.33", f.Hours(decimal.RequireFromString("7.333")))
	assert.Equal(t, "8.25%", f.Percent(decimal.RequireFromString("8.25")))
}

func TestFormatter_SameValueSameText(t *testing.T) {
	a, b := Default(), NewFormatter("USD")
	v := decimal.RequireFromString("199.995")
	assert.Equal(t, a.Currency(v), b.Currency(v))
}
