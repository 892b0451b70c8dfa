// Package format holds the only currency and date formatting used on an
// invoice document. Every section formats through the same Formatter so a
// value always prints identically.
package format

import (
	"strings"
	"time"

	"github.com/flexprice/invoicedoc/internal/domain/invoice"
	"github.com/flexprice/invoicedoc/internal/types"
	"github.com/shopspring/decimal"
)

const (
	DateLayout = "Jan 2, 2006"
	// PeriodSeparator joins the two bounds of a billing period label
	PeriodSeparator = " to "
)

type Formatter struct {
	currency string
	symbol   string
}

// NewFormatter returns a formatter for an ISO currency code, usd when blank
func NewFormatter(currency string) *Formatter {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = types.DefaultCurrency
	}
	return &Formatter{
		currency: currency,
		symbol:   types.GetCurrencySymbol(currency),
	}
}

// Default formats US dollars
func Default() *Formatter {
	return NewFormatter(types.DefaultCurrency)
}

// Currency renders an amount rounded half away from zero to two decimals,
// e.g. $2000.00. No thousands separators.
func (f *Formatter) Currency(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	if rounded.IsNegative() {
		return "-" + f.symbol + rounded.Abs().StringFixed(2)
	}
	return f.symbol + rounded.StringFixed(2)
}

// CurrencyCode is the upper-cased ISO code, e.g. USD
func (f *Formatter) CurrencyCode() string {
	return strings.ToUpper(f.currency)
}

// Date renders a calendar date as "Nov 9, 2025"; the zero time renders empty
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Period renders "<start> to <end>"
func (f *Formatter) Period(p invoice.BillingPeriod) string {
	if p.IsZero() {
		return ""
	}
	return f.Date(p.Start) + PeriodSeparator + f.Date(p.End)
}

// Hours renders a quantity with at most two decimals and no trailing zeros
func (f *Formatter) Hours(hours decimal.Decimal) string {
	return hours.Round(2).String()
}

// Percent renders a tax rate such as 8.25%
func (f *Formatter) Percent(rate decimal.Decimal) string {
	return rate.Round(3).String() + "%"
}
