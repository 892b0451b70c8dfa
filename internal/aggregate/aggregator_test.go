package aggregate_test

import (
	"testing"

	"github.com/flexprice/invoicedoc/internal/aggregate"
	"github.com/flexprice/invoicedoc/internal/domain/invoice"
	"github.com/flexprice/invoicedoc/internal/format"
	"github.com/flexprice/invoicedoc/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(hours, rate string) invoice.LineItem {
	h, r := dec(hours), dec(rate)
	return invoice.LineItem{Hours: h, Rate: r, Total: h.Mul(r)}
}

func TestAggregate_ExemptScenario(t *testing.T) {
	a := aggregate.NewAggregator(nil)
	res := a.Aggregate(
		[]invoice.LineItem{item("40", "50")},
		invoice.TaxPolicy{Exempt: true, RatePercent: dec("8.25"), ExemptNote: "Exempt (Professional Services)"},
		format.Default(),
	)

	assert.True(t, dec("2000").Equal(res.Totals.Subtotal))
	assert.True(t, res.Totals.Tax.IsZero())
	assert.True(t, dec("2000").Equal(res.Totals.Total))
	assert.Equal(t, "$2000.00", res.Totals.SubtotalText)
	assert.Equal(t, "Exempt (Professional Services)", res.Totals.TaxText)
	assert.Equal(t, "$2000.00", res.Totals.TotalText)
}

func TestAggregate_TaxedTotals(t *testing.T) {
	a := aggregate.NewAggregator(nil)
	items := []invoice.LineItem{item("37.5", "48.333"), item("0.1", "0.2"), item("12", "61.125")}
	res := a.Aggregate(items, invoice.TaxPolicy{RatePercent: dec("8.25")}, format.Default())

	sum := decimal.Zero
	for _, li := range res.LineItems {
		sum = sum.Add(li.Total)
	}
	assert.True(t, sum.Equal(res.Totals.Subtotal), "subtotal is the exact sum")
	assert.True(t, dec("2546.0075").Equal(res.Totals.Subtotal))
	assert.True(t, res.Totals.Subtotal.Mul(dec("8.25")).Div(dec("100")).Equal(res.Totals.Tax))
	assert.True(t, res.Totals.Subtotal.Add(res.Totals.Tax).Equal(res.Totals.Total))
	assert.Equal(t, "$2546.01", res.Totals.SubtotalText)
	assert.Equal(t, "$210.05", res.Totals.TaxText)
	assert.Equal(t, "$2756.05", res.Totals.TotalText)
}

func TestAggregate_NoRoundingDuringAccumulation(t *testing.T) {
	a := aggregate.NewAggregator(nil)
	items := make([]invoice.LineItem, 0, 3)
	for i := 0; i < 3; i++ {
		items = append(items, item("1", "0.005"))
	}
	res := a.Aggregate(items, invoice.TaxPolicy{Exempt: true}, nil)
	assert.True(t, dec("0.015").Equal(res.Totals.Subtotal))
	assert.Equal(t, "$0.02", res.Totals.SubtotalText)
	assert.Equal(t, "$0.00", res.Totals.TaxText, "exempt without a note prints a zero amount")
}

func TestReconcile(t *testing.T) {
	log, logs := testutil.NewObservedLogger()
	a := aggregate.NewAggregator(log)

	tests := []struct {
		name      string
		in        invoice.LineItem
		wantTotal string
		wantWarn  bool
	}{
		{
			name:      "computed when not supplied",
			in:        invoice.LineItem{Hours: dec("10"), Rate: dec("20"), Total: dec("999")},
			wantTotal: "200",
		},
		{
			name:      "stale supplied total is replaced",
			in:        invoice.LineItem{Hours: dec("10"), Rate: dec("20"), Total: dec("150"), TotalSupplied: true},
			wantTotal: "200",
			wantWarn:  true,
		},
		{
			name:      "matching supplied total is kept",
			in:        invoice.LineItem{Hours: dec("10"), Rate: dec("20"), Total: dec("200.00"), TotalSupplied: true},
			wantTotal: "200",
		},
		{
			name:      "supplied total trusted when there is no rate",
			in:        invoice.LineItem{Hours: dec("10"), Total: dec("450"), TotalSupplied: true},
			wantTotal: "450",
		},
		{
			name:      "nothing to go on",
			in:        invoice.LineItem{TotalSupplied: true},
			wantTotal: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := logs.FilterLevelExact(zapcore.WarnLevel).Len()
			got := a.Reconcile(tt.in, 0)
			assert.True(t, dec(tt.wantTotal).Equal(got.Total), "total %s", got.Total)
			warned := logs.FilterLevelExact(zapcore.WarnLevel).Len() > before
			assert.Equal(t, tt.wantWarn, warned)
		})
	}
}

func TestAggregate_IsIdempotentAndPure(t *testing.T) {
	a := aggregate.NewAggregator(nil)
	items := []invoice.LineItem{
		{Hours: dec("10"), Rate: dec("20"), Total: dec("150"), TotalSupplied: true},
		item("7.25", "80"),
	}
	policy := invoice.TaxPolicy{RatePercent: dec("5")}

	first := a.Aggregate(items, policy, format.Default())
	second := a.Aggregate(first.LineItems, policy, format.Default())

	require.Len(t, second.LineItems, 2)
	assert.True(t, first.Totals.Subtotal.Equal(second.Totals.Subtotal))
	assert.True(t, first.Totals.Tax.Equal(second.Totals.Tax))
	assert.True(t, first.Totals.Total.Equal(second.Totals.Total))
	assert.Equal(t, first.Totals.TotalText, second.Totals.TotalText)
	assert.Equal(t, "$819.00", first.Totals.TotalText)
	assert.True(t, dec("150").Equal(items[0].Total), "input slice is untouched")
}
