// Package aggregate computes invoice totals from canonical line items.
package aggregate

import (
	"github.com/flexprice/invoicedoc/internal/domain/invoice"
	"github.com/flexprice/invoicedoc/internal/format"
	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Aggregator struct {
	logger *logger.Logger
}

func NewAggregator(log *logger.Logger) *Aggregator {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Aggregator{logger: log}
}

// Result is a reconciled copy of the input items and the totals derived from them
type Result struct {
	LineItems []invoice.LineItem
	Totals    invoice.Totals
}

// Aggregate reconciles every item, then sums. The input slice is not modified
// and the result depends only on the arguments.
func (a *Aggregator) Aggregate(items []invoice.LineItem, tax invoice.TaxPolicy, f *format.Formatter) Result {
	if f == nil {
		f = format.Default()
	}

	reconciled := make([]invoice.LineItem, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		reconciled[i] = a.Reconcile(item, i)
		subtotal = subtotal.Add(reconciled[i].Total)
	}

	taxAmount := decimal.Zero
	if !tax.Exempt && tax.RatePercent.IsPositive() {
		taxAmount = subtotal.Mul(tax.RatePercent).Div(hundred)
	}
	total := subtotal.Add(taxAmount)

	taxText := f.Currency(taxAmount)
	if tax.Exempt && tax.ExemptNote != "" {
		taxText = tax.ExemptNote
	}

	return Result{
		LineItems: reconciled,
		Totals: invoice.Totals{
			Subtotal:     subtotal,
			Tax:          taxAmount,
			Total:        total,
			SubtotalText: f.Currency(subtotal),
			TaxText:      taxText,
			TotalText:    f.Currency(total),
		},
	}
}

// Reconcile settles an item's total against hours*rate. A supplied total that
// disagrees with a non-zero product is stale and replaced; a positive supplied
// total is trusted only when there is no product to check it against.
func (a *Aggregator) Reconcile(item invoice.LineItem, index int) invoice.LineItem {
	computed := item.ComputedTotal()
	switch {
	case !item.TotalSupplied:
		item.Total = computed
	case computed.IsZero():
		if !item.Total.IsPositive() {
			item.Total = decimal.Zero
		}
	case !item.Total.Equal(computed):
		a.logger.Warnw("replacing stale supplied line item total",
			"item_index", index,
			"supplied", item.Total.String(),
			"computed", computed.String(),
		)
		item.Total = computed
	}
	return item
}
