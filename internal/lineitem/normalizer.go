// Package lineitem maps arbitrarily aliased upstream line items onto the
// canonical invoice.LineItem.
package lineitem

import (
	"fmt"

	"github.com/flexprice/invoicedoc/internal/domain/invoice"
	"github.com/flexprice/invoicedoc/internal/domain/record"
	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/shopspring/decimal"
)

type Normalizer struct {
	logger *logger.Logger
}

func NewNormalizer(log *logger.Logger) *Normalizer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Normalizer{logger: log}
}

// Normalize returns the canonical line items of rec in upstream order. It never
// returns an empty slice: when the upstream list is absent, empty or
// undecodable, one item is synthesised from the record level fields.
func (n *Normalizer) Normalize(rec record.Record) []invoice.LineItem {
	raw := rec.Items(record.LineItemKeys...)
	if len(raw) == 0 {
		n.logger.Debugw("no upstream line items, synthesising one from the record")
		return []invoice.LineItem{n.Synthesize(rec)}
	}

	items := make([]invoice.LineItem, 0, len(raw))
	for i, item := range raw {
		items = append(items, n.normalize(item, rec, false, i))
	}
	return items
}

// NormalizeItem maps one upstream item, falling back to rec for missing fields
func (n *Normalizer) NormalizeItem(item, rec record.Record) invoice.LineItem {
	return n.normalize(item, rec, false, 0)
}

// Synthesize builds the single default item from record level fields only
func (n *Normalizer) Synthesize(rec record.Record) invoice.LineItem {
	return n.normalize(record.Record{}, rec, true, 0)
}

func (n *Normalizer) normalize(item, rec record.Record, synthesized bool, index int) invoice.LineItem {
	hours, _ := n.number(HoursChain, item, rec, index)
	rate, _ := n.number(RateChain, item, rec, index)

	totalChain := TotalChain
	if !synthesized {
		totalChain.RecordAliases = nil
	}
	total, supplied := n.number(totalChain, item, rec, index)
	if !supplied {
		total = hours.Mul(rate)
	}

	return invoice.LineItem{
		EmployeeName:  n.text(EmployeeNameChain, item, rec, index),
		Role:          n.text(RoleChain, item, rec, index),
		PeriodLabel:   n.text(PeriodLabelChain, item, rec, index),
		Hours:         hours,
		Rate:          rate,
		Total:         total,
		TotalSupplied: supplied,
	}
}

// number walks the chain and reports whether any alias produced a value.
// Malformed values are skipped, negatives clamp to zero.
func (n *Normalizer) number(chain NumberChain, item, rec record.Record, index int) (decimal.Decimal, bool) {
	candidates := append(item.Candidates(chain.ItemAliases...), rec.Candidates(chain.RecordAliases...)...)
	for _, f := range candidates {
		v, ok := record.Number(f.Value)
		if !ok {
			n.logger.Warnw("skipping malformed numeric line item value",
				"field", chain.Field,
				"alias", f.Alias,
				"item_index", index,
				"value", fmt.Sprintf("%v", f.Value),
			)
			continue
		}
		if v.IsNegative() {
			n.logger.Warnw("clamping negative line item value to zero",
				"field", chain.Field,
				"alias", f.Alias,
				"item_index", index,
				"value", v.String(),
			)
			v = decimal.Zero
		}
		return v, true
	}
	return decimal.Zero, false
}

func (n *Normalizer) text(chain TextChain, item, rec record.Record, index int) string {
	candidates := append(item.Candidates(chain.ItemAliases...), rec.Candidates(chain.RecordAliases...)...)
	if len(candidates) == 0 {
		return chain.Default
	}

	f := candidates[0]
	s, ok := record.Text(f.Value)
	if !ok {
		n.logger.Warnw("replacing non printable line item value",
			"field", chain.Field,
			"alias", f.Alias,
			"item_index", index,
			"placeholder", Placeholder,
		)
		return Placeholder
	}
	return s
}
