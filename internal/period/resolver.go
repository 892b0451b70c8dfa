// Package period derives the billing period of an invoice-like record from
// whichever of its optional date fields is usable.
package period

import (
	"time"

	"github.com/flexprice/invoicedoc/internal/domain/invoice"
	"github.com/flexprice/invoicedoc/internal/domain/record"
	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/flexprice/invoicedoc/internal/types"
	"github.com/samber/lo"
)

// Strategy is one tier of period derivation. Resolve reports false when the
// tier has nothing usable, in which case the next tier is consulted.
type Strategy struct {
	Name    string
	Resolve func(rec record.Record, now time.Time) (invoice.BillingPeriod, bool)
}

// itemDateKeys are the per line item date aliases, first parseable wins per item
var itemDateKeys = []string{"date", "workDate", "startDate"}

// DefaultStrategies in precedence order. The week string outranks explicit
// weekStart/weekEnd fields.
var DefaultStrategies = []Strategy{
	{Name: "week_string", Resolve: fromWeekString},
	{Name: "week_bounds", Resolve: fromBounds("weekStart", "weekEnd")},
	{Name: "timesheet_week_bounds", Resolve: fromBounds("timesheet.weekStart", "timesheet.weekEnd")},
	{Name: "line_item_dates", Resolve: fromLineItemDates},
	{Name: "date_bounds", Resolve: fromDateBounds},
	{Name: "current_month", Resolve: currentMonth},
}

type Resolver struct {
	strategies []Strategy
	logger     *logger.Logger
}

// NewResolver returns a resolver over DefaultStrategies
func NewResolver(log *logger.Logger) *Resolver {
	return NewResolverWithStrategies(log, DefaultStrategies)
}

// NewResolverWithStrategies returns a resolver over a custom tier list. The
// current month fallback is appended when missing so Resolve is total.
func NewResolverWithStrategies(log *logger.Logger, strategies []Strategy) *Resolver {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if len(strategies) == 0 || strategies[len(strategies)-1].Name != "current_month" {
		strategies = append(append([]Strategy{}, strategies...), Strategy{Name: "current_month", Resolve: currentMonth})
	}
	return &Resolver{strategies: strategies, logger: log}
}

// Resolve returns the period from the first tier that succeeds. now only
// feeds the default year and the month fallback.
func (r *Resolver) Resolve(rec record.Record, now time.Time) invoice.BillingPeriod {
	p, _ := r.ResolveWithSource(rec, now)
	return p
}

// ResolveWithSource is Resolve that also names the winning tier
func (r *Resolver) ResolveWithSource(rec record.Record, now time.Time) (invoice.BillingPeriod, string) {
	for _, s := range r.strategies {
		if p, ok := s.Resolve(rec, now); ok {
			return p, s.Name
		}
		r.logger.Debugw("billing period tier skipped", "tier", s.Name)
	}
	// unreachable with the fallback appended
	p, _ := currentMonth(rec, now)
	return p, "current_month"
}

func fromWeekString(rec record.Record, now time.Time) (invoice.BillingPeriod, bool) {
	week, ok := rec.String("week")
	if !ok || week == "" {
		return invoice.BillingPeriod{}, false
	}

	year := now.Year()
	if v, ok := rec.Lookup("year"); ok {
		if n, ok := record.Number(v); ok && n.IsPositive() {
			year = int(n.IntPart())
		}
	}

	start, end, ok := parseWeekRange(week, year)
	if !ok {
		return invoice.BillingPeriod{}, false
	}
	return invoice.NewBillingPeriod(start, end)
}

func fromBounds(startKey, endKey string) func(record.Record, time.Time) (invoice.BillingPeriod, bool) {
	return func(rec record.Record, _ time.Time) (invoice.BillingPeriod, bool) {
		startRaw, ok := rec.Lookup(startKey)
		if !ok {
			return invoice.BillingPeriod{}, false
		}
		endRaw, ok := rec.Lookup(endKey)
		if !ok {
			return invoice.BillingPeriod{}, false
		}
		start, ok := record.Date(startRaw)
		if !ok {
			return invoice.BillingPeriod{}, false
		}
		end, ok := record.Date(endRaw)
		if !ok {
			return invoice.BillingPeriod{}, false
		}
		return invoice.NewBillingPeriod(start, end)
	}
}

// fromDateBounds accepts either record bound on its own. A missing bound
// falls back to the current month; when that would invert the period the
// month of the present bound is used instead.
func fromDateBounds(rec record.Record, now time.Time) (invoice.BillingPeriod, bool) {
	start, hasStart := boundDate(rec, "startDate")
	end, hasEnd := boundDate(rec, "endDate")

	switch {
	case hasStart && hasEnd:
	case hasStart:
		end = types.EndOfMonth(now)
		if end.Before(start) {
			end = types.EndOfMonth(start)
		}
	case hasEnd:
		start = types.StartOfMonth(now)
		if end.Before(start) {
			start = types.StartOfMonth(end)
		}
	default:
		return invoice.BillingPeriod{}, false
	}
	return invoice.NewBillingPeriod(start, end)
}

func boundDate(rec record.Record, key string) (time.Time, bool) {
	v, ok := rec.Lookup(key)
	if !ok {
		return time.Time{}, false
	}
	return record.Date(v)
}

func fromLineItemDates(rec record.Record, _ time.Time) (invoice.BillingPeriod, bool) {
	dates := lo.FilterMap(rec.Items(record.LineItemKeys...), func(item record.Record, _ int) (time.Time, bool) {
		for _, f := range item.Candidates(itemDateKeys...) {
			if d, ok := record.Date(f.Value); ok {
				return d, true
			}
		}
		return time.Time{}, false
	})
	if len(dates) == 0 {
		return invoice.BillingPeriod{}, false
	}

	start := lo.MinBy(dates, func(a, b time.Time) bool { return a.Before(b) })
	end := lo.MaxBy(dates, func(a, b time.Time) bool { return a.After(b) })
	return invoice.NewBillingPeriod(start, end)
}

func currentMonth(_ record.Record, now time.Time) (invoice.BillingPeriod, bool) {
	return invoice.NewBillingPeriod(types.StartOfMonth(now), types.EndOfMonth(now))
}
