package record

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/flexprice/invoicedoc/internal/types"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// dateLayouts are tried in order by Date
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"Jan 02, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// Numbers outside these bounds are treated as malformed. Formatting cost grows
// with the exponent, so the bounds are checked before any arithmetic.
const (
	maxIntegerDigits  = 15
	maxFractionDigits = 12
	minExponent       = -32
)

var maxMagnitude = decimal.New(1, maxIntegerDigits)

// Number coerces a primitive to a decimal. Bools, objects, NaN and Inf are rejected.
// Strings may carry a leading currency sign and thousands separators.
func Number(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case nil, bool:
		return decimal.Zero, false
	case decimal.Decimal:
		return bounded(t)
	case json.Number:
		return parseDecimal(t.String())
	case string:
		return parseDecimal(t)
	case float64:
		return fromFloat(t)
	case float32:
		return fromFloat(float64(t))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n, err := cast.ToInt64E(t)
		if err != nil {
			return decimal.Zero, false
		}
		return decimal.NewFromInt(n), true
	default:
		return decimal.Zero, false
	}
}

// Text renders a primitive as a trimmed string. Objects and lists report false.
func Text(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case map[string]any, Record, []any:
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// Bool accepts booleans, "true"/"false"/"1"/"0" strings and 0/1 numbers
func Bool(v any) (bool, bool) {
	if n, ok := v.(json.Number); ok {
		v = n.String()
	}
	if s, ok := v.(string); ok {
		v = strings.ToLower(strings.TrimSpace(s))
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// Date parses the accepted date shapes and truncates to a calendar date.
// Numbers are read as epoch milliseconds.
func Date(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return types.ToCalendarDate(t), true
	case string:
		return parseDate(t)
	case json.Number, float64, int, int64:
		ms, ok := Number(t)
		if !ok || !ms.IsPositive() {
			return time.Time{}, false
		}
		return types.ToCalendarDate(time.UnixMilli(ms.IntPart()).UTC()), true
	default:
		return time.Time{}, false
	}
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return types.ToCalendarDate(d), true
		}
	}
	return time.Time{}, false
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return bounded(d)
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return bounded(decimal.NewFromFloat(f))
}

// bounded rejects values whose exponent or magnitude is out of range and
// rounds away fraction digits past maxFractionDigits.
func bounded(d decimal.Decimal) (decimal.Decimal, bool) {
	exp := d.Exponent()
	if exp > maxIntegerDigits || exp < minExponent {
		return decimal.Zero, false
	}
	if d.Abs().GreaterThanOrEqual(maxMagnitude) {
		return decimal.Zero, false
	}
	if exp < -maxFractionDigits {
		d = d.Round(maxFractionDigits)
	}
	return d, true
}
