// Package record wraps the loosely shaped invoice-like maps handed to the
// document core. Every accessor is total: absent, null or malformed values
// come back as "not found" instead of an error.
package record

import (
	"encoding/json"
	"strings"

	ierr "github.com/flexprice/invoicedoc/internal/errors"
	jsoniter "github.com/json-iterator/go"
)

var jsonCodec = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Record is an invoice-like object with optional, overlapping fields
type Record map[string]any

// Field is one present candidate of an alias chain
type Field struct {
	Alias string
	Value any
}

// Parse decodes a JSON object into a Record, numbers kept as json.Number
func Parse(data []byte) (Record, error) {
	var m map[string]any
	if err := jsonCodec.Unmarshal(data, &m); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invoice record must be a JSON object").
			Mark(ierr.ErrValidation)
	}
	if m == nil {
		return Record{}, nil
	}
	return Record(m), nil
}

// FromMap wraps m without copying it. Record accessors never write.
func FromMap(m map[string]any) Record {
	if m == nil {
		return Record{}
	}
	return Record(m)
}

// Get walks a dotted path ("timesheet.weekStart") and reports whether a
// non-null value sits at its end
func (r Record) Get(path string) (any, bool) {
	var cur any = map[string]any(r)
	for _, part := range strings.Split(path, ".") {
		obj, ok := asObject(cur)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// Candidates returns every present, non-null, non-blank alias value in alias order
func (r Record) Candidates(aliases ...string) []Field {
	fields := make([]Field, 0, len(aliases))
	for _, alias := range aliases {
		v, ok := r.Get(alias)
		if !ok || isBlank(v) {
			continue
		}
		fields = append(fields, Field{Alias: alias, Value: v})
	}
	return fields
}

// Lookup returns the first present, non-null, non-blank value of the alias chain
func (r Record) Lookup(aliases ...string) (any, bool) {
	fields := r.Candidates(aliases...)
	if len(fields) == 0 {
		return nil, false
	}
	return fields[0].Value, true
}

// String is Lookup followed by Text; non-primitive values report false
func (r Record) String(aliases ...string) (string, bool) {
	v, ok := r.Lookup(aliases...)
	if !ok {
		return "", false
	}
	return Text(v)
}

// Object returns the nested object at path, if it is one
func (r Record) Object(path string) (Record, bool) {
	v, ok := r.Get(path)
	if !ok {
		return nil, false
	}
	obj, ok := asObject(v)
	if !ok {
		return nil, false
	}
	return Record(obj), true
}

// Items returns the list stored under the first present alias. A JSON string
// holding an array is decoded. Non-object entries are dropped.
func (r Record) Items(aliases ...string) []Record {
	v, ok := r.Lookup(aliases...)
	if !ok {
		return nil
	}

	var list []any
	switch t := v.(type) {
	case []any:
		list = t
	case []map[string]any:
		for _, m := range t {
			list = append(list, m)
		}
	case string:
		if err := jsonCodec.UnmarshalFromString(t, &list); err != nil {
			return nil
		}
	default:
		return nil
	}

	items := make([]Record, 0, len(list))
	for _, entry := range list {
		if obj, ok := asObject(entry); ok {
			items = append(items, Record(obj))
		}
	}
	return items
}

func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Record:
		return t, true
	default:
		return nil, false
	}
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) == ""
	case json.Number:
		return strings.TrimSpace(t.String()) == ""
	default:
		return false
	}
}

// LineItemKeys are the aliases the upstream line-item list travels under
var LineItemKeys = []string{"lineItems", "line_items", "items"}
