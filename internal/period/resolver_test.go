package period

import (
	"testing"
	"time"

	"github.com/flexprice/invoicedoc/internal/domain/record"
	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.November, 20, 10, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(logger.NewNopLogger())

	tests := []struct {
		name      string
		rec       map[string]any
		wantStart time.Time
		wantEnd   time.Time
		wantTier  string
	}{
		{
			name:      "week string with year",
			rec:       map[string]any{"week": "Nov 09 - Nov 15", "year": 2025},
			wantStart: day(2025, time.November, 9),
			wantEnd:   day(2025, time.November, 15),
			wantTier:  "week_string",
		},
		{
			name: "week string beats conflicting week bounds",
			rec: map[string]any{
				"week":      "Nov 09 - Nov 15",
				"year":      "2025",
				"weekStart": "2025-10-01",
				"weekEnd":   "2025-10-07",
			},
			wantStart: day(2025, time.November, 9),
			wantEnd:   day(2025, time.November, 15),
			wantTier:  "week_string",
		},
		{
			name:      "week string without year uses the year of now",
			rec:       map[string]any{"week": "November 2 to November 8"},
			wantStart: day(2025, time.November, 2),
			wantEnd:   day(2025, time.November, 8),
			wantTier:  "week_string",
		},
		{
			name:      "cross year week rolls the end forward",
			rec:       map[string]any{"week": "Dec 28 – Jan 03", "year": 2025},
			wantStart: day(2025, time.December, 28),
			wantEnd:   day(2026, time.January, 3),
			wantTier:  "week_string",
		},
		{
			name: "unparseable week string falls through to week bounds",
			rec: map[string]any{
				"week":      "sometime",
				"weekStart": "2025-10-01",
				"weekEnd":   "2025-10-07",
			},
			wantStart: day(2025, time.October, 1),
			wantEnd:   day(2025, time.October, 7),
			wantTier:  "week_bounds",
		},
		{
			name: "inverted week bounds fall through to timesheet",
			rec: map[string]any{
				"weekStart": "2025-10-07",
				"weekEnd":   "2025-10-01",
				"timesheet": map[string]any{"weekStart": "2025-09-01", "weekEnd": "2025-09-07"},
			},
			wantStart: day(2025, time.September, 1),
			wantEnd:   day(2025, time.September, 7),
			wantTier:  "timesheet_week_bounds",
		},
		{
			name: "line item dates give min and max",
			rec: map[string]any{
				"lineItems": []any{
					map[string]any{"workDate": "2025-08-12"},
					map[string]any{"date": "not a date", "startDate": "2025-08-03"},
					map[string]any{"date": "2025-08-20"},
					map[string]any{"hours": 8},
				},
				"startDate": "2025-01-01",
				"endDate":   "2025-01-31",
			},
			wantStart: day(2025, time.August, 3),
			wantEnd:   day(2025, time.August, 20),
			wantTier:  "line_item_dates",
		},
		{
			name:      "record start and end dates",
			rec:       map[string]any{"startDate": "2025-07-01T00:00:00Z", "endDate": "07/31/2025"},
			wantStart: day(2025, time.July, 1),
			wantEnd:   day(2025, time.July, 31),
			wantTier:  "date_bounds",
		},
		{
			name:      "no date fields falls back to the current month",
			rec:       map[string]any{"employeeName": "J. Doe"},
			wantStart: day(2025, time.November, 1),
			wantEnd:   day(2025, time.November, 30),
			wantTier:  "current_month",
		},
		{
			name:      "one week bound is not enough",
			rec:       map[string]any{"weekStart": "2025-10-01", "employeeName": "J. Doe"},
			wantStart: day(2025, time.November, 1),
			wantEnd:   day(2025, time.November, 30),
			wantTier:  "current_month",
		},
		{
			name:      "start date alone runs to the end of the current month",
			rec:       map[string]any{"startDate": "2025-10-01"},
			wantStart: day(2025, time.October, 1),
			wantEnd:   day(2025, time.November, 30),
			wantTier:  "date_bounds",
		},
		{
			name:      "end date alone starts at the beginning of the current month",
			rec:       map[string]any{"endDate": "2025-11-25"},
			wantStart: day(2025, time.November, 1),
			wantEnd:   day(2025, time.November, 25),
			wantTier:  "date_bounds",
		},
		{
			name:      "future start date keeps its own month end",
			rec:       map[string]any{"startDate": "2026-01-10", "endDate": "soon"},
			wantStart: day(2026, time.January, 10),
			wantEnd:   day(2026, time.January, 31),
			wantTier:  "date_bounds",
		},
		{
			name:      "past end date keeps its own month start",
			rec:       map[string]any{"weekStart": "2025-10-01", "endDate": "2025-10-07"},
			wantStart: day(2025, time.October, 1),
			wantEnd:   day(2025, time.October, 7),
			wantTier:  "date_bounds",
		},
		{
			name:      "inverted date bounds fall back to the current month",
			rec:       map[string]any{"startDate": "2025-10-07", "endDate": "2025-10-01"},
			wantStart: day(2025, time.November, 1),
			wantEnd:   day(2025, time.November, 30),
			wantTier:  "current_month",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, tier := r.ResolveWithSource(record.FromMap(tt.rec), now)
			assert.Equal(t, tt.wantTier, tier)
			assert.Equal(t, tt.wantStart, got.Start)
			assert.Equal(t, tt.wantEnd, got.End)
			assert.False(t, got.End.Before(got.Start))
		})
	}
}

func TestResolver_IsPure(t *testing.T) {
	r := NewResolver(nil)
	rec := record.FromMap(map[string]any{"week": "Nov 09 - Nov 15", "year": 2025})

	first := r.Resolve(rec, now)
	second := r.Resolve(rec, now)
	assert.Equal(t, first, second)
	assert.Equal(t, map[string]any{"week": "Nov 09 - Nov 15", "year": 2025}, map[string]any(rec))
}

func TestNewResolverWithStrategies_AppendsFallback(t *testing.T) {
	r := NewResolverWithStrategies(nil, []Strategy{DefaultStrategies[1]})
	require.Len(t, r.strategies, 2)

	got, tier := r.ResolveWithSource(record.FromMap(map[string]any{"week": "Nov 09 - Nov 15"}), now)
	assert.Equal(t, "current_month", tier)
	assert.Equal(t, day(2025, time.November, 1), got.Start)
}

func TestDefaultStrategies_Order(t *testing.T) {
	names := make([]string, 0, len(DefaultStrategies))
	for _, s := range DefaultStrategies {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"week_string",
		"week_bounds",
		"timesheet_week_bounds",
		"line_item_dates",
		"date_bounds",
		"current_month",
	}, names)
}

func TestParseWeekRange(t *testing.T) {
	tests := []struct {
		in        string
		wantStart time.Time
		wantEnd   time.Time
		wantOK    bool
	}{
		{in: "Nov 09 - Nov 15", wantStart: day(2025, time.November, 9), wantEnd: day(2025, time.November, 15), wantOK: true},
		{in: "Nov 9 – 15", wantStart: day(2025, time.November, 9), wantEnd: day(2025, time.November, 15), wantOK: true},
		{in: "Nov 30 - Dec 6", wantStart: day(2025, time.November, 30), wantEnd: day(2025, time.December, 6), wantOK: true},
		{in: "Dec 29, 2024 - Jan 4, 2025", wantStart: day(2024, time.December, 29), wantEnd: day(2025, time.January, 4), wantOK: true},
		{in: "Feb 29 - Mar 6", wantOK: false},
		{in: "Nov 09", wantOK: false},
		{in: "2025-11-09 - 2025-11-15", wantOK: false},
		{in: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			start, end, ok := parseWeekRange(tt.in, 2025)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantStart, start)
				assert.Equal(t, tt.wantEnd, end)
			}
		})
	}
}
