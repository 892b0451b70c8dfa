package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var pst = time.FixedZone("PST", -8*60*60)

func TestToCalendarDate(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "utc midday",
			in:   time.Date(2025, time.November, 9, 13, 45, 0, 0, time.UTC),
			want: time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "late evening in PST keeps the local day",
			in:   time.Date(2025, time.November, 9, 23, 30, 0, 0, pst),
			want: time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(ToCalendarDate(tt.in)))
		})
	}
}

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		name      string
		in        time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "thirty day month",
			in:        time.Date(2025, time.November, 17, 8, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "leap february",
			in:        time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "december rolls the year for the month end only",
			in:        time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.wantStart.Equal(StartOfMonth(tt.in)), "start")
			assert.True(t, tt.wantEnd.Equal(EndOfMonth(tt.in)), "end")
		})
	}
}

func TestGetCurrencySymbol(t *testing.T) {
	assert.Equal(t, "$", GetCurrencySymbol("USD"))
	assert.Equal(t, "$", GetCurrencySymbol(""))
	assert.Equal(t, "€", GetCurrencySymbol("eur"))
	assert.Equal(t, "XYZ ", GetCurrencySymbol("xyz"))
}
