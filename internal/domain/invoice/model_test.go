package invoice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBillingPeriod(t *testing.T) {
	start := time.Date(2025, time.November, 9, 15, 4, 5, 0, time.UTC)
	end := time.Date(2025, time.November, 15, 1, 0, 0, 0, time.UTC)

	p, ok := NewBillingPeriod(start, end)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2025, time.November, 15, 0, 0, 0, 0, time.UTC), p.End)

	_, ok = NewBillingPeriod(end, start)
	assert.False(t, ok)

	p, ok = NewBillingPeriod(start, start.Add(time.Hour))
	require.True(t, ok, "same calendar day is a valid one day period")
	assert.Equal(t, p.Start, p.End)
}

func TestLineItem_ComputedTotal(t *testing.T) {
	li := LineItem{Hours: decimal.RequireFromString("37.5"), Rate: decimal.RequireFromString("48.33")}
	assert.True(t, decimal.RequireFromString("1812.375").Equal(li.ComputedTotal()))
}

func TestDraft_PrimaryEmployee(t *testing.T) {
	var d *Draft
	assert.Empty(t, d.PrimaryEmployee())

	d = &Draft{LineItems: []LineItem{{EmployeeName: "J. Doe"}, {EmployeeName: "A. Roe"}}}
	assert.Equal(t, "J. Doe", d.PrimaryEmployee())
}
