package lineitem_test

import (
	"testing"

	"github.com/flexprice/invoicedoc/internal/domain/record"
	"github.com/flexprice/invoicedoc/internal/lineitem"
	"github.com/flexprice/invoicedoc/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNormalize_AliasChains(t *testing.T) {
	n := lineitem.NewNormalizer(nil)

	tests := []struct {
		name          string
		item          map[string]any
		rec           map[string]any
		wantHours     string
		wantRate      string
		wantTotal     string
		wantSupplied  bool
		wantEmployee  string
		wantRole      string
		wantPeriodLbl string
	}{
		{
			name:         "quantity and hourly rate",
			item:         map[string]any{"quantity": 10, "hourlyRate": 20},
			wantHours:    "10",
			wantRate:     "20",
			wantTotal:    "200",
			wantEmployee: "Employee Name",
			wantRole:     "Software Engineer",
		},
		{
			name:         "first alias wins over later ones",
			item:         map[string]any{"hours": "8", "hoursWorked": 40, "rate": 100, "hourlyRate": 1},
			wantHours:    "8",
			wantRate:     "100",
			wantTotal:    "800",
			wantEmployee: "Employee Name",
			wantRole:     "Software Engineer",
		},
		{
			name:         "malformed value skips to the next alias",
			item:         map[string]any{"hours": "abc", "totalHours": 12.5, "billRate": "$40"},
			wantHours:    "12.5",
			wantRate:     "40",
			wantTotal:    "500",
			wantEmployee: "Employee Name",
			wantRole:     "Software Engineer",
		},
		{
			name:         "record level fallbacks",
			item:         map[string]any{"employee": "A. Roe"},
			rec:          map[string]any{"totalHours": 30, "hourlyRate": 55, "position": "QA Engineer", "total": 999},
			wantHours:    "30",
			wantRate:     "55",
			wantTotal:    "1650",
			wantEmployee: "A. Roe",
			wantRole:     "QA Engineer",
		},
		{
			name:          "supplied amount is kept and marked",
			item:          map[string]any{"hours": 10, "rate": 20, "amount": "150", "title": "Lead", "description": "Week 46"},
			wantHours:     "10",
			wantRate:      "20",
			wantTotal:     "150",
			wantSupplied:  true,
			wantEmployee:  "Employee Name",
			wantRole:      "Lead",
			wantPeriodLbl: "Week 46",
		},
		{
			name:         "negative hours clamp to zero",
			item:         map[string]any{"hours": -5, "rate": 20},
			wantHours:    "0",
			wantRate:     "20",
			wantTotal:    "0",
			wantEmployee: "Employee Name",
			wantRole:     "Software Engineer",
		},
		{
			name:         "bools are not numbers",
			item:         map[string]any{"hours": true, "quantity": 3, "rate": 2},
			wantHours:    "3",
			wantRate:     "2",
			wantTotal:    "6",
			wantEmployee: "Employee Name",
			wantRole:     "Software Engineer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.NormalizeItem(record.FromMap(tt.item), record.FromMap(tt.rec))
			assert.True(t, dec(tt.wantHours).Equal(got.Hours), "hours %s", got.Hours)
			assert.True(t, dec(tt.wantRate).Equal(got.Rate), "rate %s", got.Rate)
			assert.True(t, dec(tt.wantTotal).Equal(got.Total), "total %s", got.Total)
			assert.Equal(t, tt.wantSupplied, got.TotalSupplied)
			assert.Equal(t, tt.wantEmployee, got.EmployeeName)
			assert.Equal(t, tt.wantRole, got.Role)
			assert.Equal(t, tt.wantPeriodLbl, got.PeriodLabel)
		})
	}
}

func TestNormalize_MalformedItemNeverFails(t *testing.T) {
	log, logs := testutil.NewObservedLogger()
	n := lineitem.NewNormalizer(log)

	rec := record.FromMap(map[string]any{
		"lineItems": []any{map[string]any{"employeeName": map[string]any{}, "hours": "abc"}},
	})

	items := n.Normalize(rec)
	require.Len(t, items, 1)
	assert.Equal(t, "N/A", items[0].EmployeeName)
	assert.True(t, items[0].Hours.IsZero())
	assert.True(t, items[0].Total.IsZero())

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 2)
	fields := []string{
		warnings[0].ContextMap()["field"].(string),
		warnings[1].ContextMap()["field"].(string),
	}
	assert.ElementsMatch(t, []string{"hours", "employeeName"}, fields)
}

func TestNormalize_OutOfRangeNumbersAreMalformed(t *testing.T) {
	log, logs := testutil.NewObservedLogger()
	n := lineitem.NewNormalizer(log)

	rec, err := record.Parse([]byte(`{"lineItems": [
		{"hours": "1e-9999999", "hourlyRate": 1},
		{"hours": "1e9999999", "totalHours": 8, "rate": 25}
	]}`))
	require.NoError(t, err)

	items := n.Normalize(rec)
	require.Len(t, items, 2)

	assert.True(t, items[0].Hours.IsZero())
	assert.True(t, items[0].Total.IsZero())

	assert.True(t, dec("8").Equal(items[1].Hours))
	assert.True(t, dec("200").Equal(items[1].Total))

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).FilterField(zap.String("field", "hours")).All()
	assert.Len(t, warnings, 2)
}

func TestNormalize_TotalMatchesRoundedProduct(t *testing.T) {
	n := lineitem.NewNormalizer(nil)
	rec := record.FromMap(map[string]any{"lineItems": []any{
		map[string]any{"hours": "37.5", "rate": "48.333"},
		map[string]any{"hours": "0.1", "rate": "0.2"},
		map[string]any{"hours": 40, "rate": "61.125"},
	}})

	for _, item := range n.Normalize(rec) {
		require.False(t, item.TotalSupplied)
		assert.True(t, item.Hours.Mul(item.Rate).Round(2).Equal(item.Total.Round(2)))
	}
}

func TestNormalize_EmptyListSynthesisesOneItem(t *testing.T) {
	n := lineitem.NewNormalizer(nil)

	for name, items := range map[string]any{
		"absent":      nil,
		"empty array": []any{},
		"bad string":  "not json",
		"empty str":   "[]",
	} {
		t.Run(name, func(t *testing.T) {
			m := map[string]any{"employeeName": "J. Doe", "hours": 40, "hourlyRate": 50, "taxExempt": true}
			if items != nil {
				m["lineItems"] = items
			}
			got := n.Normalize(record.FromMap(m))
			require.Len(t, got, 1)
			assert.Equal(t, "J. Doe", got[0].EmployeeName)
			assert.True(t, dec("40").Equal(got[0].Hours))
			assert.True(t, dec("50").Equal(got[0].Rate))
			assert.True(t, dec("2000").Equal(got[0].Total))
			assert.False(t, got[0].TotalSupplied)
		})
	}
}

func TestSynthesize_UsesRecordTotalAliases(t *testing.T) {
	n := lineitem.NewNormalizer(nil)
	got := n.Synthesize(record.FromMap(map[string]any{"hours": 10, "rate": 10, "totalAmount": "100.50"}))
	assert.True(t, dec("100.50").Equal(got.Total))
	assert.True(t, got.TotalSupplied)
}

func TestNormalize_KeepsUpstreamOrder(t *testing.T) {
	n := lineitem.NewNormalizer(nil)
	rec, err := record.Parse([]byte(`{"lineItems": "[{\"employeeName\":\"B\"},{\"employeeName\":\"A\"},{\"employeeName\":\"C\"}]"}`))
	require.NoError(t, err)

	items := n.Normalize(rec)
	require.Len(t, items, 3)
	assert.Equal(t, "B", items[0].EmployeeName)
	assert.Equal(t, "A", items[1].EmployeeName)
	assert.Equal(t, "C", items[2].EmployeeName)
}

func TestChains_AreDeclaredInPrecedenceOrder(t *testing.T) {
	assert.Equal(t, []string{"hours", "hoursWorked", "quantity", "totalHours"}, lineitem.HoursChain.ItemAliases)
	assert.Equal(t, []string{"rate", "hourlyRate", "unitPrice", "billRate"}, lineitem.RateChain.ItemAliases)
	assert.Equal(t, []string{"amount", "total"}, lineitem.TotalChain.ItemAliases)
	assert.Equal(t, "Employee Name", lineitem.EmployeeNameChain.Default)
	assert.Equal(t, "Software Engineer", lineitem.RoleChain.Default)
}
