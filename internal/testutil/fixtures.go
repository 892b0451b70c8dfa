package testutil

import (
	"time"

	"github.com/flexprice/invoicedoc/internal/domain/record"
)

// FixedNow is the clock used by fixtures, a Thursday in November 2025
var FixedNow = time.Date(2025, time.November, 20, 10, 30, 0, 0, time.UTC)

// SingleEmployeeRecord is the flat, one employee shape the timesheet app sends
func SingleEmployeeRecord() record.Record {
	return record.Record{
		"invoiceNumber": "INV-2025-0042",
		"employeeName":  "J. Doe",
		"role":          "Software Engineer",
		"hours":         40,
		"hourlyRate":    50,
		"taxExempt":     true,
		"week":          "Nov 09 - Nov 15",
		"year":          2025,
		"clientName":    "Acme Corporation",
	}
}

// MultiLineRecord carries an explicit line item list with mixed aliases
func MultiLineRecord() record.Record {
	return record.Record{
		"invoiceNumber": "INV-2025-0100",
		"issueDate":     "2025-11-16",
		"currency":      "usd",
		"weekStart":     "2025-11-09",
		"weekEnd":       "2025-11-15",
		"lineItems": []any{
			map[string]any{"employeeName": "Jane Roe", "position": "QA Engineer", "hoursWorked": 32, "rate": 45},
			map[string]any{"employee": "John Poe", "title": "Architect", "quantity": 10, "unitPrice": "120.50"},
			map[string]any{"employeeName": "Ann Loe", "hours": 8, "billRate": 60, "amount": 480},
		},
		"taxExempt": false,
		"taxRate":   8,
	}
}

// ManyRowsRecord has n line items, enough to push the table across pages
func ManyRowsRecord(n int) record.Record {
	items := make([]any, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, map[string]any{
			"employeeName": "Employee",
			"role":         "Engineer",
			"hours":        1,
			"rate":         10,
		})
	}
	return record.Record{
		"invoiceNumber": "INV-2025-0500",
		"lineItems":     items,
		"taxExempt":     true,
	}
}

// MalformedRecord exercises every silent fallback
func MalformedRecord() record.Record {
	return record.Record{
		"employeeName": map[string]any{},
		"hours":        "abc",
		"hourlyRate":   -5,
		"issueDate":    "not a date",
		"lineItems":    "[not json",
		"companyLogo":  "data:image/png;base64,AAAA",
	}
}
