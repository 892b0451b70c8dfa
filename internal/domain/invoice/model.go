package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingPeriod is the inclusive calendar range an invoice covers.
// Start and End are UTC midnight and Start is never after End.
type BillingPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewBillingPeriod truncates both bounds to calendar dates and reports
// false when end falls before start
func NewBillingPeriod(start, end time.Time) (BillingPeriod, bool) {
	p := BillingPeriod{Start: toDate(start), End: toDate(end)}
	if p.End.Before(p.Start) {
		return BillingPeriod{}, false
	}
	return p, true
}

func (p BillingPeriod) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// LineItem is the canonical shape every upstream line item is normalized into
type LineItem struct {
	EmployeeName string          `json:"employee_name"`
	Role         string          `json:"role"`
	PeriodLabel  string          `json:"period_label"`
	Hours        decimal.Decimal `json:"hours"`
	Rate         decimal.Decimal `json:"rate"`
	Total        decimal.Decimal `json:"total"`
	// TotalSupplied is set when Total came from the upstream record rather than hours*rate
	TotalSupplied bool `json:"total_supplied"`
}

// ComputedTotal is hours*rate at full precision
func (li LineItem) ComputedTotal() decimal.Decimal {
	return li.Hours.Mul(li.Rate)
}

// Party is either side of the invoice
type Party struct {
	Name      string `json:"name"`
	Attention string `json:"attention,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
	Website   string `json:"website,omitempty"`
}

type Metadata struct {
	InvoiceNumber string    `json:"invoice_number"`
	IssueDate     time.Time `json:"issue_date"`
	DueDate       time.Time `json:"due_date"`
	PaymentTerms  string    `json:"payment_terms"`
	Currency      string    `json:"currency"`
}

type Engagement struct {
	ProjectName string `json:"project_name"`
	Description string `json:"description"`
	Details     string `json:"details"`
}

type PaymentInstructions struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	RoutingNumber string `json:"routing_number"`
	SwiftCode     string `json:"swift_code"`
	PaymentMethod string `json:"payment_method"`
	Terms         string `json:"terms"`
}

type TaxPolicy struct {
	Exempt      bool            `json:"exempt"`
	RatePercent decimal.Decimal `json:"rate_percent"`
	ExemptNote  string          `json:"exempt_note"`
}

// Totals carries the raw amounts and their display forms, both derived from
// the same numbers by one formatter
type Totals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	SubtotalText string          `json:"subtotal_text"`
	TaxText      string          `json:"tax_text"`
	TotalText    string          `json:"total_text"`
}

// Draft is the canonical, fully computed invoice. It is built fresh per request
// and never patched: edits produce a new Draft with totals recomputed.
type Draft struct {
	Issuer       Party               `json:"issuer"`
	BillTo       Party               `json:"bill_to"`
	Metadata     Metadata            `json:"metadata"`
	Period       BillingPeriod       `json:"period"`
	Engagement   Engagement          `json:"engagement"`
	LineItems    []LineItem          `json:"line_items"`
	Payment      PaymentInstructions `json:"payment"`
	Tax          TaxPolicy           `json:"tax"`
	Totals       Totals              `json:"totals"`
	Logo         []byte              `json:"-"`
	ClosingNote  []string            `json:"closing_note"`
	SupportEmail string              `json:"support_email"`
}

// PrimaryEmployee is the first line item's employee, used for preview filenames
func (d *Draft) PrimaryEmployee() string {
	if d == nil || len(d.LineItems) == 0 {
		return ""
	}
	return d.LineItems[0].EmployeeName
}

func toDate(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
