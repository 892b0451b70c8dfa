// Package draft assembles an immutable invoice.Draft from an invoice-like
// record, the configured issuer defaults and a caller supplied clock.
package draft

import (
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/invoicedoc/internal/aggregate"
	"github.com/flexprice/invoicedoc/internal/config"
	"github.com/flexprice/invoicedoc/internal/domain/invoice"
	"github.com/flexprice/invoicedoc/internal/domain/record"
	"github.com/flexprice/invoicedoc/internal/format"
	"github.com/flexprice/invoicedoc/internal/lineitem"
	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/flexprice/invoicedoc/internal/period"
	"github.com/shopspring/decimal"
)

type Builder struct {
	cfg        *config.Configuration
	resolver   *period.Resolver
	normalizer *lineitem.Normalizer
	aggregator *aggregate.Aggregator
	logger     *logger.Logger
}

func NewBuilder(cfg *config.Configuration, log *logger.Logger) *Builder {
	if cfg == nil {
		cfg = config.GetDefaultConfig()
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Builder{
		cfg:        cfg,
		resolver:   period.NewResolver(log),
		normalizer: lineitem.NewNormalizer(log),
		aggregator: aggregate.NewAggregator(log),
		logger:     log,
	}
}

// Build derives a complete Draft from rec. It never fails: every missing or
// malformed field resolves to a configured default. now feeds the issue date,
// the default year and the month fallback of the billing period.
func (b *Builder) Build(rec record.Record, now time.Time) *invoice.Draft {
	if rec == nil {
		rec = record.Record{}
	}

	meta := b.metadata(rec, now)
	f := format.NewFormatter(meta.Currency)
	billingPeriod := b.resolver.Resolve(rec, now)
	items := b.normalizer.Normalize(rec)

	d := &invoice.Draft{
		Issuer:       b.issuer(rec),
		BillTo:       b.billTo(rec),
		Metadata:     meta,
		Period:       billingPeriod,
		LineItems:    items,
		Payment:      b.payment(rec, meta.PaymentTerms),
		Tax:          b.taxPolicy(rec),
		Logo:         b.logo(rec),
		ClosingNote:  append([]string(nil), b.cfg.Invoice.ClosingNote...),
		SupportEmail: b.cfg.Issuer.SupportEmail,
	}
	d.Engagement = b.engagement(rec, d)

	return b.finish(d, f)
}

// Rebuild applies edit to a copy of d and recomputes everything derived, so a
// changed line item or tax policy can never leave stale totals behind
func (b *Builder) Rebuild(d *invoice.Draft, edit func(*invoice.Draft)) *invoice.Draft {
	next := clone(d)
	previous := next.Period
	if edit != nil {
		edit(next)
	}
	if next.Period != previous {
		// labels derived from the old period would go stale
		stale := format.Default().Period(previous)
		for i := range next.LineItems {
			if next.LineItems[i].PeriodLabel == stale {
				next.LineItems[i].PeriodLabel = ""
			}
		}
	}
	if len(next.LineItems) == 0 {
		next.LineItems = []invoice.LineItem{b.normalizer.Synthesize(record.Record{})}
	}
	return b.finish(next, format.NewFormatter(next.Metadata.Currency))
}

func (b *Builder) finish(d *invoice.Draft, f *format.Formatter) *invoice.Draft {
	label := f.Period(d.Period)
	for i := range d.LineItems {
		if d.LineItems[i].PeriodLabel == "" {
			d.LineItems[i].PeriodLabel = label
		}
	}

	res := b.aggregator.Aggregate(d.LineItems, d.Tax, f)
	d.LineItems = res.LineItems
	d.Totals = res.Totals
	return d
}

func (b *Builder) metadata(rec record.Record, now time.Time) invoice.Metadata {
	issue, ok := b.date(rec, "issueDate", "invoiceDate")
	if !ok {
		issue = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	due, ok := b.date(rec, "dueDate")
	if !ok || due.Before(issue) {
		due = issue.AddDate(0, 0, b.cfg.Invoice.DueDays)
	}

	number := b.text(rec, "", "invoiceNumber", "invoice_number")
	if number == "" {
		number = b.fallbackNumber(rec, issue)
	}

	return invoice.Metadata{
		InvoiceNumber: number,
		IssueDate:     issue,
		DueDate:       due,
		PaymentTerms:  b.text(rec, b.cfg.Invoice.PaymentTerms, "paymentTerms"),
		Currency:      strings.ToLower(b.text(rec, b.cfg.Invoice.Currency, "currency")),
	}
}

// fallbackNumber mirrors the numbering of invoices that were never assigned one,
// e.g. INV-2025-0042
func (b *Builder) fallbackNumber(rec record.Record, issue time.Time) string {
	id := b.text(rec, "1", "id", "invoiceId")
	if len(id) < 4 {
		id = strings.Repeat("0", 4-len(id)) + id
	}
	return fmt.Sprintf("%s-%d-%s", b.cfg.Invoice.NumberPrefix, issue.Year(), id)
}

func (b *Builder) issuer(rec record.Record) invoice.Party {
	c := b.cfg.Issuer
	return invoice.Party{
		Name:    b.text(rec, c.Name, "companyName"),
		Address: b.text(rec, c.Address, "companyAddress"),
		City:    b.text(rec, c.City, "companyCity"),
		Email:   b.text(rec, c.Email, "companyEmail"),
		Phone:   b.text(rec, c.Phone, "companyPhone"),
		TaxID:   b.text(rec, c.TaxID, "taxId"),
		Website: b.text(rec, c.Website, "companyWebsite"),
	}
}

func (b *Builder) billTo(rec record.Record) invoice.Party {
	return invoice.Party{
		Name:      b.text(rec, b.cfg.Invoice.BillToName, "clientName", "vendorName", "vendor", "client.clientName", "client.name"),
		Attention: b.text(rec, b.cfg.Invoice.BillToAttn, "attention", "billToAttention"),
		Address:   b.text(rec, "", "vendorAddress", "client.address", "billToAddress"),
		City:      b.text(rec, "", "vendorCity", "client.city", "billToCity"),
		Email:     b.text(rec, "", "vendorEmail", "client.email", "billToEmail"),
	}
}

func (b *Builder) engagement(rec record.Record, d *invoice.Draft) invoice.Engagement {
	details := b.text(rec, "", "engagementDetails")
	if details == "" {
		details = fmt.Sprintf("%s working onsite for %s", d.PrimaryEmployee(), d.BillTo.Name)
	}
	return invoice.Engagement{
		ProjectName: b.text(rec, b.cfg.Invoice.ProjectName, "projectName"),
		Description: b.text(rec, b.cfg.Invoice.Description, "projectDescription"),
		Details:     details,
	}
}

func (b *Builder) payment(rec record.Record, terms string) invoice.PaymentInstructions {
	c := b.cfg.Payment
	return invoice.PaymentInstructions{
		BankName:      b.text(rec, c.BankName, "bankName"),
		AccountName:   b.text(rec, c.AccountName, "accountName"),
		AccountNumber: b.text(rec, c.AccountNumber, "accountNumber"),
		RoutingNumber: b.text(rec, c.RoutingNumber, "routingNumber"),
		SwiftCode:     b.text(rec, c.SwiftCode, "swiftCode"),
		PaymentMethod: b.text(rec, c.Method, "paymentMethod"),
		Terms:         terms,
	}
}

func (b *Builder) taxPolicy(rec record.Record) invoice.TaxPolicy {
	policy := invoice.TaxPolicy{
		Exempt:      b.cfg.Invoice.TaxExempt,
		RatePercent: decimal.NewFromFloat(b.cfg.Invoice.TaxRate),
		ExemptNote:  b.text(rec, b.cfg.Invoice.TaxNote, "taxNote"),
	}

	if v, ok := rec.Lookup("taxExempt"); ok {
		if exempt, ok := record.Bool(v); ok {
			policy.Exempt = exempt
		} else {
			b.logger.Warnw("ignoring malformed taxExempt flag", "value", fmt.Sprintf("%v", v))
		}
	}

	for _, f := range rec.Candidates("taxRate", "salesTax") {
		rate, ok := record.Number(f.Value)
		if !ok || rate.IsNegative() {
			b.logger.Warnw("ignoring malformed tax rate", "alias", f.Alias, "value", fmt.Sprintf("%v", f.Value))
			continue
		}
		policy.RatePercent = rate
		break
	}
	return policy
}

// logo keeps the raw companyLogo payload; decoding happens at render time
func (b *Builder) logo(rec record.Record) []byte {
	v, ok := rec.Lookup("companyLogo", "logo")
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []byte:
		return t
	case string:
		return []byte(t)
	default:
		b.logger.Warnw("ignoring non string company logo")
		return nil
	}
}

// text resolves a printable string field; objects and lists become the
// placeholder so nothing like a map dump reaches the document
func (b *Builder) text(rec record.Record, def string, aliases ...string) string {
	fields := rec.Candidates(aliases...)
	if len(fields) == 0 {
		return def
	}
	s, ok := record.Text(fields[0].Value)
	if !ok {
		b.logger.Warnw("replacing non printable invoice field", "alias", fields[0].Alias, "placeholder", lineitem.Placeholder)
		return lineitem.Placeholder
	}
	return s
}

func (b *Builder) date(rec record.Record, aliases ...string) (time.Time, bool) {
	for _, f := range rec.Candidates(aliases...) {
		if d, ok := record.Date(f.Value); ok {
			return d, true
		}
		b.logger.Warnw("ignoring malformed date", "alias", f.Alias, "value", fmt.Sprintf("%v", f.Value))
	}
	return time.Time{}, false
}

func clone(d *invoice.Draft) *invoice.Draft {
	if d == nil {
		return &invoice.Draft{}
	}
	next := *d
	next.LineItems = append([]invoice.LineItem(nil), d.LineItems...)
	next.ClosingNote = append([]string(nil), d.ClosingNote...)
	next.Logo = append([]byte(nil), d.Logo...)
	return &next
}
