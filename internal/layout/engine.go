// Package layout turns a finished invoice draft into a paginated, renderer
// independent document. Every section has a fixed height so the page count is
// known from the number of line items alone.
package layout

import (
	"fmt"
	"strings"

	"github.com/flexprice/invoicedoc/internal/domain/invoice"
	"github.com/flexprice/invoicedoc/internal/format"
	"github.com/samber/lo"
)

// Section heights in millimetres
const (
	HeaderHeight      = 36.0
	PartiesHeight     = 40.0
	MetadataHeight    = 29.0
	PeriodHeight      = 7.0
	EngagementHeight  = 12.0
	TableHeaderHeight = 8.0
	TableRowHeight    = 7.0
	TotalsHeight      = 35.0
	PaymentHeight     = 34.0
	ClosingNoteHeight = 28.0
	FooterHeight      = 10.0

	lineStep = 5.0
)

// Line item table column widths; the billing period column takes the rest
const (
	ColEmployeeWidth = 52.0
	ColHoursWidth    = 20.0
	ColRateWidth     = 28.0
	ColTotalWidth    = 30.0
)

const (
	Title    = "INVOICE"
	Subtitle = "Staffing Services Invoice"
)

var (
	fontFamily = "Helvetica"

	fontTitle    = Font{Family: fontFamily, Style: "B", Size: 24}
	fontSubtitle = Font{Family: fontFamily, Size: 10}
	fontHeading  = Font{Family: fontFamily, Style: "B", Size: 10}
	fontLabel    = Font{Family: fontFamily, Style: "B", Size: 8}
	fontBody     = Font{Family: fontFamily, Size: 9}
	fontBodyBold = Font{Family: fontFamily, Style: "B", Size: 9}
	fontNote     = Font{Family: fontFamily, Style: "I", Size: 8}
	fontTotal    = Font{Family: fontFamily, Style: "B", Size: 12}
)

// preTable and postTable are the fixed sections around the line item table
var (
	preTable = []struct {
		section Section
		height  float64
	}{
		{SectionHeader, HeaderHeight},
		{SectionParties, PartiesHeight},
		{SectionMetadata, MetadataHeight},
		{SectionPeriod, PeriodHeight},
		{SectionEngagement, EngagementHeight},
	}
	postTable = []struct {
		section Section
		height  float64
	}{
		{SectionTotals, TotalsHeight},
		{SectionPayment, PaymentHeight},
		{SectionClosingNote, ClosingNoteHeight},
		{SectionFooter, FooterHeight},
	}
)

type Engine struct {
	page      PageSpec
	formatter *format.Formatter
}

type Option func(*Engine)

// WithFormatter pins the formatter; by default one is made per draft currency
func WithFormatter(f *format.Formatter) Option {
	return func(e *Engine) { e.formatter = f }
}

func WithPage(p PageSpec) Option {
	return func(e *Engine) { e.page = p }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{page: A4}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Page() PageSpec {
	return e.page
}

// PlanPages returns the number of pages a draft with rowCount line items
// occupies, without laying anything out
func (e *Engine) PlanPages(rowCount int) int {
	if rowCount < 1 {
		rowCount = 1
	}
	top, bottom := e.page.ContentTop(), e.page.ContentBottom()
	pages, y := 1, top

	advance := func(h float64) {
		if y+h > bottom {
			pages++
			y = top
		}
		y += h
	}

	for _, s := range preTable {
		advance(s.height)
	}

	if y+TableHeaderHeight+TableRowHeight > bottom {
		pages++
		y = top
	}
	firstPage := int((bottom - y - TableHeaderHeight) / TableRowHeight)
	if rowCount <= firstPage {
		y += TableHeaderHeight + float64(rowCount)*TableRowHeight
	} else {
		perPage := int((bottom - top - TableHeaderHeight) / TableRowHeight)
		rest := rowCount - firstPage
		extra := (rest + perPage - 1) / perPage
		pages += extra
		onLast := rest - (extra-1)*perPage
		y = top + TableHeaderHeight + float64(onLast)*TableRowHeight
	}

	for _, s := range postTable {
		advance(s.height)
	}
	return pages
}

// Render lays d out. It is pure: the same draft yields an equal document.
func (e *Engine) Render(d *invoice.Draft) *Document {
	f := e.formatter
	if f == nil {
		f = format.NewFormatter(d.Metadata.Currency)
	}

	c := newCursor(e.page)
	doc := &Document{
		Page: e.page,
		Metadata: Metadata{
			Title:           fmt.Sprintf("Invoice %s", d.Metadata.InvoiceNumber),
			Author:          d.Issuer.Name,
			Subject:         strings.TrimSpace(fmt.Sprintf("%s %s", d.BillTo.Name, f.Period(d.Period))),
			InvoiceNumber:   d.Metadata.InvoiceNumber,
			PrimaryEmployee: d.PrimaryEmployee(),
			CreatedAt:       d.Metadata.IssueDate,
		},
	}

	r := &renderer{page: e.page, cursor: c, doc: doc, f: f, d: d}
	r.header()
	r.parties()
	r.metadata()
	r.period()
	r.engagement()
	r.table()
	r.totals()
	r.payment()
	r.closingNote()
	r.footer()

	doc.Pages = c.pages
	return doc
}

type renderer struct {
	page   PageSpec
	cursor *cursor
	doc    *Document
	f      *format.Formatter
	d      *invoice.Draft
}

// begin reserves h for a fixed section and returns its top
func (r *renderer) begin(s Section, h float64) float64 {
	r.cursor.ensure(h)
	r.mark(s)
	y := r.cursor.y
	r.cursor.y += h
	return y
}

func (r *renderer) mark(s Section) {
	r.doc.Sections = append(r.doc.Sections, SectionMark{Section: s, Page: r.cursor.pageIndex(), Y: r.cursor.y})
}

func (r *renderer) text(x, y, w, h float64, s string, font Font, color Color, align Align) {
	if s == "" {
		return
	}
	r.cursor.add(&TextBlock{
		Box:   Box{X: x, Y: y, W: w, H: h},
		Text:  Fit(s, w, font),
		Font:  font,
		Color: color,
		Align: align,
	})
}

func (r *renderer) header() {
	y := r.begin(SectionHeader, HeaderHeight)
	left, width := r.page.ContentLeft(), r.page.ContentWidth()

	if len(r.d.Logo) > 0 {
		r.cursor.add(&ImageBlock{Box: Box{X: left, Y: y, W: 30, H: 20}, Name: "logo", Data: r.d.Logo})
	} else {
		r.text(left, y+4, width/2, 8, r.d.Issuer.Name, Font{Family: fontFamily, Style: "B", Size: 14}, ColorPrimary, AlignLeft)
	}

	r.text(left, y+2, width, 12, Title, fontTitle, ColorPrimary, AlignRight)
	r.text(left, y+15, width, 6, Subtitle, fontSubtitle, ColorMuted, AlignRight)
	r.cursor.add(&LineBlock{X1: left, Y1: y + 30, X2: r.page.ContentRight(), Y2: y + 30, Color: ColorPrimary, Width: 0.8})
}

func (r *renderer) parties() {
	y := r.begin(SectionParties, PartiesHeight)
	colWidth := r.page.Width/2 - 10 - r.page.Margin
	leftX := r.page.ContentLeft()
	rightX := r.page.Width/2 + 10

	issuer := r.d.Issuer
	r.column(leftX, y, colWidth, "From:", issuer.Name, []string{
		issuer.Address,
		issuer.City,
		joinNonEmpty(" | ", issuer.Phone, issuer.Email),
		prefixed("Tax ID: ", issuer.TaxID),
	})

	billTo := r.d.BillTo
	r.column(rightX, y, colWidth, "Billed To:", billTo.Name, []string{
		prefixed("Attn: ", billTo.Attention),
		billTo.Address,
		billTo.City,
		billTo.Email,
	})
}

// column stacks a heading, a bold name and up to five detail lines at lineStep increments
func (r *renderer) column(x, y, w float64, heading, name string, lines []string) {
	r.text(x, y, w, lineStep, heading, fontLabel, ColorMuted, AlignLeft)
	r.text(x, y+lineStep, w, lineStep, name, fontHeading, ColorText, AlignLeft)

	maxLines := int((PartiesHeight-2*lineStep)/lineStep) - 1
	ly := y + 2*lineStep
	for _, line := range lines {
		if line == "" || maxLines == 0 {
			continue
		}
		r.text(x, ly, w, lineStep, line, fontBody, ColorText, AlignLeft)
		ly += lineStep
		maxLines--
	}
}

func (r *renderer) metadata() {
	y := r.begin(SectionMetadata, MetadataHeight)
	left, width := r.page.ContentLeft(), r.page.ContentWidth()

	r.cursor.add(&RectBlock{Box: Box{X: left, Y: y + 2, W: width, H: 20}, Fill: &ColorBand})

	colWidth := width / 3
	cells := []struct{ label, value string }{
		{"Invoice Number", r.d.Metadata.InvoiceNumber},
		{"Invoice Date", r.f.Date(r.d.Metadata.IssueDate)},
		{"Due Date", r.f.Date(r.d.Metadata.DueDate)},
	}
	for i, cell := range cells {
		x := left + float64(i)*colWidth
		r.text(x+2, y+5, colWidth-4, 5, cell.label, fontLabel, ColorMuted, AlignLeft)
		r.text(x+2, y+11, colWidth-4, 7, cell.value, fontHeading, ColorText, AlignLeft)
	}

	r.text(left, y+23, width, 5, prefixed("Payment Terms: ", r.d.Metadata.PaymentTerms), fontBody, ColorText, AlignLeft)
}

func (r *renderer) period() {
	y := r.begin(SectionPeriod, PeriodHeight)
	r.text(r.page.ContentLeft(), y+1, r.page.ContentWidth(), 5,
		"Billing Period: "+r.f.Period(r.d.Period), fontBodyBold, ColorText, AlignLeft)
}

func (r *renderer) engagement() {
	y := r.begin(SectionEngagement, EngagementHeight)
	left, width := r.page.ContentLeft(), r.page.ContentWidth()
	e := r.d.Engagement

	r.text(left, y, width, lineStep, "Engagement: "+joinNonEmpty(" - ", e.ProjectName, e.Description), fontBody, ColorText, AlignLeft)
	r.text(left, y+lineStep, width, lineStep, e.Details, fontNote, ColorMuted, AlignLeft)
}

// Columns returns the line item table columns for a currency code
func Columns(page PageSpec, currencyCode string) []Column {
	periodWidth := page.ContentWidth() - ColEmployeeWidth - ColHoursWidth - ColRateWidth - ColTotalWidth
	return []Column{
		{Title: "Employee (Role)", Width: ColEmployeeWidth, Align: AlignLeft},
		{Title: "Billing Period", Width: periodWidth, Align: AlignLeft},
		{Title: "Hours", Width: ColHoursWidth, Align: AlignCenter},
		{Title: fmt.Sprintf("Rate (%s)", currencyCode), Width: ColRateWidth, Align: AlignRight},
		{Title: fmt.Sprintf("Total (%s)", currencyCode), Width: ColTotalWidth, Align: AlignRight, Bold: true},
	}
}

func (r *renderer) table() {
	columns := Columns(r.page, r.f.CurrencyCode())
	rows := r.rows(columns)

	r.cursor.ensure(TableHeaderHeight + TableRowHeight)
	r.mark(SectionLineItems)

	chunk := r.newChunk(columns, 0)
	for i, row := range rows {
		if !r.cursor.fits(TableRowHeight) {
			r.cursor.newPage()
			chunk = r.newChunk(columns, i)
		}
		chunk.Rows = append(chunk.Rows, row)
		r.cursor.y += TableRowHeight
	}
}

// newChunk starts the table on the current page with its header row
func (r *renderer) newChunk(columns []Column, firstRow int) *TableBlock {
	t := &TableBlock{
		X:            r.page.ContentLeft(),
		Y:            r.cursor.y,
		Columns:      columns,
		FirstRow:     firstRow,
		HeaderHeight: TableHeaderHeight,
		RowHeight:    TableRowHeight,
		HeaderFont:   fontBodyBold,
		BodyFont:     fontBody,
		HeaderFill:   ColorPrimary,
		HeaderColor:  ColorWhite,
		StripeFill:   ColorStripe,
		TextColor:    ColorText,
	}
	r.cursor.add(t)
	r.cursor.y += TableHeaderHeight
	return t
}

func (r *renderer) rows(columns []Column) [][]string {
	items := r.d.LineItems
	if len(items) == 0 {
		items = []invoice.LineItem{{}}
	}

	rows := make([][]string, 0, len(items))
	for _, li := range items {
		cells := []string{
			employeeCell(li),
			li.PeriodLabel,
			r.f.Hours(li.Hours),
			r.f.Currency(li.Rate),
			r.f.Currency(li.Total),
		}
		for i, col := range columns {
			font := fontBody
			if col.Bold {
				font = fontBodyBold
			}
			cells[i] = Fit(cells[i], col.Width, font)
		}
		rows = append(rows, cells)
	}
	return rows
}

func employeeCell(li invoice.LineItem) string {
	if li.Role == "" {
		return li.EmployeeName
	}
	return fmt.Sprintf("%s (%s)", li.EmployeeName, li.Role)
}

func (r *renderer) totals() {
	y := r.begin(SectionTotals, TotalsHeight)
	boxWidth := 80.0
	x := r.page.ContentRight() - boxWidth
	labelWidth, valueWidth := 30.0, boxWidth-30.0

	t := r.d.Totals
	taxLabel := "Tax:"
	taxFont := fontBody
	if r.d.Tax.Exempt {
		taxFont = fontNote
	} else if r.d.Tax.RatePercent.IsPositive() {
		taxLabel = fmt.Sprintf("Tax (%s):", r.f.Percent(r.d.Tax.RatePercent))
	}

	r.text(x, y+5, labelWidth, 6, "Subtotal:", fontBody, ColorText, AlignLeft)
	r.text(x+labelWidth, y+5, valueWidth, 6, t.SubtotalText, fontBody, ColorText, AlignRight)
	r.text(x, y+11, labelWidth, 6, taxLabel, fontBody, ColorText, AlignLeft)
	r.text(x+labelWidth, y+11, valueWidth, 6, t.TaxText, taxFont, ColorText, AlignRight)
	r.cursor.add(&LineBlock{X1: x, Y1: y + 19, X2: x + boxWidth, Y2: y + 19, Color: ColorPrimary, Width: 0.5})
	r.text(x, y+22, boxWidth, 8, fmt.Sprintf("Total Due: %s %s", t.TotalText, r.f.CurrencyCode()), fontTotal, ColorPrimary, AlignRight)
}

func (r *renderer) payment() {
	y := r.begin(SectionPayment, PaymentHeight)
	left, width := r.page.ContentLeft(), r.page.ContentWidth()
	p := r.d.Payment

	r.cursor.add(&RectBlock{Box: Box{X: left, Y: y + 2, W: width, H: 30}, Fill: &ColorBand})
	r.text(left+5, y+4, width-10, lineStep, "Remit Payment To:", fontHeading, ColorPrimary, AlignLeft)

	colWidth := (width - 10) / 2
	leftLines := []string{
		prefixed("Bank: ", p.BankName),
		prefixed("Account Name: ", p.AccountName),
		prefixed("Account Number: ", p.AccountNumber),
	}
	rightLines := []string{
		prefixed("Routing Number: ", p.RoutingNumber),
		prefixed("SWIFT Code: ", p.SwiftCode),
		prefixed("Payment Method: ", p.PaymentMethod),
	}
	for i := range leftLines {
		ly := y + 10 + float64(i)*lineStep
		r.text(left+5, ly, colWidth, lineStep, leftLines[i], fontBody, ColorText, AlignLeft)
		r.text(left+5+colWidth, ly, colWidth, lineStep, rightLines[i], fontBody, ColorText, AlignLeft)
	}
	r.text(left+5, y+25, width-10, lineStep, prefixed("Terms: ", p.Terms), fontBodyBold, ColorText, AlignLeft)
}

func (r *renderer) closingNote() {
	y := r.begin(SectionClosingNote, ClosingNoteHeight)
	left, width := r.page.ContentLeft(), r.page.ContentWidth()

	r.cursor.add(&RectBlock{Box: Box{X: left, Y: y + 2, W: width, H: 24}, Border: &ColorBorder, LineWidth: 0.3})
	r.text(left+5, y+4, width-10, lineStep, "NOTE:", fontBodyBold, ColorPrimary, AlignLeft)

	ly := y + 4 + lineStep
	for _, line := range lo.Slice(r.d.ClosingNote, 0, 2) {
		r.text(left+5, ly, width-10, lineStep, line, fontNote, ColorText, AlignLeft)
		ly += lineStep
	}
	r.text(left+5, y+19, width-10, lineStep, prefixed("Questions? Contact ", r.d.SupportEmail), fontNote, ColorMuted, AlignLeft)
}

func (r *renderer) footer() {
	y := r.begin(SectionFooter, FooterHeight)
	left, width := r.page.ContentLeft(), r.page.ContentWidth()

	r.cursor.add(&LineBlock{X1: left, Y1: y + 1, X2: r.page.ContentRight(), Y2: y + 1, Color: ColorBorder, Width: 0.2})
	r.text(left, y+2, width, 4, r.d.Issuer.Name, fontLabel, ColorText, AlignCenter)
	r.text(left, y+6, width, 4, joinNonEmpty(" | ", r.d.Issuer.Website, r.d.SupportEmail), fontNote, ColorMuted, AlignCenter)
}

func prefixed(prefix, value string) string {
	if value == "" {
		return ""
	}
	return prefix + value
}

func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(lo.Compact(parts), sep)
}
