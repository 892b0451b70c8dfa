package layout

import "time"

// Units are millimetres, origin top-left
type PageSpec struct {
	Size        string  `json:"size"`
	Orientation string  `json:"orientation"`
	Unit        string  `json:"unit"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Margin      float64 `json:"margin"`
}

func (p PageSpec) ContentTop() float64    { return p.Margin }
func (p PageSpec) ContentBottom() float64 { return p.Height - p.Margin }
func (p PageSpec) ContentLeft() float64   { return p.Margin }
func (p PageSpec) ContentRight() float64  { return p.Width - p.Margin }
func (p PageSpec) ContentWidth() float64  { return p.Width - 2*p.Margin }

// A4 portrait
var A4 = PageSpec{
	Size:        "A4",
	Orientation: "P",
	Unit:        "mm",
	Width:       210,
	Height:      297,
	Margin:      15,
}

type Section string

const (
	SectionHeader      Section = "header"
	SectionParties     Section = "parties"
	SectionMetadata    Section = "metadata"
	SectionPeriod      Section = "billing_period"
	SectionEngagement  Section = "engagement"
	SectionLineItems   Section = "line_items"
	SectionTotals      Section = "totals"
	SectionPayment     Section = "payment"
	SectionClosingNote Section = "closing_note"
	SectionFooter      Section = "footer"
)

// SectionOrder is the fixed top to bottom order of a document
var SectionOrder = []Section{
	SectionHeader,
	SectionParties,
	SectionMetadata,
	SectionPeriod,
	SectionEngagement,
	SectionLineItems,
	SectionTotals,
	SectionPayment,
	SectionClosingNote,
	SectionFooter,
}

// SectionMark records where a section started. Page is zero based.
type SectionMark struct {
	Section Section `json:"section"`
	Page    int     `json:"page"`
	Y       float64 `json:"y"`
}

// Metadata is carried to the renderer for document properties and filenames
type Metadata struct {
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Subject         string    `json:"subject"`
	InvoiceNumber   string    `json:"invoice_number"`
	PrimaryEmployee string    `json:"primary_employee"`
	CreatedAt       time.Time `json:"created_at"`
}

type Page struct {
	Number int     `json:"number"`
	Blocks []Block `json:"blocks"`
}

// Document is the renderer independent description of an invoice
type Document struct {
	Page     PageSpec      `json:"page"`
	Pages    []Page        `json:"pages"`
	Sections []SectionMark `json:"sections"`
	Metadata Metadata      `json:"metadata"`
}

// SectionNames lists sections in emission order, for comparing two documents
func (d *Document) SectionNames() []Section {
	names := make([]Section, 0, len(d.Sections))
	for _, s := range d.Sections {
		names = append(names, s.Section)
	}
	return names
}

// Tables returns every table chunk in page order
func (d *Document) Tables() []*TableBlock {
	var tables []*TableBlock
	for _, p := range d.Pages {
		for _, b := range p.Blocks {
			if t, ok := b.(*TableBlock); ok {
				tables = append(tables, t)
			}
		}
	}
	return tables
}
