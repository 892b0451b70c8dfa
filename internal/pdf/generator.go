package pdf

import (
	"bytes"
	"context"
	"fmt"
	"time"

	ierr "github.com/flexprice/invoicedoc/internal/errors"
	"github.com/flexprice/invoicedoc/internal/layout"
	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/jung-kurt/gofpdf"
)

const creator = "invoicedoc"

// Generator defines the interface for PDF generation operations
type Generator interface {
	RenderDocument(ctx context.Context, doc *layout.Document) ([]byte, error)
}

type service struct {
	logger *logger.Logger
}

// NewGenerator creates a new PDF generator. Each call to RenderDocument builds
// a fresh gofpdf document so concurrent renders share nothing.
func NewGenerator(log *logger.Logger) Generator {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &service{logger: log}
}

// RenderDocument implements Generator
func (s *service) RenderDocument(_ context.Context, doc *layout.Document) ([]byte, error) {
	if doc == nil || len(doc.Pages) == 0 {
		return nil, ierr.NewError("document has no pages").
			WithHint("Nothing to render").
			Mark(ierr.ErrValidation)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: doc.Page.Orientation,
		UnitStr:        doc.Page.Unit,
		Size:           gofpdf.SizeType{Wd: doc.Page.Width, Ht: doc.Page.Height},
	})
	pdf.SetMargins(doc.Page.Margin, doc.Page.Margin, doc.Page.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(true)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(doc.Metadata.Title, true)
	pdf.SetAuthor(doc.Metadata.Author, true)
	pdf.SetSubject(doc.Metadata.Subject, true)
	pdf.SetCreator(creator, true)
	pdf.SetCreationDate(creationDate(doc))

	w := &writer{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		logger: s.logger,
	}
	for _, page := range doc.Pages {
		pdf.AddPage()
		for i, block := range page.Blocks {
			w.block(page.Number, i, block)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to render invoice document").
			WithMessagef("invoice:%s", doc.Metadata.InvoiceNumber).
			Mark(ierr.ErrSystem)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to write invoice document").
			WithMessagef("invoice:%s", doc.Metadata.InvoiceNumber).
			Mark(ierr.ErrSystem)
	}

	s.logger.Debugw("rendered invoice document",
		"invoice_number", doc.Metadata.InvoiceNumber,
		"pages", len(doc.Pages),
		"bytes", buf.Len(),
	)
	return buf.Bytes(), nil
}

// creationDate comes from the invoice so identical input gives identical bytes
func creationDate(doc *layout.Document) time.Time {
	if doc.Metadata.CreatedAt.IsZero() {
		return time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return doc.Metadata.CreatedAt
}

type writer struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	logger *logger.Logger
}

func (w *writer) block(page, index int, b layout.Block) {
	switch t := b.(type) {
	case *layout.TextBlock:
		w.text(t)
	case *layout.RectBlock:
		w.rect(t)
	case *layout.LineBlock:
		w.line(t)
	case *layout.ImageBlock:
		w.image(page, index, t)
	case *layout.TableBlock:
		w.table(t)
	default:
		w.logger.Warnw("skipping unknown layout block", "kind", b.Kind(), "page", page)
	}
}

func (w *writer) setFont(f layout.Font) {
	w.pdf.SetFont(f.Family, f.Style, f.Size)
}

func (w *writer) text(t *layout.TextBlock) {
	w.setFont(t.Font)
	w.pdf.SetTextColor(t.Color.R, t.Color.G, t.Color.B)
	w.pdf.SetXY(t.X, t.Y)
	w.pdf.CellFormat(t.W, t.H, w.tr(t.Text), "", 0, string(t.Align), false, 0, "")
}

func (w *writer) rect(r *layout.RectBlock) {
	style := ""
	if r.Fill != nil {
		w.pdf.SetFillColor(r.Fill.R, r.Fill.G, r.Fill.B)
		style += "F"
	}
	if r.Border != nil {
		w.pdf.SetDrawColor(r.Border.R, r.Border.G, r.Border.B)
		w.pdf.SetLineWidth(r.LineWidth)
		style += "D"
	}
	if style == "" {
		return
	}
	w.pdf.Rect(r.X, r.Y, r.W, r.H, style)
}

func (w *writer) line(l *layout.LineBlock) {
	w.pdf.SetDrawColor(l.Color.R, l.Color.G, l.Color.B)
	w.pdf.SetLineWidth(l.Width)
	w.pdf.Line(l.X1, l.Y1, l.X2, l.Y2)
}

// image embeds the block or, when its data cannot be used, logs and leaves
// the space empty so the rest of the document still renders
func (w *writer) image(page, index int, img *layout.ImageBlock) {
	decoded, err := decodeImage(img.Data)
	if err != nil {
		w.logger.Warnw("skipping unreadable image block",
			"name", img.Name,
			"page", page,
			"error", err,
		)
		return
	}

	name := fmt.Sprintf("%s-%d-%d", img.Name, page, index)
	opts := gofpdf.ImageOptions{ImageType: decoded.imageType}
	w.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(decoded.data))
	if !w.pdf.Ok() {
		w.logger.Warnw("skipping image block the pdf writer rejected",
			"name", img.Name,
			"page", page,
			"error", w.pdf.Error(),
		)
		w.pdf.ClearError()
		return
	}
	w.pdf.ImageOptions(name, img.X, img.Y, img.W, img.H, false, opts, 0, "")
}

func (w *writer) table(t *layout.TableBlock) {
	w.pdf.SetLineWidth(0.1)
	w.pdf.SetDrawColor(layout.ColorBorder.R, layout.ColorBorder.G, layout.ColorBorder.B)

	w.setFont(t.HeaderFont)
	w.pdf.SetFillColor(t.HeaderFill.R, t.HeaderFill.G, t.HeaderFill.B)
	w.pdf.SetTextColor(t.HeaderColor.R, t.HeaderColor.G, t.HeaderColor.B)
	w.pdf.SetXY(t.X, t.Y)
	for _, col := range t.Columns {
		w.pdf.CellFormat(col.Width, t.HeaderHeight, w.tr(col.Title), "", 0, string(col.Align), true, 0, "")
	}

	w.pdf.SetTextColor(t.TextColor.R, t.TextColor.G, t.TextColor.B)
	w.pdf.SetFillColor(t.StripeFill.R, t.StripeFill.G, t.StripeFill.B)
	for i, row := range t.Rows {
		y := t.Y + t.HeaderHeight + float64(i)*t.RowHeight
		w.pdf.SetXY(t.X, y)
		fill := t.Striped(i)
		for c, col := range t.Columns {
			font := t.BodyFont
			if col.Bold {
				font.Style = "B"
			}
			w.setFont(font)
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			w.pdf.CellFormat(col.Width, t.RowHeight, w.tr(cell), "B", 0, string(col.Align), fill, 0, "")
		}
	}
}
