package service

import (
	"context"
	"time"

	"github.com/flexprice/invoicedoc/internal/domain/invoice"
	"github.com/flexprice/invoicedoc/internal/domain/record"
	"github.com/flexprice/invoicedoc/internal/layout"
	"github.com/flexprice/invoicedoc/internal/pdf"
	"github.com/flexprice/invoicedoc/internal/types"
)

// RenderOptions tune a single call
type RenderOptions struct {
	// Now replaces the service clock, zero means "use the clock"
	Now time.Time
}

// InvoiceDocumentService turns invoice-like records into invoice documents
type InvoiceDocumentService interface {
	// BuildDraft computes the draft (period, line items, totals) without rendering
	BuildDraft(ctx context.Context, rec record.Record, opts RenderOptions) (*invoice.Draft, error)

	// Document lays the draft of rec out
	Document(ctx context.Context, rec record.Record, opts RenderOptions) (*layout.Document, error)

	// Preview renders rec into the preview store; the caller releases the handle
	Preview(ctx context.Context, rec record.Record, opts RenderOptions) (*pdf.PreviewHandle, error)

	// Download renders rec as <invoiceNumber>.pdf
	Download(ctx context.Context, rec record.Record, opts RenderOptions) (*pdf.Download, error)

	// Archive stores a copy of dl in the configured archive
	Archive(ctx context.Context, dl *pdf.Download) (string, error)

	// OpenPreview returns the bytes and filename of a stored preview
	OpenPreview(ctx context.Context, id string) ([]byte, string, error)

	// ReleasePreview frees a stored preview
	ReleasePreview(ctx context.Context, id string) error
}

type invoiceDocumentService struct {
	ServiceParams
}

func NewInvoiceDocumentService(params ServiceParams) InvoiceDocumentService {
	if params.Clock == nil {
		params.Clock = func() time.Time { return time.Now().UTC() }
	}
	return &invoiceDocumentService{ServiceParams: params}
}

func (s *invoiceDocumentService) now(opts RenderOptions) time.Time {
	if !opts.Now.IsZero() {
		return opts.Now
	}
	return s.Clock()
}

func (s *invoiceDocumentService) BuildDraft(ctx context.Context, rec record.Record, opts RenderOptions) (*invoice.Draft, error) {
	d := s.Builder.Build(rec, s.now(opts))

	s.Logger.Debugw("built invoice draft",
		"tenant_id", types.GetTenantID(ctx),
		"request_id", types.GetRequestID(ctx),
		"invoice_number", d.Metadata.InvoiceNumber,
		"line_items", len(d.LineItems),
		"total", d.Totals.Total.String(),
	)
	return d, nil
}

func (s *invoiceDocumentService) Document(ctx context.Context, rec record.Record, opts RenderOptions) (*layout.Document, error) {
	d, err := s.BuildDraft(ctx, rec, opts)
	if err != nil {
		return nil, err
	}
	return s.Engine.Render(d), nil
}

func (s *invoiceDocumentService) Preview(ctx context.Context, rec record.Record, opts RenderOptions) (*pdf.PreviewHandle, error) {
	doc, err := s.Document(ctx, rec, opts)
	if err != nil {
		return nil, err
	}

	h, err := s.Targets.Preview(ctx, doc)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice preview",
		"tenant_id", types.GetTenantID(ctx),
		"preview_id", h.ID,
		"invoice_number", doc.Metadata.InvoiceNumber,
		"pages", len(doc.Pages),
	)
	return h, nil
}

func (s *invoiceDocumentService) Download(ctx context.Context, rec record.Record, opts RenderOptions) (*pdf.Download, error) {
	doc, err := s.Document(ctx, rec, opts)
	if err != nil {
		return nil, err
	}

	dl, err := s.Targets.Download(ctx, doc)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("rendered invoice download",
		"tenant_id", types.GetTenantID(ctx),
		"invoice_number", doc.Metadata.InvoiceNumber,
		"filename", dl.Filename,
		"pages", len(doc.Pages),
		"size", len(dl.Data),
	)
	return dl, nil
}

func (s *invoiceDocumentService) Archive(ctx context.Context, dl *pdf.Download) (string, error) {
	return s.Targets.Archive(ctx, dl)
}

func (s *invoiceDocumentService) OpenPreview(ctx context.Context, id string) ([]byte, string, error) {
	p, err := s.Targets.OpenPreview(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return p.Data, p.Filename, nil
}

func (s *invoiceDocumentService) ReleasePreview(ctx context.Context, id string) error {
	if err := s.Targets.ReleasePreview(ctx, id); err != nil {
		return err
	}
	s.Logger.Debugw("released invoice preview", "tenant_id", types.GetTenantID(ctx), "preview_id", id)
	return nil
}
