package pdf

import (
	"context"
	"regexp"
	"strings"

	ierr "github.com/flexprice/invoicedoc/internal/errors"
	"github.com/flexprice/invoicedoc/internal/layout"
	"github.com/flexprice/invoicedoc/internal/logger"
)

const ContentType = "application/pdf"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Download is a rendered document ready to be sent as an attachment
type Download struct {
	Filename string
	Data     []byte
	// Location is where the archive put a copy, empty when not archived
	Location string
}

// Targets are the two ways a document leaves the service. Both go through
// the same Generator and differ only in what happens to the bytes.
type Targets struct {
	generator Generator
	previews  *PreviewStore
	archive   Archive
	logger    *logger.Logger
}

func NewTargets(generator Generator, previews *PreviewStore, archive Archive, log *logger.Logger) *Targets {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Targets{
		generator: generator,
		previews:  previews,
		archive:   archive,
		logger:    log,
	}
}

// Preview renders doc into the preview store. The caller owns the handle and
// must Release it; WithPreview does that automatically.
func (t *Targets) Preview(ctx context.Context, doc *layout.Document) (*PreviewHandle, error) {
	data, err := t.generator.RenderDocument(ctx, doc)
	if err != nil {
		return nil, err
	}

	h := t.previews.Put(ctx, PreviewFilename(doc.Metadata.PrimaryEmployee, doc.Metadata.InvoiceNumber), data)
	t.logger.Debugw("stored invoice preview", "preview_id", h.ID, "size", h.Size, "expires_at", h.ExpiresAt)
	return h, nil
}

// WithPreview acquires a preview, hands it to fn and always releases it
func (t *Targets) WithPreview(ctx context.Context, doc *layout.Document, fn func(h *PreviewHandle, data []byte) error) error {
	h, err := t.Preview(ctx, doc)
	if err != nil {
		return err
	}
	defer h.Release()

	p, err := t.previews.Open(ctx, h.ID)
	if err != nil {
		return err
	}
	return fn(h, p.Data)
}

// OpenPreview returns the bytes of a stored preview
func (t *Targets) OpenPreview(ctx context.Context, id string) (*Preview, error) {
	return t.previews.Open(ctx, id)
}

// ReleasePreview frees a stored preview by id
func (t *Targets) ReleasePreview(ctx context.Context, id string) error {
	return t.previews.Release(ctx, id)
}

// Download renders doc as <invoiceNumber>.pdf
func (t *Targets) Download(ctx context.Context, doc *layout.Document) (*Download, error) {
	data, err := t.generator.RenderDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	return &Download{
		Filename: DownloadFilename(doc.Metadata.InvoiceNumber),
		Data:     data,
	}, nil
}

// Archive stores a copy of dl. Failures are returned to the caller and never
// touch dl.Data.
func (t *Targets) Archive(ctx context.Context, dl *Download) (string, error) {
	if t.archive == nil {
		return "", ierr.NewError("document archive is disabled").
			WithHint("Archiving is not enabled on this server").
			Mark(ierr.ErrInvalidOperation)
	}

	location, err := t.archive.Store(ctx, dl.Filename, dl.Data)
	if err != nil {
		t.logger.Errorw("failed to archive invoice document", "filename", dl.Filename, "error", err)
		return "", ierr.WithError(err).
			WithHint("Failed to archive invoice document").
			Mark(ierr.ErrHTTPClient)
	}
	dl.Location = location
	return location, nil
}

// ArchiveEnabled reports whether an archive sink is configured
func (t *Targets) ArchiveEnabled() bool {
	return t.archive != nil
}

// DownloadFilename is <invoiceNumber>.pdf with unsafe characters replaced
func DownloadFilename(invoiceNumber string) string {
	return sanitizeFilename(invoiceNumber, "invoice") + ".pdf"
}

// PreviewFilename is <employee>_<invoiceNumber>.pdf with unsafe characters replaced
func PreviewFilename(employee, invoiceNumber string) string {
	number := sanitizeFilename(invoiceNumber, "invoice")
	name := sanitizeFilename(employee, "")
	if name == "" {
		return number + ".pdf"
	}
	return name + "_" + number + ".pdf"
}

func sanitizeFilename(s, fallback string) string {
	s = unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(s), "_")
	s = strings.Trim(s, "._")
	if s == "" {
		return fallback
	}
	return s
}
