package pdf

import (
	"context"
	"os"
	"path/filepath"

	"github.com/flexprice/invoicedoc/internal/config"
	ierr "github.com/flexprice/invoicedoc/internal/errors"
	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/flexprice/invoicedoc/internal/s3"
	"github.com/flexprice/invoicedoc/internal/types"
)

// Archive keeps a copy of a downloaded document and returns where it went
type Archive interface {
	Store(ctx context.Context, filename string, data []byte) (string, error)
}

// NewArchive returns the configured archive sink, nil when archiving is off
func NewArchive(cfg *config.Configuration, s3Service s3.Service, log *logger.Logger) (Archive, error) {
	switch cfg.Archive.Mode {
	case types.ArchiveModeLocal:
		return NewLocalArchive(cfg.Archive.LocalDir), nil
	case types.ArchiveModeS3:
		if s3Service == nil {
			return nil, ierr.NewError("s3 archive requested without an s3 service").
				WithHint("Configure archive.s3 before enabling the s3 archive").
				Mark(ierr.ErrValidation)
		}
		return NewS3Archive(s3Service, log), nil
	case types.ArchiveModeNone, "":
		return nil, nil
	default:
		return nil, ierr.NewErrorf("unknown archive mode %s", cfg.Archive.Mode).
			WithHint("archive.mode must be one of none, local or s3").
			Mark(ierr.ErrValidation)
	}
}

type localArchive struct {
	dir string
}

// NewLocalArchive writes documents under dir, creating it on first use
func NewLocalArchive(dir string) Archive {
	return &localArchive{dir: dir}
}

func (a *localArchive) Store(_ context.Context, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to prepare the archive directory").
			WithMessagef("dir:%s", a.dir).
			Mark(ierr.ErrSystem)
	}

	path := filepath.Join(a.dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to archive invoice document").
			WithMessagef("path:%s", path).
			Mark(ierr.ErrSystem)
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}

type s3Archive struct {
	s3     s3.Service
	logger *logger.Logger
}

// NewS3Archive uploads documents and answers with a presigned download url
func NewS3Archive(s3Service s3.Service, log *logger.Logger) Archive {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &s3Archive{s3: s3Service, logger: log}
}

func (a *s3Archive) Store(ctx context.Context, filename string, data []byte) (string, error) {
	doc := s3.NewPdfDocument(filename, data, s3.DocumentTypeInvoice)
	if err := a.s3.UploadDocument(ctx, doc); err != nil {
		return "", err
	}

	url, err := a.s3.GetPresignedUrl(ctx, doc.ID, s3.DocumentTypeInvoice)
	if err != nil {
		return "", err
	}

	a.logger.Infow("archived invoice document", "document_id", doc.ID, "size", len(data))
	return url, nil
}
