package dto

import (
	"time"

	ierr "github.com/flexprice/invoicedoc/internal/errors"
	"github.com/flexprice/invoicedoc/internal/pdf"
	"github.com/flexprice/invoicedoc/internal/validator"
)

// RenderQuery are the query options shared by the document endpoints
type RenderQuery struct {
	// Now pins the clock (YYYY-MM-DD) for reproducible documents
	Now string `form:"now" json:"now,omitempty" validate:"omitempty,datetime=2006-01-02"`
	// Archive also stores the download in the configured archive
	Archive bool `form:"archive" json:"archive,omitempty"`
}

func (q *RenderQuery) Validate() error {
	return validator.ValidateRequest(q)
}

// NowTime is the parsed Now, zero when unset
func (q *RenderQuery) NowTime() (time.Time, error) {
	if q.Now == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, q.Now)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHint("now must be a date like 2025-11-20").
			Mark(ierr.ErrValidation)
	}
	return t, nil
}

// PreviewResponse describes a stored preview
type PreviewResponse struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Size      int       `json:"size"`
	ExpiresAt time.Time `json:"expires_at"`
	URL       string    `json:"url"`
}

func NewPreviewResponse(h *pdf.PreviewHandle, url string) *PreviewResponse {
	return &PreviewResponse{
		ID:        h.ID,
		Filename:  h.Filename,
		Size:      h.Size,
		ExpiresAt: h.ExpiresAt,
		URL:       url,
	}
}
