package v1

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/flexprice/invoicedoc/internal/api/dto"
	"github.com/flexprice/invoicedoc/internal/domain/record"
	ierr "github.com/flexprice/invoicedoc/internal/errors"
	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/flexprice/invoicedoc/internal/pdf"
	"github.com/flexprice/invoicedoc/internal/service"
	"github.com/gin-gonic/gin"
)

const HeaderDocumentLocation = "X-Document-Location"

type InvoiceDocumentHandler struct {
	service service.InvoiceDocumentService
	logger  *logger.Logger
}

func NewInvoiceDocumentHandler(service service.InvoiceDocumentService, logger *logger.Logger) *InvoiceDocumentHandler {
	return &InvoiceDocumentHandler{
		service: service,
		logger:  logger,
	}
}

// CreatePreview godoc
// @Summary Create an invoice preview
// @Description Render an invoice-like record into a short lived preview document
// @Tags Invoice Documents
// @Accept json
// @Produce json
// @Param record body object true "Invoice-like record"
// @Param now query string false "Clock override (YYYY-MM-DD)"
// @Success 201 {object} dto.PreviewResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 429 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /invoices/documents/preview [post]
func (h *InvoiceDocumentHandler) CreatePreview(c *gin.Context) {
	rec, opts, _, ok := h.bind(c)
	if !ok {
		return
	}

	handle, err := h.service.Preview(c.Request.Context(), rec, opts)
	if err != nil {
		h.logger.Errorw("failed to create invoice preview", "error", err)
		c.Error(err)
		return
	}

	url := fmt.Sprintf("%s/%s", previewPath(c), handle.ID)
	c.JSON(http.StatusCreated, dto.NewPreviewResponse(handle, url))
}

// GetPreview godoc
// @Summary Get an invoice preview
// @Description Stream a stored preview inline
// @Tags Invoice Documents
// @Produce application/pdf
// @Param id path string true "Preview ID"
// @Success 200 {file} application/pdf
// @Failure 404 {object} ierr.ErrorResponse
// @Router /invoices/documents/preview/{id} [get]
func (h *InvoiceDocumentHandler) GetPreview(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid preview id").WithHint("invalid preview id").Mark(ierr.ErrValidation))
		return
	}

	data, filename, err := h.service.OpenPreview(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, pdf.ContentType, data)
}

// DeletePreview godoc
// @Summary Release an invoice preview
// @Description Free a stored preview before its TTL expires
// @Tags Invoice Documents
// @Param id path string true "Preview ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /invoices/documents/preview/{id} [delete]
func (h *InvoiceDocumentHandler) DeletePreview(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.ReleasePreview(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Download godoc
// @Summary Download an invoice document
// @Description Render an invoice-like record as <invoiceNumber>.pdf
// @Tags Invoice Documents
// @Accept json
// @Produce application/pdf
// @Param record body object true "Invoice-like record"
// @Param now query string false "Clock override (YYYY-MM-DD)"
// @Param archive query bool false "Also store the document in the archive"
// @Success 200 {file} application/pdf
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 429 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /invoices/documents/download [post]
func (h *InvoiceDocumentHandler) Download(c *gin.Context) {
	rec, opts, query, ok := h.bind(c)
	if !ok {
		return
	}

	dl, err := h.service.Download(c.Request.Context(), rec, opts)
	if err != nil {
		h.logger.Errorw("failed to render invoice download", "error", err)
		c.Error(err)
		return
	}

	if query.Archive {
		location, err := h.service.Archive(c.Request.Context(), dl)
		if err != nil {
			c.Error(err)
			return
		}
		c.Header(HeaderDocumentLocation, location)
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))
	c.Data(http.StatusOK, pdf.ContentType, dl.Data)
}

// GetDraft godoc
// @Summary Compute an invoice draft
// @Description Resolve period, line items and totals without rendering
// @Tags Invoice Documents
// @Accept json
// @Produce json
// @Param record body object true "Invoice-like record"
// @Param now query string false "Clock override (YYYY-MM-DD)"
// @Success 200 {object} invoice.Draft
// @Failure 400 {object} ierr.ErrorResponse
// @Router /invoices/documents/draft [post]
func (h *InvoiceDocumentHandler) GetDraft(c *gin.Context) {
	rec, opts, _, ok := h.bind(c)
	if !ok {
		return
	}

	d, err := h.service.BuildDraft(c.Request.Context(), rec, opts)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// bind reads the record body and the render query. An empty body is an empty
// record; anything that is not a JSON object is rejected.
func (h *InvoiceDocumentHandler) bind(c *gin.Context) (record.Record, service.RenderOptions, *dto.RenderQuery, bool) {
	var query dto.RenderQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(ierr.WithError(err).WithHint("invalid query parameters").Mark(ierr.ErrValidation))
		return nil, service.RenderOptions{}, nil, false
	}
	if err := query.Validate(); err != nil {
		c.Error(err)
		return nil, service.RenderOptions{}, nil, false
	}
	now, err := query.NowTime()
	if err != nil {
		c.Error(err)
		return nil, service.RenderOptions{}, nil, false
	}

	body, err := c.GetRawData()
	if err != nil {
		c.Error(ierr.WithError(err).WithHint("Failed to read request body").Mark(ierr.ErrValidation))
		return nil, service.RenderOptions{}, nil, false
	}

	rec := record.Record{}
	if len(bytes.TrimSpace(body)) > 0 {
		if rec, err = record.Parse(body); err != nil {
			h.logger.Warnw("rejected unreadable invoice record", "error", err, "size", len(body))
			c.Error(err)
			return nil, service.RenderOptions{}, nil, false
		}
	}
	return rec, service.RenderOptions{Now: now}, &query, true
}

func previewPath(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return path
}
