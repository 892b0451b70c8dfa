package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/flexprice/invoicedoc/internal/domain/record"
	ierr "github.com/flexprice/invoicedoc/internal/errors"
	"github.com/flexprice/invoicedoc/internal/layout"
	"github.com/flexprice/invoicedoc/internal/pdf"
	"github.com/flexprice/invoicedoc/internal/testutil"
	"github.com/flexprice/invoicedoc/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zapcore"
)

type InvoiceDocumentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service InvoiceDocumentService
}

func TestInvoiceDocumentService(t *testing.T) {
	suite.Run(t, new(InvoiceDocumentServiceSuite))
}

func (s *InvoiceDocumentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = s.newService(s.GetTargets(true))
}

func (s *InvoiceDocumentServiceSuite) newService(targets *pdf.Targets) InvoiceDocumentService {
	params := NewServiceParams(s.GetLogger(), s.GetConfig(), s.GetBuilder(), s.GetEngine(), targets)
	params.Clock = func() time.Time { return s.GetNow() }
	return NewInvoiceDocumentService(params)
}

func (s *InvoiceDocumentServiceSuite) TestBuildDraft_SingleEmployee() {
	d, err := s.service.BuildDraft(s.GetContext(), testutil.SingleEmployeeRecord(), RenderOptions{})
	s.Require().NoError(err)

	s.Equal("INV-2025-0042", d.Metadata.InvoiceNumber)
	s.Equal(time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC), d.Period.Start)
	s.Equal(time.Date(2025, time.November, 15, 0, 0, 0, 0, time.UTC), d.Period.End)
	s.Require().Len(d.LineItems, 1)
	s.True(d.Totals.Subtotal.Equal(decimal.NewFromInt(2000)))
	s.True(d.Totals.Tax.IsZero())
	s.True(d.Totals.Total.Equal(decimal.NewFromInt(2000)))
	s.Equal("$2000.00", d.Totals.TotalText)
}

func (s *InvoiceDocumentServiceSuite) TestBuildDraft_MultiLine() {
	d, err := s.service.BuildDraft(s.GetContext(), testutil.MultiLineRecord(), RenderOptions{})
	s.Require().NoError(err)

	s.Require().Len(d.LineItems, 3)
	s.True(d.Totals.Subtotal.Equal(decimal.NewFromInt(3125)), d.Totals.Subtotal.String())
	s.True(d.Totals.Tax.Equal(decimal.NewFromInt(250)), d.Totals.Tax.String())
	s.True(d.Totals.Total.Equal(decimal.NewFromInt(3375)), d.Totals.Total.String())
	s.Equal("$3375.00", d.Totals.TotalText)
}

func (s *InvoiceDocumentServiceSuite) TestBuildDraft_NowDefaultsToClock() {
	rec := record.Record{"employeeName": "J. Doe"}

	d, err := s.service.BuildDraft(s.GetContext(), rec, RenderOptions{})
	s.Require().NoError(err)
	s.Equal(time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), d.Period.Start)
	s.Equal(time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC), d.Period.End)

	fixed := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	d, err = s.service.BuildDraft(s.GetContext(), rec, RenderOptions{Now: fixed})
	s.Require().NoError(err)
	s.Equal(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), d.Period.End)
}

func (s *InvoiceDocumentServiceSuite) TestBuildDraft_MalformedNeverErrors() {
	d, err := s.service.BuildDraft(s.GetContext(), testutil.MalformedRecord(), RenderOptions{})
	s.Require().NoError(err)

	s.Require().Len(d.LineItems, 1)
	s.Equal("N/A", d.LineItems[0].EmployeeName)
	s.True(d.LineItems[0].Hours.IsZero())
	s.True(d.Totals.Total.IsZero())
	s.Positive(s.GetLogs().FilterLevelExact(zapcore.WarnLevel).Len())
}

func (s *InvoiceDocumentServiceSuite) TestBuildDraft_Idempotent() {
	a, err := s.service.BuildDraft(s.GetContext(), testutil.MultiLineRecord(), RenderOptions{})
	s.Require().NoError(err)
	b, err := s.service.BuildDraft(s.GetContext(), testutil.MultiLineRecord(), RenderOptions{})
	s.Require().NoError(err)

	s.True(a.Totals.Total.Equal(b.Totals.Total))
	da, err := s.service.Document(s.GetContext(), testutil.MultiLineRecord(), RenderOptions{})
	s.Require().NoError(err)
	db, err := s.service.Document(s.GetContext(), testutil.MultiLineRecord(), RenderOptions{})
	s.Require().NoError(err)
	s.Equal(da.SectionNames(), db.SectionNames())
	s.Equal(da, db)
}

func (s *InvoiceDocumentServiceSuite) TestDocument_Paginates() {
	doc, err := s.service.Document(s.GetContext(), testutil.ManyRowsRecord(60), RenderOptions{})
	s.Require().NoError(err)

	s.Greater(len(doc.Pages), 1)
	s.Equal(layout.NewEngine().PlanPages(60), len(doc.Pages))

	rows := 0
	for _, t := range doc.Tables() {
		rows += len(t.Rows)
	}
	s.Equal(60, rows)
}

func (s *InvoiceDocumentServiceSuite) TestPreview_Lifecycle() {
	s.GetPDFGenerator().On("RenderDocument", mock.Anything, mock.AnythingOfType("*layout.Document")).
		Return([]byte("%PDF-1.3 preview"), nil).Once()

	h, err := s.service.Preview(s.GetContext(), testutil.SingleEmployeeRecord(), RenderOptions{})
	s.Require().NoError(err)
	s.Equal("J._Doe_INV-2025-0042.pdf", h.Filename)
	s.Equal(1, s.GetPreviewStore().Live())

	data, filename, err := s.service.OpenPreview(s.GetContext(), h.ID)
	s.Require().NoError(err)
	s.Equal([]byte("%PDF-1.3 preview"), data)
	s.Equal(h.Filename, filename)

	s.Require().NoError(s.service.ReleasePreview(s.GetContext(), h.ID))
	s.Equal(0, s.GetPreviewStore().Live())

	_, _, err = s.service.OpenPreview(s.GetContext(), h.ID)
	s.True(ierr.IsNotFound(err))
	s.True(ierr.IsNotFound(s.service.ReleasePreview(s.GetContext(), h.ID)))
	s.GetPDFGenerator().AssertExpectations(s.T())
}

func (s *InvoiceDocumentServiceSuite) TestPreview_OtherTenantCannotOpen() {
	s.GetPDFGenerator().On("RenderDocument", mock.Anything, mock.Anything).Return([]byte("%PDF"), nil)

	h, err := s.service.Preview(s.GetContext(), testutil.SingleEmployeeRecord(), RenderOptions{})
	s.Require().NoError(err)
	defer h.Release()

	_, _, err = s.service.OpenPreview(testutil.SetupTenantContext("tenant_other"), h.ID)
	s.True(ierr.IsNotFound(err))
	s.Equal(types.DefaultTenantID, types.GetTenantID(s.GetContext()))
}

func (s *InvoiceDocumentServiceSuite) TestPreview_GeneratorFailure() {
	s.GetPDFGenerator().On("RenderDocument", mock.Anything, mock.Anything).
		Return(nil, ierr.NewError("gofpdf failed").Mark(ierr.ErrSystem))

	_, err := s.service.Preview(s.GetContext(), testutil.SingleEmployeeRecord(), RenderOptions{})
	s.True(ierr.IsSystem(err))
	s.Equal(0, s.GetPreviewStore().Live())
}

func (s *InvoiceDocumentServiceSuite) TestDownload() {
	s.GetPDFGenerator().On("RenderDocument", mock.Anything, mock.MatchedBy(func(doc *layout.Document) bool {
		return doc.Metadata.InvoiceNumber == "INV-2025-0100"
	})).Return([]byte("%PDF-1.3 download"), nil).Once()

	dl, err := s.service.Download(s.GetContext(), testutil.MultiLineRecord(), RenderOptions{})
	s.Require().NoError(err)
	s.Equal("INV-2025-0100.pdf", dl.Filename)
	s.Equal([]byte("%PDF-1.3 download"), dl.Data)
	s.Empty(dl.Location)
	s.Equal(0, s.GetPreviewStore().Live())
	s.GetPDFGenerator().AssertExpectations(s.T())
}

func (s *InvoiceDocumentServiceSuite) TestDownload_Archive() {
	s.GetPDFGenerator().On("RenderDocument", mock.Anything, mock.Anything).Return([]byte("%PDF"), nil)
	s.GetArchive().On("Store", mock.Anything, "INV-2025-0042.pdf", []byte("%PDF")).
		Return("https://bucket.s3.amazonaws.com/invoices/INV-2025-0042.pdf?sig", nil).Once()

	dl, err := s.service.Download(s.GetContext(), testutil.SingleEmployeeRecord(), RenderOptions{})
	s.Require().NoError(err)

	location, err := s.service.Archive(s.GetContext(), dl)
	s.Require().NoError(err)
	s.Equal(location, dl.Location)
	s.GetArchive().AssertExpectations(s.T())
}

func (s *InvoiceDocumentServiceSuite) TestDownload_ArchiveFailureKeepsBytes() {
	s.GetPDFGenerator().On("RenderDocument", mock.Anything, mock.Anything).Return([]byte("%PDF"), nil)
	s.GetArchive().On("Store", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("access denied"))

	dl, err := s.service.Download(s.GetContext(), testutil.SingleEmployeeRecord(), RenderOptions{})
	s.Require().NoError(err)

	_, err = s.service.Archive(s.GetContext(), dl)
	s.True(ierr.IsHTTPClient(err))
	s.Equal([]byte("%PDF"), dl.Data)
	s.Empty(dl.Location)
}

func (s *InvoiceDocumentServiceSuite) TestPreviewAndDownloadRenderTheSameBytes() {
	svc := s.newService(s.GetRealTargets())
	ctx := s.GetContext()

	dl, err := svc.Download(ctx, testutil.MultiLineRecord(), RenderOptions{})
	s.Require().NoError(err)
	s.True(bytes.HasPrefix(dl.Data, []byte("%PDF-")))

	h, err := svc.Preview(ctx, testutil.MultiLineRecord(), RenderOptions{})
	s.Require().NoError(err)
	defer h.Release()

	data, _, err := svc.OpenPreview(ctx, h.ID)
	s.Require().NoError(err)
	s.Equal(dl.Data, data)
}
