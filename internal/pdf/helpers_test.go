package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/flexprice/invoicedoc/internal/domain/invoice"
	"github.com/flexprice/invoicedoc/internal/layout"
	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// 1x1 lossless webp
const webpPixel = "UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func pngPixel(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 31, G: 56, B: 100, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testDraft(rows int) *invoice.Draft {
	items := make([]invoice.LineItem, 0, rows)
	for i := 0; i < rows; i++ {
		items = append(items, invoice.LineItem{
			EmployeeName: "J. Doe",
			Role:         "Software Engineer",
			PeriodLabel:  "Nov 9, 2025 to Nov 15, 2025",
			Hours:        decimal.NewFromInt(40),
			Rate:         decimal.NewFromInt(50),
			Total:        decimal.NewFromInt(2000),
		})
	}
	issue := time.Date(2025, time.November, 16, 0, 0, 0, 0, time.UTC)
	return &invoice.Draft{
		Issuer:   invoice.Party{Name: "Selsoft Inc.", Website: "www.selsoft.com"},
		BillTo:   invoice.Party{Name: "Acme Corporation – Dallas"},
		Metadata: invoice.Metadata{InvoiceNumber: "INV-2025-0042", IssueDate: issue, DueDate: issue.AddDate(0, 0, 15), PaymentTerms: "Net 15", Currency: "usd"},
		Period: invoice.BillingPeriod{
			Start: time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, time.November, 15, 0, 0, 0, 0, time.UTC),
		},
		LineItems: items,
		Tax:       invoice.TaxPolicy{Exempt: true, ExemptNote: "Exempt (Professional Services)"},
		Totals:    invoice.Totals{SubtotalText: "$2000.00", TaxText: "Exempt (Professional Services)", TotalText: "$2000.00"},
	}
}

func testDocument(rows int, logo []byte) *layout.Document {
	d := testDraft(rows)
	d.Logo = logo
	return layout.NewEngine().Render(d)
}
