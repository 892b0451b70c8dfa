package testutil

import (
	"context"

	"github.com/flexprice/invoicedoc/internal/layout"
	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/flexprice/invoicedoc/internal/pdf"
	"github.com/stretchr/testify/mock"
)

var _ pdf.Generator = (*MockPDFGenerator)(nil)

type MockPDFGenerator struct {
	logger *logger.Logger
	mock.Mock
}

// RenderDocument implements pdf.Generator.
func (m *MockPDFGenerator) RenderDocument(ctx context.Context, doc *layout.Document) ([]byte, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func NewMockPDFGenerator(logger *logger.Logger) *MockPDFGenerator {
	return &MockPDFGenerator{
		logger: logger,
	}
}

// MockArchive is a pdf.Archive double
type MockArchive struct {
	mock.Mock
}

var _ pdf.Archive = (*MockArchive)(nil)

func (m *MockArchive) Store(ctx context.Context, filename string, data []byte) (string, error) {
	args := m.Called(ctx, filename, data)
	return args.String(0), args.Error(1)
}
