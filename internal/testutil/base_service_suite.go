package testutil

import (
	"context"
	"time"

	"github.com/flexprice/invoicedoc/internal/cache"
	"github.com/flexprice/invoicedoc/internal/config"
	"github.com/flexprice/invoicedoc/internal/draft"
	"github.com/flexprice/invoicedoc/internal/layout"
	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/flexprice/invoicedoc/internal/pdf"
	"github.com/flexprice/invoicedoc/internal/types"
	"github.com/flexprice/invoicedoc/internal/validator"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest/observer"
)

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	logger       *logger.Logger
	logs         *observer.ObservedLogs
	config       *config.Configuration
	now          time.Time
	cache        *cache.InMemoryCache
	previews     *pdf.PreviewStore
	pdfGenerator *MockPDFGenerator
	archive      *MockArchive
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.config.Logging.Level = types.LogLevelDebug
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.logger, s.logs = NewObservedLogger()
	s.now = FixedNow
	s.cache = cache.NewInMemoryCacheWithExpiry(s.config.Preview.TTL, s.config.Preview.CleanupInterval)
	s.previews = pdf.NewPreviewStore(s.cache, s.config, s.logger)
	s.pdfGenerator = NewMockPDFGenerator(s.logger)
	s.archive = new(MockArchive)
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.cache.Flush(s.ctx)
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetLogs returns everything logged through GetLogger during the current test
func (s *BaseServiceTestSuite) GetLogs() *observer.ObservedLogs {
	return s.logs
}

func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

func (s *BaseServiceTestSuite) GetPDFGenerator() *MockPDFGenerator {
	return s.pdfGenerator
}

func (s *BaseServiceTestSuite) GetArchive() *MockArchive {
	return s.archive
}

func (s *BaseServiceTestSuite) GetPreviewStore() *pdf.PreviewStore {
	return s.previews
}

func (s *BaseServiceTestSuite) GetBuilder() *draft.Builder {
	return draft.NewBuilder(s.config, s.logger)
}

func (s *BaseServiceTestSuite) GetEngine() *layout.Engine {
	return layout.NewEngine()
}

// GetTargets wires the mock generator and, when withArchive is set, the mock archive
func (s *BaseServiceTestSuite) GetTargets(withArchive bool) *pdf.Targets {
	var archive pdf.Archive
	if withArchive {
		archive = s.archive
	}
	return pdf.NewTargets(s.pdfGenerator, s.previews, archive, s.logger)
}

// GetRealTargets wires the gofpdf generator instead of the mock
func (s *BaseServiceTestSuite) GetRealTargets() *pdf.Targets {
	return pdf.NewTargets(pdf.NewGenerator(s.logger), s.previews, nil, s.logger)
}

func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
