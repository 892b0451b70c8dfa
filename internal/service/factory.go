package service

import (
	"time"

	"github.com/flexprice/invoicedoc/internal/config"
	"github.com/flexprice/invoicedoc/internal/draft"
	"github.com/flexprice/invoicedoc/internal/layout"
	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/flexprice/invoicedoc/internal/pdf"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger  *logger.Logger
	Config  *config.Configuration
	Builder *draft.Builder
	Engine  *layout.Engine
	Targets *pdf.Targets

	// Clock is the default "now" of every operation
	Clock func() time.Time
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	builder *draft.Builder,
	engine *layout.Engine,
	targets *pdf.Targets,
) ServiceParams {
	return ServiceParams{
		Logger:  logger,
		Config:  config,
		Builder: builder,
		Engine:  engine,
		Targets: targets,
		Clock:   func() time.Time { return time.Now().UTC() },
	}
}
