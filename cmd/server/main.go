package main

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/flexprice/invoicedoc/internal/api"
	v1 "github.com/flexprice/invoicedoc/internal/api/v1"
	"github.com/flexprice/invoicedoc/internal/cache"
	"github.com/flexprice/invoicedoc/internal/config"
	"github.com/flexprice/invoicedoc/internal/draft"
	"github.com/flexprice/invoicedoc/internal/layout"
	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/flexprice/invoicedoc/internal/pdf"
	"github.com/flexprice/invoicedoc/internal/rest/middleware"
	"github.com/flexprice/invoicedoc/internal/s3"
	"github.com/flexprice/invoicedoc/internal/service"
	"github.com/flexprice/invoicedoc/internal/types"
	"github.com/flexprice/invoicedoc/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			provideCache,

			// S3
			s3.NewService,

			// Document pipeline
			draft.NewBuilder,
			provideEngine,
			pdf.NewGenerator,
			pdf.NewPreviewStore,
			pdf.NewArchive,
			pdf.NewTargets,

			// Rate limiting
			middleware.NewRenderLimiter,
		),
	)

	// Services
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewInvoiceDocumentService,
		),
	)

	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			validator.NewValidator,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideCache(cfg *config.Configuration) cache.Cache {
	return cache.NewInMemoryCache(cfg)
}

func provideEngine() *layout.Engine {
	return layout.NewEngine()
}

func provideHandlers(
	logger *logger.Logger,
	previews *pdf.PreviewStore,
	invoiceDocumentService service.InvoiceDocumentService,
) api.Handlers {
	return api.Handlers{
		Health:          v1.NewHealthHandler(previews, logger),
		InvoiceDocument: v1.NewInvoiceDocumentHandler(invoiceDocumentService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger, limiter *middleware.RenderLimiter) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger, limiter)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeAWSLambdaAPI:
		startAWSLambdaAPI(r)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address, "archive", cfg.Archive.Mode)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}

func startAWSLambdaAPI(r *gin.Engine) {
	ginLambda := ginadapter.New(r)
	lambda.Start(ginLambda.ProxyWithContext)
}
