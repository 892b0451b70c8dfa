package api

import (
	v1 "github.com/flexprice/invoicedoc/internal/api/v1"
	"github.com/flexprice/invoicedoc/internal/config"
	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/flexprice/invoicedoc/internal/rest/middleware"
	"github.com/flexprice/invoicedoc/internal/types"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health          *v1.HealthHandler
	InvoiceDocument *v1.InvoiceDocumentHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger, limiter *middleware.RenderLimiter) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Warnw("ignoring invalid trusted proxies", "proxies", cfg.Server.TrustedProxies, "error", err)
	}
	router.Use(
		gin.Recovery(),
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
		middleware.TenantMiddleware,
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers, limiter)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers, limiter *middleware.RenderLimiter) {
	render := middleware.RateLimitMiddleware(limiter)

	documents := router.Group("/invoices/documents")
	{
		documents.POST("/preview", render, handlers.InvoiceDocument.CreatePreview)
		documents.GET("/preview/:id", handlers.InvoiceDocument.GetPreview)
		documents.DELETE("/preview/:id", handlers.InvoiceDocument.DeletePreview)
		documents.POST("/download", render, handlers.InvoiceDocument.Download)
		documents.POST("/draft", handlers.InvoiceDocument.GetDraft)
	}
}
