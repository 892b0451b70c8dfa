package middleware

import (
	"context"
	"strings"

	"github.com/flexprice/invoicedoc/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}

// TenantMiddleware scopes the request to the X-Tenant-ID header, falling back
// to the default tenant. Previews and rate limits are kept per tenant.
func TenantMiddleware(c *gin.Context) {
	tenantID := strings.TrimSpace(c.GetHeader(types.HeaderTenantID))
	if tenantID == "" {
		tenantID = types.DefaultTenantID
	}

	c.Request = c.Request.WithContext(types.SetTenantID(c.Request.Context(), tenantID))
	c.Next()
}
