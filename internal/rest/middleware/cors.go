package middleware

import (
	"net/http"
	"strings"

	"github.com/flexprice/invoicedoc/internal/types"
	"github.com/gin-gonic/gin"
)

var exposedHeaders = strings.Join([]string{
	"Content-Disposition",
	types.HeaderRequestID,
	"X-Document-Location",
}, ", ")

// CORSMiddleware lets browser previews read the document headers
func CORSMiddleware(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+types.HeaderTenantID+", "+types.HeaderRequestID)
	c.Writer.Header().Set("Access-Control-Expose-Headers", exposedHeaders)
	c.Writer.Header().Set("Access-Control-Max-Age", "86400")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusOK)
		return
	}
	c.Next()
}
