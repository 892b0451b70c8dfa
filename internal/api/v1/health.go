package v1

import (
	"net/http"

	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/flexprice/invoicedoc/internal/pdf"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	previews *pdf.PreviewStore
	logger   *logger.Logger
}

func NewHealthHandler(
	previews *pdf.PreviewStore,
	logger *logger.Logger,
) *HealthHandler {
	return &HealthHandler{
		previews: previews,
		logger:   logger,
	}
}

// @Summary Health check
// @Description Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	live := 0
	if h.previews != nil {
		live = h.previews.Live()
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "live_previews": live})
}
