// internal/handlers/analytics.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stationeryhq/ledger/internal/services"
	"github.com/stationeryhq/ledger/internal/utils"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GET /api/analytics
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	stats, err := h.analyticsService.Compute(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, stats)
}
