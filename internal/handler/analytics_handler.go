package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-registry-api/internal/service"
	"github.com/noah-isme/campus-registry-api/pkg/response"
)

// AnalyticsHandler exposes the reporting adapter's read-only endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Overview godoc
// @Summary Registry-wide counts, occupancy and waitlist depth
// @Tags Analytics
// @Produce json
// @Success 200 {object} models.AnalyticsOverview
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, _, err := h.analytics.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview)
}

// Top godoc
// @Summary Top performers by average recorded score
// @Tags Analytics
// @Produce json
// @Param limit query int false "Row limit"
// @Success 200 {array} models.TopPerformer
// @Router /analytics/top [get]
func (h *AnalyticsHandler) Top(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = 10
	}
	performers, _, err := h.analytics.TopPerformers(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, performers)
}

// Graph godoc
// @Summary Per-course score averages with occupancy
// @Tags Analytics
// @Produce json
// @Success 200 {array} models.CourseAverage
// @Router /analytics/graph [get]
func (h *AnalyticsHandler) Graph(c *gin.Context) {
	averages, _, err := h.analytics.CourseAverages(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, averages)
}
