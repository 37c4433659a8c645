package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-registry-api/internal/service"
)

// MetricsHandler serves the Prometheus endpoint.
type MetricsHandler struct {
	metrics *service.MetricsService
}

// NewMetricsHandler constructs MetricsHandler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Expose serves the Prometheus scrape payload.
func (h *MetricsHandler) Expose(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
