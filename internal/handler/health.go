package handler

import (
	"net/http"

	"triage/internal/model"
	"triage/internal/service"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service status
type HealthHandler struct {
	triageService *service.TriageService
	version       string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(triageService *service.TriageService, version string) *HealthHandler {
	return &HealthHandler{
		triageService: triageService,
		version:       version,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{
		Status:            "healthy",
		Version:           h.version,
		AIModelAvailable:  h.triageService.ModelAvailable(),
		SentimentProvider: h.triageService.Provider(),
		Database:          h.triageService.StoreEnabled(),
	})
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "intent-triage",
		"version": h.version,
		"labels":  model.IntentLabels,
		"endpoints": gin.H{
			"classify":    "POST /api/v1/classify",
			"batch":       "POST /api/v1/classify/batch",
			"stream":      "POST /api/v1/classify/stream",
			"escalations": "GET /api/v1/escalations",
			"health":      "GET /health",
			"demo":        "GET /static/index.html",
		},
	})
}
