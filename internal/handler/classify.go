package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"triage/internal/model"
	"triage/internal/service"

	"github.com/gin-gonic/gin"
)

// ClassifyHandler handles classification HTTP requests
type ClassifyHandler struct {
	triageService *service.TriageService
}

// NewClassifyHandler creates a new classify handler
func NewClassifyHandler(triageService *service.TriageService) *ClassifyHandler {
	return &ClassifyHandler{
		triageService: triageService,
	}
}

// Classify handles POST /classify and POST /api/v1/classify
func (h *ClassifyHandler) Classify(c *gin.Context) {
	var req model.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response := h.triageService.Classify(c.Request.Context(), req.Text)
	c.JSON(http.StatusOK, response)
}

// ClassifyBatch handles POST /api/v1/classify/batch
func (h *ClassifyHandler) ClassifyBatch(c *gin.Context) {
	var req model.BatchClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.triageService.ClassifyBatch(c.Request.Context(), req.Texts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Classification failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// ClassifyBatchStream handles POST /api/v1/classify/stream - SSE batch classification
func (h *ClassifyHandler) ClassifyBatchStream(c *gin.Context) {
	var req model.BatchClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	sendSSE(c, "start", map[string]any{"total": len(req.Texts)})
	flusher.Flush()

	response, err := h.triageService.ClassifyBatchStream(c.Request.Context(), req.Texts, func(event string, data any) error {
		sendSSE(c, event, data)
		flusher.Flush()
		return nil
	})
	if err != nil {
		sendSSE(c, "error", map[string]any{"error": err.Error()})
		flusher.Flush()
		return
	}

	sendSSE(c, "summary", response.Summary)
	sendSSE(c, "done", nil)
	flusher.Flush()
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
			return
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
	} else {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
	}
}
