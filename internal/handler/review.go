package handler

import (
	"errors"
	"net/http"
	"strconv"

	"triage/internal/model"
	"triage/internal/repository"
	"triage/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewHandler handles the escalation review queue
type ReviewHandler struct {
	triageService *service.TriageService
	defaultLimit  int
	maxLimit      int
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(triageService *service.TriageService, defaultLimit, maxLimit int) *ReviewHandler {
	return &ReviewHandler{
		triageService: triageService,
		defaultLimit:  defaultLimit,
		maxLimit:      maxLimit,
	}
}

// List handles GET /api/v1/escalations
func (h *ReviewHandler) List(c *gin.Context) {
	limit := h.limit(c)
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	response, err := h.triageService.ListEscalations(c.Request.Context(), limit, offset)
	if err != nil {
		h.fail(c, "Failed to list escalations", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Similar handles GET /api/v1/escalations/:id/similar
func (h *ReviewHandler) Similar(c *gin.Context) {
	records, err := h.triageService.SimilarEscalations(c.Request.Context(), c.Param("id"), h.limit(c))
	if err != nil {
		h.fail(c, "Failed to find similar escalations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": records})
}

// Submit handles POST /api/v1/escalations/:id/review
func (h *ReviewHandler) Submit(c *gin.Context) {
	var req model.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.triageService.Review(c.Request.Context(), c.Param("id"), req.Label, req.Reviewer); err != nil {
		h.fail(c, "Failed to record review", err)
		return
	}

	c.JSON(http.StatusOK, model.ReviewResponse{
		Success: true,
		Message: "Review recorded successfully",
	})
}

func (h *ReviewHandler) limit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return h.defaultLimit
	}
	if limit > h.maxLimit {
		return h.maxLimit
	}
	return limit
}

func (h *ReviewHandler) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrStoreDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Review queue unavailable: database is not configured"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Classification not found"})
	case errors.Is(err, service.ErrInvalidLabel):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid label. Must be one of: question, comment, complaint"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg + ": " + err.Error()})
	}
}
