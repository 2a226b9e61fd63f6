package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/strauser85/snap-sold-sub001/internal/model"
	"github.com/strauser85/snap-sold-sub001/internal/service"
)

// RunHandler handles run log HTTP requests
type RunHandler struct {
	runService *service.RunService // nil when the run log is disabled
}

// NewRunHandler creates a new run handler
func NewRunHandler(runService *service.RunService) *RunHandler {
	return &RunHandler{
		runService: runService,
	}
}

func (h *RunHandler) available(c *gin.Context) bool {
	if h.runService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Run log is disabled"})
		return false
	}
	return true
}

// GetRun handles GET /api/v1/runs/:id
func (h *RunHandler) GetRun(c *gin.Context) {
	if !h.available(c) {
		return
	}

	run, err := h.runService.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get run")
		return
	}

	c.JSON(http.StatusOK, run)
}

// SimilarRuns handles GET /api/v1/runs/:id/similar?limit=N
func (h *RunHandler) SimilarRuns(c *gin.Context) {
	if !h.available(c) {
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
	}

	runs, err := h.runService.SimilarRuns(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err, "Failed to find similar runs")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// Feedback handles POST /api/v1/runs/:id/feedback
func (h *RunHandler) Feedback(c *gin.Context) {
	if !h.available(c) {
		return
	}

	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Action must be one of: accepted, reordered, rejected"})
		return
	}

	if err := h.runService.LogFeedback(c.Request.Context(), c.Param("id"), req.Action); err != nil {
		respondError(c, err, "Failed to log feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Feedback logged successfully",
	})
}
