package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/strauser85/snap-sold-sub001/internal/model"
	"github.com/strauser85/snap-sold-sub001/internal/queue"
	"github.com/strauser85/snap-sold-sub001/internal/service"
)

// SequenceHandler handles sequencing-related HTTP requests
type SequenceHandler struct {
	sequenceService *service.SequenceService
	jobs            *queue.JobQueue // nil when async jobs are disabled
}

// NewSequenceHandler creates a new sequence handler
func NewSequenceHandler(sequenceService *service.SequenceService, jobs *queue.JobQueue) *SequenceHandler {
	return &SequenceHandler{
		sequenceService: sequenceService,
		jobs:            jobs,
	}
}

// Sequence handles POST /api/v1/sequence
func (h *SequenceHandler) Sequence(c *gin.Context) {
	var req model.SequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.sequenceService.Sequence(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Sequencing failed")
		return
	}

	c.JSON(http.StatusOK, response)
}

// SequenceStream handles POST /api/v1/sequence/stream - SSE progress while photos are classified
func (h *SequenceHandler) SequenceStream(c *gin.Context) {
	var req model.SequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	sendSSE(c, "start", map[string]any{
		"image_count": len(req.ImageURLs),
		"listing_url": req.ListingURL,
	})
	flusher.Flush()

	response, err := h.sequenceService.SequenceStream(c.Request.Context(), &req, func(event string, data any) error {
		sendSSE(c, event, data)
		flusher.Flush()
		return c.Request.Context().Err()
	})

	if err != nil {
		sendSSE(c, "error", map[string]any{"error": err.Error(), "status": statusFor(err)})
		flusher.Flush()
		return
	}

	sendSSE(c, "results", response)
	flusher.Flush()

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

// Captions handles POST /api/v1/captions?format=json|srt|vtt
func (h *SequenceHandler) Captions(c *gin.Context) {
	var req model.CaptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", "json"))
	if format != "json" && format != "srt" && format != "vtt" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format. Must be one of: json, srt, vtt"})
		return
	}

	response, err := h.sequenceService.Captions(&req)
	if err != nil {
		respondError(c, err, "Caption generation failed")
		return
	}

	switch format {
	case "srt":
		c.Data(http.StatusOK, "application/x-subrip; charset=utf-8", []byte(service.FormatSRT(response.Captions)))
	case "vtt":
		c.Data(http.StatusOK, "text/vtt; charset=utf-8", []byte(service.FormatWebVTT(response.Captions)))
	default:
		c.JSON(http.StatusOK, response)
	}
}

// ScoreScript handles POST /api/v1/script/score
func (h *SequenceHandler) ScoreScript(c *gin.Context) {
	var req model.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.sequenceService.ScoreScript(req.Narration))
}

// SubmitJob handles POST /api/v1/sequence/jobs
func (h *SequenceHandler) SubmitJob(c *gin.Context) {
	if h.jobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Async jobs are disabled"})
		return
	}

	var req model.SequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Narration) == "" {
		respondError(c, service.ErrMissingNarration, "")
		return
	}

	job, err := h.jobs.Submit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to queue job")
		return
	}

	c.JSON(http.StatusAccepted, model.JobAccepted{JobID: job.ID, Status: job.Status})
}

// GetJob handles GET /api/v1/sequence/jobs/:id
func (h *SequenceHandler) GetJob(c *gin.Context) {
	if h.jobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Async jobs are disabled"})
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get job")
		return
	}

	c.JSON(http.StatusOK, job)
}
