package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/strauser85/snap-sold-sub001/internal/queue"
	"github.com/strauser85/snap-sold-sub001/internal/service"
)

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMissingNarration),
		errors.Is(err, service.ErrEmptyImageList),
		errors.Is(err, service.ErrTooManyImages),
		errors.Is(err, service.ErrInvalidRate):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrRunNotFound),
		errors.Is(err, queue.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrListingFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Server errors get the
// prefix so clients can tell which step failed.
func respondError(c *gin.Context, err error, prefix string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": prefix + ": " + err.Error()})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
