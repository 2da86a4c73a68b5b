package handler

import (
	"context"
	"net/http"

	"autoradar/internal/model"

	"github.com/gin-gonic/gin"
)

// FeedbackStore is the write access the feedback endpoint needs.
type FeedbackStore interface {
	LogFeedback(ctx context.Context, runID, listingID, action string) error
}

// FeedbackHandler handles feedback-related HTTP requests
type FeedbackHandler struct {
	store FeedbackStore
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(store FeedbackStore) *FeedbackHandler {
	return &FeedbackHandler{store: store}
}

// Submit handles POST /api/v1/feedback: a dealer marking what they did with
// a surfaced opportunity.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	validActions := map[string]bool{
		"viewed":    true,
		"pursued":   true,
		"dismissed": true,
	}

	if !validActions[req.Action] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action. Must be one of: viewed, pursued, dismissed"})
		return
	}

	if err := h.store.LogFeedback(c.Request.Context(), req.RunID, req.ListingID, req.Action); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log feedback: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.FeedbackResponse{
		Success: true,
		Message: "Feedback logged successfully",
	})
}
