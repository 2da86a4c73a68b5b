package handler

import (
	"net/http"
	"strconv"

	"autoradar/internal/service"

	"github.com/gin-gonic/gin"
)

// OpportunityHandler handles opportunity-ranking HTTP requests
type OpportunityHandler struct {
	service      *service.OpportunityService
	defaultLimit int
	maxLimit     int
}

// NewOpportunityHandler creates a new opportunity handler
func NewOpportunityHandler(svc *service.OpportunityService, defaultLimit, maxLimit int) *OpportunityHandler {
	return &OpportunityHandler{
		service:      svc,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// GetOpportunities handles GET /api/v1/opportunities?limit=N
//
// A failed listing fetch returns 502 so the UI can show its error
// affordance; an insufficient sample is a 200 with insufficient_data set,
// which the UI renders as "not enough comparable data".
func (h *OpportunityHandler) GetOpportunities(c *gin.Context) {
	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit: " + raw})
			return
		}
		limit = parsed
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	report, err := h.service.TopOpportunities(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to compute opportunities: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
