package handler

import (
	"context"
	"net/http"

	"autoradar/internal/model"

	"github.com/gin-gonic/gin"
)

// ListingStore is the read access the listing endpoints need.
type ListingStore interface {
	GetListingByID(ctx context.Context, listingID string) (*model.Listing, error)
	SimilarListings(ctx context.Context, listingID string, limit int) ([]model.Listing, error)
}

// ListingHandler handles single-listing HTTP requests
type ListingHandler struct {
	store        ListingStore
	similarLimit int
}

// NewListingHandler creates a new listing handler
func NewListingHandler(store ListingStore, similarLimit int) *ListingHandler {
	return &ListingHandler{
		store:        store,
		similarLimit: similarLimit,
	}
}

// GetListing handles GET /api/v1/listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	listingID := c.Param("id")
	if listingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	listing, err := h.store.GetListingByID(c.Request.Context(), listingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listing: " + err.Error()})
		return
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// GetSimilar handles GET /api/v1/listings/:id/similar
func (h *ListingHandler) GetSimilar(c *gin.Context) {
	listingID := c.Param("id")
	if listingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	listings, err := h.store.SimilarListings(c.Request.Context(), listingID, h.similarLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get similar listings: " + err.Error()})
		return
	}
	if listings == nil {
		listings = []model.Listing{}
	}

	c.JSON(http.StatusOK, gin.H{"results": listings, "total": len(listings)})
}
