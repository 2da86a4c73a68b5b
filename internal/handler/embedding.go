package handler

import (
	"context"
	"fmt"
	"net/http"

	"autoradar/internal/model"

	"github.com/gin-gonic/gin"
)

// EmbeddingStore is the write access the embedding endpoint needs.
type EmbeddingStore interface {
	BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string)
}

// EmbeddingHandler handles embedding-related HTTP requests. The scraper
// computes description embeddings out of process and pushes them here so
// the similar-listings query has vectors to work with.
type EmbeddingHandler struct {
	store EmbeddingStore
}

// NewEmbeddingHandler creates a new embedding handler
func NewEmbeddingHandler(store EmbeddingStore) *EmbeddingHandler {
	return &EmbeddingHandler{store: store}
}

// BatchUpdate handles POST /api/v1/embeddings/batch
func (h *EmbeddingHandler) BatchUpdate(c *gin.Context) {
	var req model.EmbeddingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if len(req.Embeddings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No embeddings provided"})
		return
	}

	for i, item := range req.Embeddings {
		if len(item.Embedding) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Empty embedding at index %d", i),
			})
			return
		}
	}

	success, errors := h.store.BatchUpdateEmbeddings(c.Request.Context(), req.Embeddings)

	response := model.EmbeddingBatchResponse{
		Success: success,
		Failed:  len(req.Embeddings) - success,
		Errors:  errors,
	}

	if len(errors) > 0 {
		c.JSON(http.StatusPartialContent, response)
	} else {
		c.JSON(http.StatusOK, response)
	}
}
