package model

import "time"

// Facet labels for the cab-configuration partition. Classification is
// best-effort text inference; unclassified vehicles appear only in the
// unfiltered view.
const (
	FacetDoubleCab = "double_cab"
	FacetSingleCab = "single_cab"
	FacetUnknown   = ""
)

// GroupInfo describes the base group a representative was chosen from,
// so the UI can show "1 of N similar listings" without re-running the pipeline.
type GroupInfo struct {
	BaseKey   string   `json:"base_key"`
	Size      int      `json:"size"`
	MemberIDs []string `json:"member_ids"`
}

// OpportunityReport is the full ranked result of one pipeline run
type OpportunityReport struct {
	RunID            string               `json:"run_id"`
	GeneratedAt      time.Time            `json:"generated_at"`
	Limit            int                  `json:"limit"`
	TotalListings    int                  `json:"total_listings"`
	EligibleGroups   int                  `json:"eligible_groups"`
	InsufficientData bool                 `json:"insufficient_data"`
	All              []ScoredVehicle      `json:"all"`
	DoubleCab        []ScoredVehicle      `json:"double_cab"`
	SingleCab        []ScoredVehicle      `json:"single_cab"`
	Groups           map[string]GroupInfo `json:"groups"` // keyed by representative listing ID
	Took             int64                `json:"took_ms"`
}

// EmbeddingBatchRequest represents a batch embedding update request
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem represents a single embedding with listing info
type EmbeddingItem struct {
	ListingID string    `json:"listing_id" binding:"required"`
	Embedding []float32 `json:"embedding" binding:"required"`
}

// EmbeddingBatchResponse represents the response for batch embedding update
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// FeedbackRequest represents a dealer action on a surfaced opportunity
type FeedbackRequest struct {
	RunID     string `json:"run_id" binding:"required"`
	ListingID string `json:"listing_id" binding:"required"`
	Action    string `json:"action" binding:"required"`
}

// FeedbackResponse represents the feedback submission result
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
