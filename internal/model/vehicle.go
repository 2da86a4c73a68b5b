package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
)

// Listing represents a scraped third-party vehicle listing
type Listing struct {
	ID              string          `json:"id" db:"id"`
	Brand           string          `json:"brand" db:"brand"`
	Model           string          `json:"model" db:"model"`
	Year            *string         `json:"year,omitempty" db:"year"`
	Price           *float64        `json:"price,omitempty" db:"price"`
	Mileage         *float64        `json:"mileage,omitempty" db:"mileage"`
	Title           string          `json:"title" db:"title"`
	Description     *string         `json:"description,omitempty" db:"description"`
	Motor           *string         `json:"motor,omitempty" db:"motor"`
	Extras          JSONArray       `json:"extras,omitempty" db:"extras"`
	Characteristics JSONArray       `json:"characteristics,omitempty" db:"characteristics"`
	Tags            JSONArray       `json:"tags,omitempty" db:"tags"`
	Transmission    *string         `json:"transmission,omitempty" db:"transmission"`
	Condition       *string         `json:"condition,omitempty" db:"condition"`
	PublishedAt     *time.Time      `json:"published_at,omitempty" db:"published_at"`
	Location        *string         `json:"location,omitempty" db:"location"`
	ImageURLs       JSONArray       `json:"image_urls,omitempty" db:"image_urls"`
	SellerID        *int64          `json:"seller_id,omitempty" db:"seller_id"`
	SellerName      *string         `json:"seller_name,omitempty" db:"seller_name"`
	SellerLocation  *string         `json:"seller_location,omitempty" db:"seller_location"`
	Embedding       pgvector.Vector `json:"-" db:"embedding"`
	Distance        *float64        `json:"distance,omitempty" db:"distance"` // Similarity distance (only on similar-listing queries)
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// PriceStatistic is the externally supplied market price aggregate for a
// brand/model/year triple
type PriceStatistic struct {
	Brand       string  `json:"brand" db:"brand"`
	Model       string  `json:"model" db:"model"`
	Year        string  `json:"year" db:"year"`
	MedianPrice float64 `json:"median_price" db:"median_price"`
	MinPrice    float64 `json:"min_price" db:"min_price"`
	MaxPrice    float64 `json:"max_price" db:"max_price"`
	AvgPrice    float64 `json:"avg_price" db:"avg_price"`
	SampleCount int     `json:"sample_count" db:"sample_count"`
}

// Key returns the composite lookup key used by the scorer.
func (p PriceStatistic) Key() string {
	return StatKey(p.Brand, p.Model, p.Year)
}

// StatKey builds the exact-match composite key for price-statistic lookups.
func StatKey(brand, model, year string) string {
	return fmt.Sprintf("%s_%s_%s", brand, model, year)
}

// ExtractedFeatures holds the configuration signals derived from listing text.
// Empty strings mean the signal could not be determined.
type ExtractedFeatures struct {
	FuelType      string `json:"fuel_type"`
	Traction      string `json:"traction"`
	BodyType      string `json:"body_type"`
	Trim          string `json:"trim"`
	MileageBucket string `json:"mileage_bucket"`
}

// ScoreBreakdown shows the per-signal scores behind an opportunity score
type ScoreBreakdown struct {
	Price     float64 `json:"price"`
	Mileage   float64 `json:"mileage"`
	Condition float64 `json:"condition"`
	Market    float64 `json:"market"`
	Recency   float64 `json:"recency"`
}

// ScoredVehicle is a listing plus its computed opportunity score
type ScoredVehicle struct {
	Listing
	OpportunityScore float64        `json:"opportunity_score"`
	Breakdown        ScoreBreakdown `json:"breakdown"`
	ScoreTags        []string       `json:"score_tags"`
	Facet            string         `json:"facet,omitempty"` // cab-configuration facet, fixed at classification time
}

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), j)
	}
	return json.Unmarshal(bytes, j)
}
