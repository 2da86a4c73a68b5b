package service

import (
	"strings"

	"autoradar/internal/model"
	"autoradar/internal/utils"
)

// Key separators. Components are normalized (whitespace collapsed to
// hyphens) before joining, so neither separator can appear inside one.
const (
	baseKeySep     = "__"
	detailedKeySep = "|"

	// noYearSentinel stands in for listings without a model year.
	noYearSentinel = "sin-año"
)

// KeyBuilder derives the two grouping keys per listing: a coarse base key
// (brand+model+year) and a fine detailed key (base + extracted features +
// mileage bucket). Pure key derivation, no side effects.
type KeyBuilder struct {
	extractor *FeatureExtractor
}

// NewKeyBuilder creates a key builder on top of a feature extractor
func NewKeyBuilder(extractor *FeatureExtractor) *KeyBuilder {
	return &KeyBuilder{extractor: extractor}
}

// BaseKey groups listings by nominal model: brand + model + year.
// Two listings with the same base key are the same nominal vehicle,
// possibly in different configurations.
func (b *KeyBuilder) BaseKey(l model.Listing) string {
	year := noYearSentinel
	if l.Year != nil && strings.TrimSpace(*l.Year) != "" {
		year = utils.Normalize(*l.Year)
	}
	return utils.Normalize(l.Brand) + baseKeySep + utils.Normalize(l.Model) + baseKeySep + year
}

// DetailedKey refines the base key with the extracted configuration:
// trim, fuel, traction, body, transmission and mileage bucket. Identical
// detailed keys mean the same specific configuration.
func (b *KeyBuilder) DetailedKey(l model.Listing) string {
	features := b.extractor.Extract(l)
	transmission := ""
	if l.Transmission != nil {
		transmission = utils.Normalize(*l.Transmission)
	}
	return strings.Join([]string{
		b.BaseKey(l),
		features.Trim,
		features.FuelType,
		features.Traction,
		features.BodyType,
		transmission,
		features.MileageBucket,
	}, detailedKeySep)
}
