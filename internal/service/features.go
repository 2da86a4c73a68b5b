package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"autoradar/internal/config"
	"autoradar/internal/model"
	"autoradar/internal/utils"
)

// Feature labels emitted by the extractor. Empty string means unknown.
const (
	FuelElectric = "electric"
	FuelHybrid   = "hybrid"
	FuelDiesel   = "diesel"
	FuelLPG      = "lpg"
	FuelGasoline = "gasoline"

	TractionAWD = "awd"
	Traction4x4 = "4x4"
	TractionFWD = "fwd"
	TractionRWD = "rwd"

	BodySUV         = "suv"
	BodyPickup      = "pickup"
	BodyHatchback   = "hatchback"
	BodyCoupe       = "coupe"
	BodyVan         = "van"
	BodyConvertible = "convertible"
	BodySedan       = "sedan"

	// MileageBucketUnknown is used when a listing has no mileage.
	MileageBucketUnknown = "unknown"
)

// FeatureRule pairs a detection pattern with the label it yields.
// Rule lists are evaluated in order, first match wins, so ordering is part
// of the contract: a hybrid ad that also mentions a gasoline engine must
// classify as hybrid.
type FeatureRule struct {
	Label   string
	Pattern *regexp.Regexp
}

// Patterns are word-boundary-aware so "4x4" inside another token or "van"
// inside "caravan" do not produce false positives.
var (
	// FuelRules is checked electric → hybrid → diesel → lpg/cng → gasoline.
	FuelRules = []FeatureRule{
		{FuelElectric, regexp.MustCompile(`\b(electric|eléctrico|electrico|ev|kwh)\b`)},
		{FuelHybrid, regexp.MustCompile(`\b(hybrid|híbrido|hibrido|hev|phev|mhev)\b`)},
		{FuelDiesel, regexp.MustCompile(`\b(diesel|diésel|tdi|crdi|dci|hdi)\b`)},
		{FuelLPG, regexp.MustCompile(`\b(lpg|cng|glp|gnc)\b`)},
		{FuelGasoline, regexp.MustCompile(`\b(gasoline|petrol|bencina|bencinero|nafta)\b`)},
	}

	// TractionRules is checked awd → 4x4 → fwd → rwd.
	TractionRules = []FeatureRule{
		{TractionAWD, regexp.MustCompile(`\b(awd|all\s+wheel\s+drive)\b`)},
		{Traction4x4, regexp.MustCompile(`\b(4x4|4wd)\b`)},
		{TractionFWD, regexp.MustCompile(`\b(fwd|front\s+wheel\s+drive)\b`)},
		{TractionRWD, regexp.MustCompile(`\b(rwd|rear\s+wheel\s+drive)\b`)},
	}

	// BodyRules is checked suv → pickup → hatchback → coupe → van → convertible → sedan.
	BodyRules = []FeatureRule{
		{BodySUV, regexp.MustCompile(`\bsuv\b`)},
		{BodyPickup, regexp.MustCompile(`\b(pickup|pick-up)\b`)},
		{BodyHatchback, regexp.MustCompile(`\bhatchback\b`)},
		{BodyCoupe, regexp.MustCompile(`\b(coupe|coupé)\b`)},
		{BodyVan, regexp.MustCompile(`\b(van|minivan|furgon|furgón)\b`)},
		{BodyConvertible, regexp.MustCompile(`\b(convertible|cabrio|cabriolet|descapotable)\b`)},
		{BodySedan, regexp.MustCompile(`\b(sedan|sedán|saloon)\b`)},
	}

	// displacementPattern matches an engine displacement like "2.0" or "3,0".
	displacementPattern = regexp.MustCompile(`\b(\d)[.,](\d)\b`)
)

// FeatureExtractor pulls structured configuration signals out of free
// listing text. It is pure: no side effects, same input → same output.
type FeatureExtractor struct {
	trimRules []FeatureRule
}

// NewFeatureExtractor compiles the trim patterns from the scoring tables.
// Trim patterns are matched in table order against the title only.
func NewFeatureExtractor(tables config.ScoringTables) *FeatureExtractor {
	trimRules := make([]FeatureRule, 0, len(tables.TrimPatterns))
	for _, pat := range tables.TrimPatterns {
		pat = strings.TrimSpace(strings.ToLower(pat))
		if pat == "" {
			continue
		}
		expr := strings.ReplaceAll(regexp.QuoteMeta(pat), `\ `, `\s+`)
		trimRules = append(trimRules, FeatureRule{
			Label:   pat,
			Pattern: regexp.MustCompile(`\b(` + expr + `)\b`),
		})
	}
	return &FeatureExtractor{trimRules: trimRules}
}

// Corpus builds the lowercased search text: title, description, motor,
// extras, characteristics and platform tags space-joined.
func (e *FeatureExtractor) Corpus(l model.Listing) string {
	parts := make([]string, 0, 6+len(l.Extras)+len(l.Characteristics)+len(l.Tags))
	parts = append(parts, l.Title)
	if l.Description != nil {
		parts = append(parts, *l.Description)
	}
	if l.Motor != nil {
		parts = append(parts, *l.Motor)
	}
	parts = append(parts, l.Extras...)
	parts = append(parts, l.Characteristics...)
	parts = append(parts, l.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Extract derives all configuration features for a listing in one pass.
func (e *FeatureExtractor) Extract(l model.Listing) model.ExtractedFeatures {
	corpus := e.Corpus(l)
	return model.ExtractedFeatures{
		FuelType:      e.fuelFrom(corpus, l),
		Traction:      firstMatch(TractionRules, corpus),
		BodyType:      firstMatch(BodyRules, corpus),
		Trim:          e.ExtractTrim(l),
		MileageBucket: MileageBucket(l.Mileage),
	}
}

// ExtractFuelType classifies the fuel type from listing text.
func (e *FeatureExtractor) ExtractFuelType(l model.Listing) string {
	return e.fuelFrom(e.Corpus(l), l)
}

// ExtractTraction classifies the traction from listing text.
func (e *FeatureExtractor) ExtractTraction(l model.Listing) string {
	return firstMatch(TractionRules, e.Corpus(l))
}

// ExtractBodyType classifies the body type from listing text.
func (e *FeatureExtractor) ExtractBodyType(l model.Listing) string {
	return firstMatch(BodyRules, e.Corpus(l))
}

// ExtractTrim scans the title (only) for a known trim name and returns it
// slugified, or empty when no pattern matches.
func (e *FeatureExtractor) ExtractTrim(l model.Listing) string {
	title := strings.ToLower(l.Title)
	for _, rule := range e.trimRules {
		if m := rule.Pattern.FindStringSubmatch(title); m != nil {
			return utils.Normalize(m[1])
		}
	}
	return ""
}

func (e *FeatureExtractor) fuelFrom(corpus string, l model.Listing) string {
	if fuel := firstMatch(FuelRules, corpus); fuel != "" {
		return fuel
	}
	// No keyword hit: a plain displacement in the motor field ("2.0")
	// indicates a conventional gasoline engine.
	if EngineDisplacement(l) > 0 {
		return FuelGasoline
	}
	return ""
}

// EngineDisplacement parses liters of displacement from the motor field,
// returning 0 when absent.
func EngineDisplacement(l model.Listing) float64 {
	if l.Motor == nil {
		return 0
	}
	m := displacementPattern.FindStringSubmatch(strings.ToLower(*l.Motor))
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1]+"."+m[2], 64)
	if err != nil {
		return 0
	}
	return v
}

// MileageBucket labels the half-open 50,000-unit bucket a mileage falls in,
// e.g. 120,000 → "100k-150k". Listings without mileage bucket to "unknown".
func MileageBucket(mileage *float64) string {
	if mileage == nil || *mileage < 0 {
		return MileageBucketUnknown
	}
	bucket := int(*mileage / 50000)
	return fmt.Sprintf("%dk-%dk", bucket*50, (bucket+1)*50)
}

func firstMatch(rules []FeatureRule, corpus string) string {
	for _, rule := range rules {
		if rule.Pattern.MatchString(corpus) {
			return rule.Label
		}
	}
	return ""
}
