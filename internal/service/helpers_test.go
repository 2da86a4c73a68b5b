package service

import (
	"time"

	"autoradar/internal/config"
)

// Shared test helpers

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func timePtr(t time.Time) *time.Time { return &t }

func testTables() config.ScoringTables {
	return config.DefaultScoringTables()
}

func testExtractor() *FeatureExtractor {
	return NewFeatureExtractor(testTables())
}
