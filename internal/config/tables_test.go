package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultScoringTables(t *testing.T) {
	tables := DefaultScoringTables()

	if len(tables.PositiveKeywords) == 0 {
		t.Error("Expected default positive keywords")
	}
	if len(tables.NegativeKeywords) == 0 {
		t.Error("Expected default negative keywords")
	}
	if tables.ConditionScores["new"] != 100 {
		t.Errorf("Expected condition score 100 for new, got %v", tables.ConditionScores["new"])
	}
	if tables.ConditionScores["damaged"] != 20 {
		t.Errorf("Expected condition score 20 for damaged, got %v", tables.ConditionScores["damaged"])
	}
}

func TestLoadScoringTables_EmptyPath(t *testing.T) {
	tables, err := LoadScoringTables("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(tables.HighLiquidityBrands) == 0 {
		t.Error("Expected defaults when path is empty")
	}
}

func TestLoadScoringTables_FileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.yaml")
	content := "positive_keywords:\n  - pristine interior\nhigh_liquidity_brands:\n  - toyota\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tables, err := LoadScoringTables(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(tables.PositiveKeywords) != 1 || tables.PositiveKeywords[0] != "pristine interior" {
		t.Errorf("Expected overridden positive keywords, got %v", tables.PositiveKeywords)
	}
	if len(tables.HighLiquidityBrands) != 1 {
		t.Errorf("Expected overridden brand list, got %v", tables.HighLiquidityBrands)
	}
	// Omitted fields keep their defaults
	if tables.ConditionScores["used"] != 70 {
		t.Errorf("Expected default condition scores to survive, got %v", tables.ConditionScores)
	}
}

func TestLoadScoringTables_MissingFile(t *testing.T) {
	if _, err := LoadScoringTables("/nonexistent/tables.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
