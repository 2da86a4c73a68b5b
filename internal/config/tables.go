package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScoringTables holds the domain lookup tables used by the opportunity
// pipeline: keyword lists, condition-code scores and brand liquidity lists.
// They are plain data passed into the scoring components, never package-level
// state, so tests and deployments can override them.
//
// The numeric values are product-tuned heuristics; treat them as a black box.
type ScoringTables struct {
	PositiveKeywords    []string           `yaml:"positive_keywords"`
	NegativeKeywords    []string           `yaml:"negative_keywords"`
	ConditionScores     map[string]float64 `yaml:"condition_scores"`
	HighLiquidityBrands []string           `yaml:"high_liquidity_brands"`
	LowLiquidityBrands  []string           `yaml:"low_liquidity_brands"`
	TrimPatterns        []string           `yaml:"trim_patterns"`
}

// DefaultScoringTables returns the built-in tables used when no override
// file is configured.
func DefaultScoringTables() ScoringTables {
	return ScoringTables{
		PositiveKeywords: []string{
			"single owner",
			"único dueño",
			"full service record",
			"service history",
			"garage kept",
			"dealer maintained",
		},
		NegativeKeywords: []string{
			"wrecked",
			"chocado",
			"no papers",
			"sin papeles",
			"for parts",
			"needs repair",
			"fines",
			"debt",
			"no ac",
		},
		ConditionScores: map[string]float64{
			"new":       100,
			"like-new":  95,
			"good-used": 80,
			"used":      70,
			"damaged":   20,
		},
		HighLiquidityBrands: []string{
			"toyota",
			"hyundai",
			"kia",
			"chevrolet",
			"nissan",
			"suzuki",
			"mazda",
		},
		LowLiquidityBrands: []string{
			"jaguar",
			"alfa romeo",
			"ssangyong",
			"dodge",
			"volvo",
		},
		// Ordered: longer variants must precede their prefixes ("gt line" before "gt").
		TrimPatterns: []string{
			"limited",
			"gt line",
			"gt",
			"sport",
			"xlt",
			"xls",
			"gls",
			"exclusive",
			"active",
			"comfort",
		},
	}
}

// LoadScoringTables reads tables from a YAML file, falling back to the
// defaults when path is empty. Fields omitted in the file keep their defaults.
func LoadScoringTables(path string) (ScoringTables, error) {
	tables := DefaultScoringTables()
	if path == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ScoringTables{}, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return ScoringTables{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return tables, nil
}
