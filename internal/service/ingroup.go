package service

import (
	"strings"

	"autoradar/internal/config"
	"autoradar/internal/model"
)

// InGroupRanker scores listings within a sub-group with a cheap heuristic
// (relative price, mileage, engine size, keyword hits) to pick one
// representative. It is reused at two levels: once per detailed sub-group,
// then once per base group over the sub-group representatives.
type InGroupRanker struct {
	extractor *FeatureExtractor
	positive  []string
	negative  []string
}

// NewInGroupRanker creates a ranker with the configured keyword tables
func NewInGroupRanker(tables config.ScoringTables, extractor *FeatureExtractor) *InGroupRanker {
	return &InGroupRanker{
		extractor: extractor,
		positive:  lowerAll(tables.PositiveKeywords),
		negative:  lowerAll(tables.NegativeKeywords),
	}
}

// ScoreInGroup computes the unbounded heuristic score for a listing against
// its group's average price:
//   - up to 40 points for price below the group average, proportional
//   - up to 30 points for low mileage, decaying linearly to 0 at 300,000
//   - 5 points at ≥2.0L displacement, 5 more at ≥3.0L
//   - +3 per matched positive keyword, −15 per matched negative keyword
func (r *InGroupRanker) ScoreInGroup(l model.Listing, groupAvgPrice float64) float64 {
	var score float64

	if l.Price != nil && groupAvgPrice > 0 {
		if discount := (groupAvgPrice - *l.Price) / groupAvgPrice; discount > 0 {
			score += 40 * discount
		}
	}

	if l.Mileage != nil {
		if remaining := 1 - *l.Mileage/300000; remaining > 0 {
			score += 30 * remaining
		}
	}

	displacement := EngineDisplacement(l)
	if displacement >= 2.0 {
		score += 5
	}
	if displacement >= 3.0 {
		score += 5
	}

	corpus := r.extractor.Corpus(l)
	for _, kw := range r.positive {
		if strings.Contains(corpus, kw) {
			score += 3
		}
	}
	for _, kw := range r.negative {
		if strings.Contains(corpus, kw) {
			score -= 15
		}
	}

	return score
}

// BestOfGroup picks the maximum-scoring member of a group, scoring against
// the group's own average price. Returns nil for an empty group.
func (r *InGroupRanker) BestOfGroup(listings []model.Listing) *model.Listing {
	return r.BestWithAverage(listings, AveragePrice(listings))
}

// BestWithAverage picks the maximum-scoring member against an externally
// supplied average price (the base group's average when reducing sub-group
// representatives). Ties resolve to the first member in input order: the
// slice is walked front to back and only a strictly greater score replaces
// the current best.
func (r *InGroupRanker) BestWithAverage(listings []model.Listing, avgPrice float64) *model.Listing {
	if len(listings) == 0 {
		return nil
	}

	best := 0
	bestScore := r.ScoreInGroup(listings[0], avgPrice)
	for i := 1; i < len(listings); i++ {
		if score := r.ScoreInGroup(listings[i], avgPrice); score > bestScore {
			best = i
			bestScore = score
		}
	}
	return &listings[best]
}

// AveragePrice computes the mean price over members that have one,
// returning 0 when none do.
func AveragePrice(listings []model.Listing) float64 {
	var total float64
	var count int
	for _, l := range listings {
		if l.Price != nil {
			total += *l.Price
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(strings.ToLower(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
