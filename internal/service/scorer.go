package service

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"autoradar/internal/config"
	"autoradar/internal/model"
	"autoradar/internal/utils"
)

// Score tag constants
const (
	TagExcellentPrice = "Excellent Price"
	TagLowUse         = "Low Use"
	TagHighResale     = "High Resale"
	TagPristine       = "Pristine"
)

// avgKmPerYear is the assumed market-average annual mileage.
const avgKmPerYear = 17000.0

// ScoreWeights defines the relative importance of each scoring signal.
// Weights must sum to 1 for the final clamp to be tight.
type ScoreWeights struct {
	Price     float64
	Mileage   float64
	Condition float64
	Market    float64
	Recency   float64
}

// DefaultScoreWeights returns the product-tuned weights.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Price:     0.50,
		Mileage:   0.20,
		Condition: 0.15,
		Market:    0.10,
		Recency:   0.05,
	}
}

// OpportunityScorer computes a normalized 0–100 opportunity score per
// vehicle from five independently-scored signals. Every signal degrades to
// a neutral score when its inputs are missing; the scorer never errors on
// incomplete listings.
type OpportunityScorer struct {
	weights    ScoreWeights
	minPrice   float64
	conditions map[string]float64
	highBrands map[string]bool
	lowBrands  map[string]bool
	positive   []string
	negative   []string
	now        func() time.Time
}

// NewOpportunityScorer creates a scorer with the given tables and weights.
// minPrice is the floor below which listings are treated as noise.
func NewOpportunityScorer(tables config.ScoringTables, weights ScoreWeights, minPrice float64) *OpportunityScorer {
	conditions := make(map[string]float64, len(tables.ConditionScores))
	for code, score := range tables.ConditionScores {
		conditions[strings.ToLower(strings.TrimSpace(code))] = score
	}
	return &OpportunityScorer{
		weights:    weights,
		minPrice:   minPrice,
		conditions: conditions,
		highBrands: brandSet(tables.HighLiquidityBrands),
		lowBrands:  brandSet(tables.LowLiquidityBrands),
		positive:   lowerAll(tables.PositiveKeywords),
		negative:   lowerAll(tables.NegativeKeywords),
		now:        time.Now,
	}
}

// ScoreVehicle scores a single listing against its market price statistic
// (nil when no statistic exists for the brand/model/year triple).
func (s *OpportunityScorer) ScoreVehicle(l model.Listing, stat *model.PriceStatistic) model.ScoredVehicle {
	breakdown := model.ScoreBreakdown{
		Price:     utils.Clamp(s.PriceScore(l, stat), 0, 100),
		Mileage:   utils.Clamp(s.MileageScore(l), 0, 100),
		Condition: utils.Clamp(s.ConditionScore(l), 0, 100),
		Market:    utils.Clamp(s.MarketScore(l), 0, 100),
		Recency:   utils.Clamp(s.RecencyScore(l), 0, 100),
	}

	total := breakdown.Price*s.weights.Price +
		breakdown.Mileage*s.weights.Mileage +
		breakdown.Condition*s.weights.Condition +
		breakdown.Market*s.weights.Market +
		breakdown.Recency*s.weights.Recency

	return model.ScoredVehicle{
		Listing:          l,
		OpportunityScore: utils.Clamp(utils.Round2(total), 0, 100),
		Breakdown:        breakdown,
		ScoreTags:        s.scoreTags(breakdown),
	}
}

// PriceScore maps the discount against the market median to 0–100.
// Discounts beyond 45% score a flat 40: prices that far under market are
// suspicious (undisclosed damage, scam) rather than a bargain.
func (s *OpportunityScorer) PriceScore(l model.Listing, stat *model.PriceStatistic) float64 {
	if l.Price == nil || stat == nil || stat.MedianPrice <= 0 {
		return 50
	}

	discount := (stat.MedianPrice - *l.Price) / stat.MedianPrice * 100
	switch {
	case discount > 45:
		return 40
	case discount > 20:
		return 100
	case discount > 5:
		return 80 + (discount-5)/15*20
	case discount > -5:
		return 70
	default:
		return math.Max(0, 70-math.Abs(discount)*1.5)
	}
}

// MileageScore rates annualized mileage against the market average.
func (s *OpportunityScorer) MileageScore(l model.Listing) float64 {
	year := listingYear(l)
	if l.Mileage == nil || year == 0 {
		return 50
	}

	age := math.Max(0.5, float64(s.now().Year()-year))
	kmPerYear := *l.Mileage / age

	switch {
	case kmPerYear < 5000:
		return 100
	case kmPerYear < 10000:
		return 90 + (10000-kmPerYear)/5000*10
	case kmPerYear < avgKmPerYear:
		return 60 + (avgKmPerYear-kmPerYear)/(avgKmPerYear-10000)*30
	default:
		ratio := kmPerYear / avgKmPerYear
		return math.Max(0, 60-(ratio-1)*60)
	}
}

// ConditionScore starts from a condition-code base and adjusts for
// positive/negative keywords in title and description. Clamped to [10, 100].
func (s *OpportunityScorer) ConditionScore(l model.Listing) float64 {
	score := 70.0
	if l.Condition != nil {
		if v, ok := s.conditions[strings.ToLower(strings.TrimSpace(*l.Condition))]; ok {
			score = v
		}
	}

	text := strings.ToLower(l.Title)
	if l.Description != nil {
		text += " " + strings.ToLower(*l.Description)
	}
	if containsAny(text, s.positive) {
		score += 10
	}
	if containsAny(text, s.negative) {
		score -= 15
	}

	return utils.Clamp(score, 10, 100)
}

// MarketScore estimates liquidity from vehicle age and brand turnover.
// Ages 3–7 are the depreciated sweet spot; near-new cars are desirable but
// pricier, and very old ones move slowly.
func (s *OpportunityScorer) MarketScore(l model.Listing) float64 {
	year := listingYear(l)
	if year == 0 || strings.TrimSpace(l.Brand) == "" {
		return 50
	}

	age := s.now().Year() - year
	if age < 0 {
		age = 0
	}

	var base float64
	switch {
	case age <= 2:
		base = 80
	case age <= 7:
		base = 100
	case age <= 12:
		base = 70
	default:
		base = math.Max(30, 70-float64(age-12)*5)
	}

	factor := 1.0
	brand := strings.ToLower(strings.TrimSpace(l.Brand))
	if s.highBrands[brand] {
		factor = 1.2
	} else if s.lowBrands[brand] {
		factor = 0.8
	}

	return math.Min(100, base*factor)
}

// RecencyScore favors freshly published listings.
func (s *OpportunityScorer) RecencyScore(l model.Listing) float64 {
	if l.PublishedAt == nil {
		return 50
	}

	hours := s.now().Sub(*l.PublishedAt).Hours()
	if hours < 24 {
		return 100
	}
	return math.Max(20, 100-hours/24*5)
}

// TopOpportunities scores every vehicle against the price-statistics map
// (exact brand_model_year key, neutral on miss), drops vehicles with no
// price or a price at or below the noise floor, and returns the top `limit`
// by opportunity score. The sort is stable: ties keep input order.
func (s *OpportunityScorer) TopOpportunities(listings []model.Listing, stats map[string]model.PriceStatistic, limit int) []model.ScoredVehicle {
	scored := make([]model.ScoredVehicle, 0, len(listings))
	for _, l := range listings {
		if l.Price == nil || *l.Price <= s.minPrice {
			continue
		}
		scored = append(scored, s.ScoreVehicle(l, s.lookupStat(l, stats)))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].OpportunityScore > scored[j].OpportunityScore
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func (s *OpportunityScorer) lookupStat(l model.Listing, stats map[string]model.PriceStatistic) *model.PriceStatistic {
	if l.Year == nil {
		return nil
	}
	if stat, ok := stats[model.StatKey(l.Brand, l.Model, *l.Year)]; ok {
		return &stat
	}
	return nil
}

func (s *OpportunityScorer) scoreTags(b model.ScoreBreakdown) []string {
	tags := []string{}
	if b.Price > 85 {
		tags = append(tags, TagExcellentPrice)
	}
	if b.Mileage > 90 {
		tags = append(tags, TagLowUse)
	}
	if b.Market > 85 {
		tags = append(tags, TagHighResale)
	}
	if b.Condition > 90 {
		tags = append(tags, TagPristine)
	}
	return tags
}

// listingYear parses the listing year, returning 0 when absent or malformed.
func listingYear(l model.Listing) int {
	if l.Year == nil {
		return 0
	}
	year, err := strconv.Atoi(strings.TrimSpace(*l.Year))
	if err != nil || year <= 0 {
		return 0
	}
	return year
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func brandSet(brands []string) map[string]bool {
	set := make(map[string]bool, len(brands))
	for _, b := range brands {
		if b = strings.ToLower(strings.TrimSpace(b)); b != "" {
			set[b] = true
		}
	}
	return set
}
