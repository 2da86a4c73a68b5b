package service

import (
	"math"
	"testing"

	"autoradar/internal/model"
)

func testRanker() *InGroupRanker {
	return NewInGroupRanker(testTables(), testExtractor())
}

func TestScoreInGroup(t *testing.T) {
	ranker := testRanker()

	tests := []struct {
		name     string
		listing  model.Listing
		avgPrice float64
		want     float64
	}{
		{
			name:     "Price discount only",
			listing:  model.Listing{Title: "Hilux", Price: floatPtr(15000)},
			avgPrice: 20000,
			// 40 * (20000-15000)/20000 = 10
			want: 10,
		},
		{
			name:    "Mileage only",
			listing: model.Listing{Title: "Hilux", Mileage: floatPtr(150000)},
			// 30 * (1 - 150000/300000) = 15
			want: 15,
		},
		{
			name:    "Mileage beyond cap scores nothing",
			listing: model.Listing{Title: "Hilux", Mileage: floatPtr(350000)},
			want:    0,
		},
		{
			name:     "Price above average scores nothing",
			listing:  model.Listing{Title: "Hilux", Price: floatPtr(25000)},
			avgPrice: 20000,
			want:     0,
		},
		{
			name:    "Mid displacement bonus",
			listing: model.Listing{Title: "Hilux", Motor: strPtr("2.4 turbo")},
			want:    5,
		},
		{
			name:    "Large displacement double bonus",
			listing: model.Listing{Title: "Hilux", Motor: strPtr("3.0 v6")},
			want:    10,
		},
		{
			name:    "Positive keyword",
			listing: model.Listing{Title: "Hilux único dueño"},
			want:    3,
		},
		{
			name:    "Negative keyword",
			listing: model.Listing{Title: "Hilux chocado"},
			want:    -15,
		},
		{
			name: "Combined",
			listing: model.Listing{
				Title:   "Hilux único dueño",
				Price:   floatPtr(18000),
				Mileage: floatPtr(60000),
				Motor:   strPtr("2.8 diesel"),
			},
			avgPrice: 20000,
			// 40*0.1 + 30*0.8 + 5 + 3 = 36
			want: 36,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ranker.ScoreInGroup(tt.listing, tt.avgPrice)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ScoreInGroup() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBestOfGroup(t *testing.T) {
	ranker := testRanker()

	cheap := model.Listing{ID: "cheap", Title: "Hilux", Price: floatPtr(15000), Mileage: floatPtr(100000)}
	pricey := model.Listing{ID: "pricey", Title: "Hilux", Price: floatPtr(25000), Mileage: floatPtr(100000)}

	best := ranker.BestOfGroup([]model.Listing{pricey, cheap})
	if best == nil || best.ID != "cheap" {
		t.Fatalf("BestOfGroup picked %+v, want the cheaper listing", best)
	}
}

func TestBestOfGroup_Empty(t *testing.T) {
	if got := testRanker().BestOfGroup(nil); got != nil {
		t.Errorf("BestOfGroup(nil) = %+v, want nil", got)
	}
}

func TestBestWithAverage_TieKeepsFirst(t *testing.T) {
	ranker := testRanker()

	first := model.Listing{ID: "first", Title: "Hilux", Price: floatPtr(18000), Mileage: floatPtr(90000)}
	second := first
	second.ID = "second"

	best := ranker.BestWithAverage([]model.Listing{first, second}, 20000)
	if best == nil || best.ID != "first" {
		t.Fatalf("tie resolved to %+v, want the first member", best)
	}
}

func TestAveragePrice(t *testing.T) {
	tests := []struct {
		name     string
		listings []model.Listing
		want     float64
	}{
		{
			name: "Mean over priced members",
			listings: []model.Listing{
				{Price: floatPtr(10000)},
				{Price: floatPtr(20000)},
			},
			want: 15000,
		},
		{
			name: "Unpriced members ignored",
			listings: []model.Listing{
				{Price: floatPtr(10000)},
				{},
				{Price: floatPtr(30000)},
			},
			want: 20000,
		},
		{
			name:     "No prices",
			listings: []model.Listing{{}, {}},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AveragePrice(tt.listings); got != tt.want {
				t.Errorf("AveragePrice() = %v, want %v", got, tt.want)
			}
		})
	}
}
