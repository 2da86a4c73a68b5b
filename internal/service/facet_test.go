package service

import (
	"testing"

	"autoradar/internal/model"
)

func TestCabClassify(t *testing.T) {
	classifier := NewCabClassifier(testExtractor())

	tests := []struct {
		name    string
		listing model.Listing
		want    string
	}{
		{
			name:    "Spanish double cab",
			listing: model.Listing{Title: "Toyota Hilux doble cabina 4x4"},
			want:    model.FacetDoubleCab,
		},
		{
			name:    "English crew cab",
			listing: model.Listing{Title: "Ford F-150 crew cab XLT"},
			want:    model.FacetDoubleCab,
		},
		{
			name:    "Abbreviated d-cab",
			listing: model.Listing{Title: "Hilux d-cab SRV"},
			want:    model.FacetDoubleCab,
		},
		{
			name:    "Spanish single cab",
			listing: model.Listing{Title: "Hilux cabina simple de trabajo"},
			want:    model.FacetSingleCab,
		},
		{
			name:    "Double checked before single",
			listing: model.Listing{Title: "Hilux doble cabina", Description: strPtr("not a single cab scratch")},
			want:    model.FacetDoubleCab,
		},
		{
			name:    "Cue in description",
			listing: model.Listing{Title: "Hilux SRV", Description: strPtr("pickup doble cabina full")},
			want:    model.FacetDoubleCab,
		},
		{
			name:    "No cue",
			listing: model.Listing{Title: "Toyota Hilux SRV 4x4"},
			want:    model.FacetUnknown,
		},
		{
			name:    "Cabina alone is not a cue",
			listing: model.Listing{Title: "Hilux cabina amplia"},
			want:    model.FacetUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Classify(tt.listing); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
