package service

import (
	"testing"

	"autoradar/internal/model"
)

func TestBaseKey(t *testing.T) {
	keys := NewKeyBuilder(testExtractor())

	tests := []struct {
		name    string
		listing model.Listing
		want    string
	}{
		{
			name:    "Simple",
			listing: model.Listing{Brand: "Toyota", Model: "Hilux", Year: strPtr("2018")},
			want:    "toyota__hilux__2018",
		},
		{
			name:    "Whitespace collapsed",
			listing: model.Listing{Brand: "  Alfa  Romeo ", Model: "Giulietta", Year: strPtr(" 2015 ")},
			want:    "alfa-romeo__giulietta__2015",
		},
		{
			name:    "Missing year uses sentinel",
			listing: model.Listing{Brand: "Toyota", Model: "Hilux"},
			want:    "toyota__hilux__sin-año",
		},
		{
			name:    "Blank year uses sentinel",
			listing: model.Listing{Brand: "Toyota", Model: "Hilux", Year: strPtr("   ")},
			want:    "toyota__hilux__sin-año",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keys.BaseKey(tt.listing); got != tt.want {
				t.Errorf("BaseKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetailedKey(t *testing.T) {
	keys := NewKeyBuilder(testExtractor())

	listing := model.Listing{
		Brand:        "Toyota",
		Model:        "Hilux",
		Year:         strPtr("2018"),
		Title:        "Toyota Hilux SRV Limited 4x4",
		Description:  strPtr("pickup diesel impecable"),
		Transmission: strPtr("Automática"),
		Mileage:      floatPtr(120000),
	}

	want := "toyota__hilux__2018|limited|diesel|4x4|pickup|automática|100k-150k"
	if got := keys.DetailedKey(listing); got != want {
		t.Errorf("DetailedKey() = %q, want %q", got, want)
	}
}

func TestDetailedKey_UnknownSegmentsStayEmpty(t *testing.T) {
	keys := NewKeyBuilder(testExtractor())

	listing := model.Listing{Brand: "Toyota", Model: "Hilux", Year: strPtr("2018"), Title: "Toyota Hilux"}

	want := "toyota__hilux__2018||||||unknown"
	if got := keys.DetailedKey(listing); got != want {
		t.Errorf("DetailedKey() = %q, want %q", got, want)
	}
}

func TestDetailedKey_DistinguishesConfigurations(t *testing.T) {
	keys := NewKeyBuilder(testExtractor())

	base := model.Listing{Brand: "Toyota", Model: "Hilux", Year: strPtr("2018"), Title: "Toyota Hilux diesel"}
	other := base
	other.Title = "Toyota Hilux GNC"

	if keys.BaseKey(base) != keys.BaseKey(other) {
		t.Fatalf("base keys should match: %q vs %q", keys.BaseKey(base), keys.BaseKey(other))
	}
	if keys.DetailedKey(base) == keys.DetailedKey(other) {
		t.Errorf("detailed keys should differ for different fuel types: %q", keys.DetailedKey(base))
	}
}
