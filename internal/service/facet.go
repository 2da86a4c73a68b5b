package service

import (
	"regexp"

	"autoradar/internal/model"
)

// CabRules classifies the cab configuration of pickup variants from free
// text. First match wins; double-cab cues are checked before single-cab so
// "doble cabina, not a single scratch" classifies as double.
var CabRules = []FeatureRule{
	{model.FacetDoubleCab, regexp.MustCompile(`\b(doble\s+cabina|double\s+cab|dual\s+cab|crew\s+cab|d[-/]?cab)\b`)},
	{model.FacetSingleCab, regexp.MustCompile(`\b(cabina\s+simple|cabina\s+sencilla|single\s+cab|regular\s+cab)\b`)},
}

// CabClassifier assigns the binary cab-configuration facet used to
// partition ranked results. There is no canonical ground truth in listing
// text, so misclassification is expected and tolerated downstream;
// unclassifiable listings get FacetUnknown and appear only in the
// unfiltered view.
type CabClassifier struct {
	extractor *FeatureExtractor
}

// NewCabClassifier creates a classifier over the shared text corpus
func NewCabClassifier(extractor *FeatureExtractor) *CabClassifier {
	return &CabClassifier{extractor: extractor}
}

// Classify returns the facet for a listing, fixed at classification time.
func (c *CabClassifier) Classify(l model.Listing) string {
	return firstMatch(CabRules, c.extractor.Corpus(l))
}
