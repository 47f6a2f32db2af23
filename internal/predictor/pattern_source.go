package predictor

import "github.com/chrisdamba/vendorcast/internal/models"

// HistoricalContext summarizes what past data says about a vendor.
type HistoricalContext struct {
	PatternsFound int     `json:"patterns_found"`
	Confidence    float64 `json:"confidence"`
}

// PatternMatch is a past situation that resembles the day being forecast.
type PatternMatch struct {
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

// PatternSource is the hook a learning component would plug into. The
// forecast does not depend on its results today.
type PatternSource interface {
	Historical(vendorName string) HistoricalContext
	Matches(vendorID string, in NormalizedInput, rec *models.VendorRecord) []PatternMatch
}

// StaticPatternSource reports no history and no matches.
type StaticPatternSource struct{}

func (StaticPatternSource) Historical(string) HistoricalContext {
	return HistoricalContext{PatternsFound: 0, Confidence: 0.5}
}

func (StaticPatternSource) Matches(string, NormalizedInput, *models.VendorRecord) []PatternMatch {
	return []PatternMatch{}
}
