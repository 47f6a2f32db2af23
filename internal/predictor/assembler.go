package predictor

import (
	"math"

	"github.com/chrisdamba/vendorcast/internal/models"
)

const (
	fullHistoryDays     = 30
	seasonalHistoryDays = 90
)

// ConfidenceFactors are the four sub-scores averaged into the final confidence.
type ConfidenceFactors struct {
	HistoricalData    float64 `json:"historical_data"`
	WeatherData       float64 `json:"weather_data"`
	LocationKnowledge float64 `json:"location_knowledge"`
	SeasonalPatterns  float64 `json:"seasonal_patterns"`
}

// Overall is the unweighted mean, summed in field order.
func (c ConfidenceFactors) Overall() float64 {
	sum := 0.0
	for _, v := range []float64{c.HistoricalData, c.WeatherData, c.LocationKnowledge, c.SeasonalPatterns} {
		sum += v
	}
	return sum / 4
}

// State is the assembled input of the forecast stage. Record is borrowed
// from the memory store for the duration of one call.
type State struct {
	Record         *models.VendorRecord `json:"-"`
	Input          NormalizedInput      `json:"input"`
	Confidence     ConfidenceFactors    `json:"confidence_factors"`
	PatternMatches []PatternMatch       `json:"pattern_matches"`
}

// RecordSource is the part of the memory store the assembler needs.
type RecordSource interface {
	GetOrCreate(vendorID string, profile models.VendorProfile) *models.VendorRecord
}

// Assemble looks up (or creates) the vendor record and scores confidence.
func Assemble(records RecordSource, patterns PatternSource, in NormalizedInput, profile models.VendorProfile) State {
	rec := records.GetOrCreate(in.VendorID, profile)
	return State{
		Record:         rec,
		Input:          in,
		Confidence:     ConfidenceFor(len(rec.SalesHistory)),
		PatternMatches: patterns.Matches(in.VendorID, in, rec),
	}
}

func ConfidenceFor(historyLength int) ConfidenceFactors {
	seasonal := 0.6
	if historyLength >= seasonalHistoryDays {
		seasonal = 0.9
	}
	return ConfidenceFactors{
		HistoricalData:    math.Min(float64(historyLength)/fullHistoryDays, 1.0),
		WeatherData:       0.8,
		LocationKnowledge: 0.9,
		SeasonalPatterns:  seasonal,
	}
}
