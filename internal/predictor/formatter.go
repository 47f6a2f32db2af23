package predictor

import (
	"strings"

	"github.com/chrisdamba/vendorcast/internal/models"
)

// Format turns a forecast into the caller-facing prediction and adds the
// advisory notes in a fixed order.
func Format(f ForecastResult, confidence ConfidenceFactors) *models.PredictionOutput {
	overall := confidence.Overall()

	notes := []string{}
	if f.Revenue.Min < lowRevenueThreshold {
		notes = append(notes, NoteLowRevenue)
	}
	for _, risk := range f.RiskFactors {
		if strings.Contains(risk, "rain") {
			notes = append(notes, NoteRainCover)
			break
		}
	}
	if overall < lowConfidenceThreshold {
		notes = append(notes, NoteLowConfidence)
	}

	return &models.PredictionOutput{
		RecommendedItems: f.ItemDemand,
		ExpectedRevenue:  f.Revenue,
		PeakHours:        f.PeakHours,
		SpecialNotes:     notes,
		ConfidenceLevel:  overall,
	}
}
