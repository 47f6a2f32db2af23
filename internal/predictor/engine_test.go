package predictor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allLocations = append(append([]models.LocationType{}, models.LocationTypes...), "unknown")

var allWeather = append(append([]models.Weather{}, models.WeatherConditions...), "foggy")

func TestPredictItemDemand_ClampAndFestivalMonotonic(t *testing.T) {
	items := []string{"Veg Rice", "Samosa", "Masala Chai", "Biscuit", "Pakora Rice"}
	for _, loc := range allLocations {
		for _, w := range allWeather {
			for temp := -5; temp <= 50; temp++ {
				factors := LocationFactorsFor(loc)
				impact := WeatherImpactFor(w, temp).CombinedImpact
				plain := PredictItemDemand(items, factors, impact, false)
				festive := PredictItemDemand(items, factors, impact, true)

				require.Len(t, plain, len(items))
				for i := range plain {
					assert.GreaterOrEqual(t, plain[i].Quantity, 10)
					assert.GreaterOrEqual(t, festive[i].Quantity, plain[i].Quantity,
						"%s %s %d %s", loc, w, temp, plain[i].Item)
				}
			}
		}
	}
}

func TestPredictItemDemand_KeepsOrderAndCollapsesDuplicates(t *testing.T) {
	got := PredictItemDemand([]string{"Samosa", "Chai", "Samosa"}, LocationFactorsFor(models.LocationOfficeArea), 1.0, false)
	assert.Equal(t, models.ItemDemand{{Item: "Samosa", Quantity: 60}, {Item: "Chai", Quantity: 60}}, got)
}

func TestPredictItemDemand_DefaultLocationHasNoKeywordBoost(t *testing.T) {
	got := PredictItemDemand([]string{"Rice", "Chai"}, DefaultLocationFactors, 1.0, false)
	assert.Equal(t, models.ItemDemand{{Item: "Rice", Quantity: 50}, {Item: "Chai", Quantity: 50}}, got)
}

func TestPredictRevenue_Bounds(t *testing.T) {
	for _, loc := range allLocations {
		for _, w := range allWeather {
			for _, temp := range []int{0, 9, 10, 25, 35, 36, 40, 41, 48} {
				for _, avg := range []float64{0, 1, 150, 650, 5000} {
					for _, flags := range [][2]bool{{false, false}, {true, false}, {false, true}, {true, true}} {
						d := models.DayContext{Weather: w, Temperature: temp, IsFestival: flags[0], IsPayday: flags[1]}
						r := PredictRevenue(avg, LocationFactorsFor(loc), WeatherImpactFor(w, temp).CombinedImpact, d)
						assert.LessOrEqual(t, r.Min, r.Max)
						assert.GreaterOrEqual(t, r.Min, 0)
					}
				}
			}
		}
	}
}

func TestPredictRevenue_MissingAverageUsesDefault(t *testing.T) {
	d := models.DayContext{Weather: models.WeatherSunny, Temperature: 25}
	got := PredictRevenue(0, DefaultLocationFactors, 1.0, d)
	assert.Equal(t, models.RevenueRange{Min: 640, Max: 960}, got)
	assert.Equal(t, got, PredictRevenue(-10, DefaultLocationFactors, 1.0, d))
}

func TestPredictPeakHours(t *testing.T) {
	assert.Equal(t, []int{12, 13, 18, 19}, PredictPeakHours(nil, LocationFactorsFor(models.LocationOfficeArea)))
	assert.Equal(t, []int{}, PredictPeakHours([]int{}, LocationFactorsFor(models.LocationMarket)))
	assert.Equal(t, []int{8, 9, 12, 13, 18, 19, 20, 21}, PredictPeakHours(nil, LocationFactorsFor(models.LocationTransportHub)))

	profile := []int{9, 8}
	got := PredictPeakHours(profile, LocationFactorsFor(models.LocationTransportHub))
	assert.Equal(t, []int{8, 9, 9, 8, 20, 21}, got)
	assert.Equal(t, []int{9, 8}, profile)
	assert.Equal(t, []int{12, 13, 18, 19}, models.DefaultPeakHours)
}

func TestRisksAndOpportunities(t *testing.T) {
	assert.Empty(t, IdentifyRisks(models.DayContext{Weather: models.WeatherSunny, Temperature: 40}))
	assert.Equal(t, []string{RiskHeavyRain, RiskExtremeHeat}, IdentifyRisks(models.DayContext{Weather: models.WeatherRainy, Temperature: 41}))
	assert.Equal(t, []string{RiskExtremeHeat}, IdentifyRisks(models.DayContext{Weather: models.WeatherHot, Temperature: 45}))

	assert.Empty(t, IdentifyOpportunities(models.DayContext{}))
	assert.Equal(t, []string{OpportunityFestival, OpportunityPayday}, IdentifyOpportunities(models.DayContext{IsFestival: true, IsPayday: true}))
}

func TestFormat_NoteOrder(t *testing.T) {
	confident := ConfidenceFor(120)

	tests := []struct {
		name       string
		forecast   ForecastResult
		confidence ConfidenceFactors
		want       []string
	}{
		{"nothing to say", ForecastResult{Revenue: models.RevenueRange{Min: 300, Max: 450}}, confident, []string{}},
		{"low revenue only", ForecastResult{Revenue: models.RevenueRange{Min: 299, Max: 450}}, confident, []string{NoteLowRevenue}},
		{"heat risk is not rain", ForecastResult{Revenue: models.RevenueRange{Min: 500}, RiskFactors: []string{RiskExtremeHeat}}, confident, []string{}},
		{"rain match is case sensitive", ForecastResult{Revenue: models.RevenueRange{Min: 500}, RiskFactors: []string{"Rain expected"}}, confident, []string{}},
		{"all three", ForecastResult{Revenue: models.RevenueRange{Min: 10}, RiskFactors: []string{RiskHeavyRain, "more rain"}}, ConfidenceFor(0), []string{NoteLowRevenue, NoteRainCover, NoteLowConfidence}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Format(tt.forecast, tt.confidence)
			assert.Equal(t, tt.want, out.SpecialNotes)
			assert.Equal(t, tt.confidence.Overall(), out.ConfidenceLevel)
		})
	}
}

func TestLoadPromptTemplates(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		got, err := LoadPromptTemplates(filepath.Join(t.TempDir(), "nope.txt"))
		require.NoError(t, err)
		assert.Equal(t, DefaultPromptTemplates(), got)
		assert.Contains(t, got[PromptRevenuePrediction], "Festival days can boost sales by 200-400%")
	})

	t.Run("file feeds demand analysis", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompts.txt")
		require.NoError(t, os.WriteFile(path, []byte("Watch the cricket schedule."), 0644))

		got, err := LoadPromptTemplates(path)
		require.NoError(t, err)
		assert.Equal(t, "Watch the cricket schedule.", got[PromptDemandAnalysis])
		assert.Equal(t, "Optimize inventory based on Indian street vendor context", got[PromptInventoryOptimization])
		assert.Equal(t, "Predict revenue in rupees and paise", got[PromptRevenuePrediction])
	})

	t.Run("directory is an error", func(t *testing.T) {
		_, err := LoadPromptTemplates(t.TempDir())
		assert.Error(t, err)
	})
}
