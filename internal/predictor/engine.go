package predictor

import (
	"strings"

	"github.com/chrisdamba/vendorcast/internal/models"
)

// ForecastResult is the heuristic core's answer before notes and confidence.
type ForecastResult struct {
	ItemDemand    models.ItemDemand   `json:"item_demand"`
	Revenue       models.RevenueRange `json:"revenue_forecast"`
	PeakHours     []int               `json:"peak_hours"`
	RiskFactors   []string            `json:"risk_factors"`
	Opportunities []string            `json:"opportunities"`
}

// Forecast is a pure function of the assembled state and the day.
func Forecast(state State, day models.DayContext) ForecastResult {
	profile := state.Record.Profile
	in := state.Input
	return ForecastResult{
		ItemDemand:    PredictItemDemand(profile.ItemsSold, in.LocationFactors, in.WeatherImpact.CombinedImpact, day.IsFestival),
		Revenue:       PredictRevenue(profile.AvgDailyRevenue, in.LocationFactors, in.WeatherImpact.CombinedImpact, day),
		PeakHours:     PredictPeakHours(profile.PeakHours, in.LocationFactors),
		RiskFactors:   IdentifyRisks(day),
		Opportunities: IdentifyOpportunities(day),
	}
}

// PredictItemDemand scales a base of 50 units per item and never goes below
// 10. A repeated item name keeps its first position.
func PredictItemDemand(items []string, factors LocationFactors, weatherImpact float64, festival bool) models.ItemDemand {
	demand := make(models.ItemDemand, 0, len(items))
	seen := make(map[string]bool, len(items))
	lunch, hasLunch := factors.Get(FactorLunchDemand)
	evening, hasEvening := factors.Get(FactorEveningSnacks)

	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true

		lower := strings.ToLower(item)
		qty := baseItemDemand
		if hasLunch && strings.Contains(lower, LunchKeyword) {
			qty *= lunch
		}
		if hasEvening && containsAny(lower, EveningSnackKeywords) {
			qty *= evening
		}
		qty *= weatherImpact
		if festival {
			qty *= festivalDemand
		}

		units := int(qty)
		if units < minItemDemand {
			units = minItemDemand
		}
		demand = append(demand, models.ItemRecommendation{Item: item, Quantity: units})
	}
	return demand
}

// PredictRevenue returns 80% and 120% of the adjusted average revenue.
// A non-positive average counts as missing.
func PredictRevenue(avg float64, factors LocationFactors, weatherImpact float64, day models.DayContext) models.RevenueRange {
	base := avg
	if base <= 0 {
		base = models.DefaultAvgDailyRevenue
	}

	adjusted := base * factors.Mean() * weatherImpact
	if day.IsFestival {
		adjusted *= festivalRevenue
	}
	if day.IsPayday {
		adjusted *= paydayRevenue
	}

	return models.RevenueRange{
		Min: int(adjusted * revenueLowBand),
		Max: int(adjusted * revenueHighBand),
	}
}

// PredictPeakHours extends the vendor's hours with rush windows. Order and
// duplicates are kept as they fall out of the concatenation.
func PredictPeakHours(profileHours []int, factors LocationFactors) []int {
	base := profileHours
	if base == nil {
		base = models.DefaultPeakHours
	}

	hours := make([]int, 0, len(base)+len(morningRushHours)+len(eveningRushHours))
	if factors.Has(FactorMorningRush) {
		hours = append(hours, morningRushHours...)
	}
	hours = append(hours, base...)
	if factors.Has(FactorEveningRush) {
		hours = append(hours, eveningRushHours...)
	}
	return hours
}

func IdentifyRisks(day models.DayContext) []string {
	risks := []string{}
	if day.Weather == models.WeatherRainy {
		risks = append(risks, RiskHeavyRain)
	}
	if day.Temperature > extremeHeatThreshold {
		risks = append(risks, RiskExtremeHeat)
	}
	return risks
}

func IdentifyOpportunities(day models.DayContext) []string {
	opportunities := []string{}
	if day.IsFestival {
		opportunities = append(opportunities, OpportunityFestival)
	}
	if day.IsPayday {
		opportunities = append(opportunities, OpportunityPayday)
	}
	return opportunities
}
