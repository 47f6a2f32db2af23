package predictor

import (
	"strings"

	"github.com/chrisdamba/vendorcast/internal/models"
)

// WeatherEffect keeps both parts of the weather impact and their product.
type WeatherEffect struct {
	WeatherMultiplier float64 `json:"weather_multiplier"`
	TemperatureFactor float64 `json:"temperature_factor"`
	CombinedImpact    float64 `json:"combined_impact"`
}

type TimeFactors struct {
	DayOfWeek  string `json:"day_of_week"`
	IsWeekend  bool   `json:"is_weekend"`
	IsFestival bool   `json:"is_festival"`
	IsPayday   bool   `json:"is_payday"`
}

type ItemCategories struct {
	Main      []string `json:"main"`
	Snacks    []string `json:"snacks"`
	Beverages []string `json:"beverages"`
}

// NormalizedInput is the first pipeline stage's view of one call.
type NormalizedInput struct {
	VendorID          string            `json:"vendor_id"`
	LocationFactors   LocationFactors   `json:"location_factors"`
	WeatherImpact     WeatherEffect     `json:"weather_impact"`
	TimeFactors       TimeFactors       `json:"time_factors"`
	ItemCategories    ItemCategories    `json:"item_categories"`
	HistoricalContext HistoricalContext `json:"historical_context"`
}

// Normalize derives every multiplier and flag the later stages need.
func Normalize(profile models.VendorProfile, day models.DayContext, patterns PatternSource) NormalizedInput {
	return NormalizedInput{
		VendorID:          profile.ID(),
		LocationFactors:   LocationFactorsFor(profile.LocationType),
		WeatherImpact:     WeatherImpactFor(day.Weather, day.Temperature),
		TimeFactors:       TimeFactorsFor(day),
		ItemCategories:    CategorizeItems(profile.ItemsSold),
		HistoricalContext: patterns.Historical(profile.Name),
	}
}

// LocationFactorsFor returns the factor table of a category, or
// {default: 1.0} when the category is unknown.
func LocationFactorsFor(l models.LocationType) LocationFactors {
	factors, ok := LocationPatterns[l]
	if !ok {
		factors = DefaultLocationFactors
	}
	return append(LocationFactors(nil), factors...)
}

// WeatherImpactFor combines the weather category and temperature band.
func WeatherImpactFor(w models.Weather, temperature int) WeatherEffect {
	base, ok := WeatherImpact[w]
	if !ok {
		base = 1.0
	}
	if w == models.WeatherHot && temperature > hotThreshold {
		base = hotAboveThreshold
	}

	tempFactor := 1.0
	switch {
	case temperature > extremeHeatThreshold:
		tempFactor = extremeHeatFactor
	case temperature > hotThreshold:
		tempFactor = veryHotFactor
	case temperature < coldThreshold:
		tempFactor = coldFactor
	}

	return WeatherEffect{
		WeatherMultiplier: base,
		TemperatureFactor: tempFactor,
		CombinedImpact:    base * tempFactor,
	}
}

func TimeFactorsFor(day models.DayContext) TimeFactors {
	return TimeFactors{
		DayOfWeek:  day.DayOfWeek,
		IsWeekend:  weekendDays[day.DayOfWeek],
		IsFestival: day.IsFestival,
		IsPayday:   day.IsPayday,
	}
}

// CategorizeItems sorts items into main, snacks and beverages by
// case-insensitive keyword. Anything unmatched counts as a snack.
func CategorizeItems(items []string) ItemCategories {
	c := ItemCategories{Main: []string{}, Snacks: []string{}, Beverages: []string{}}
	for _, item := range items {
		lower := strings.ToLower(item)
		switch {
		case containsAny(lower, MainKeywords):
			c.Main = append(c.Main, item)
		case containsAny(lower, SnackKeywords):
			c.Snacks = append(c.Snacks, item)
		case containsAny(lower, BeverageKeywords):
			c.Beverages = append(c.Beverages, item)
		default:
			c.Snacks = append(c.Snacks, item)
		}
	}
	return c
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
