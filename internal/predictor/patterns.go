package predictor

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/chrisdamba/vendorcast/internal/models"
)

// Factor is one named demand multiplier of a location category.
type Factor struct {
	Name  string
	Value float64
}

// LocationFactors is an ordered factor list. Order matters: revenue uses the
// plain mean of the values, summed in this order.
type LocationFactors []Factor

// Get returns the named factor, if the category has it.
func (f LocationFactors) Get(name string) (float64, bool) {
	for _, factor := range f {
		if factor.Name == name {
			return factor.Value, true
		}
	}
	return 0, false
}

// MarshalJSON writes the factors as an object in table order.
func (f LocationFactors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, factor := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(factor.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(factor.Value, 'g', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (f LocationFactors) Has(name string) bool {
	_, ok := f.Get(name)
	return ok
}

// Mean is the unweighted average of all factor values.
func (f LocationFactors) Mean() float64 {
	if len(f) == 0 {
		return 1.0
	}
	sum := 0.0
	for _, factor := range f {
		sum += factor.Value
	}
	return sum / float64(len(f))
}

const (
	FactorLunchDemand        = "lunch_demand"
	FactorEveningSnacks      = "evening_snacks"
	FactorPriceTolerance     = "price_tolerance"
	FactorPaydayBoost        = "payday_boost"
	FactorWeekendBoost       = "weekend_boost"
	FactorExamPeriodDrop     = "exam_period_drop"
	FactorMorningRush        = "morning_rush"
	FactorEveningRush        = "evening_rush"
	FactorWeatherSensitivity = "weather_sensitivity"
	FactorAllDaySteady       = "all_day_steady"
	FactorFestivalBoost      = "festival_boost"
	FactorCompetition        = "competition_factor"
	FactorDefault            = "default"
)

var (
	LocationPatterns = map[models.LocationType]LocationFactors{
		models.LocationOfficeArea: {
			{FactorLunchDemand, 1.5},
			{FactorEveningSnacks, 1.2},
			{FactorPriceTolerance, 1.3},
			{FactorPaydayBoost, 1.8},
		},
		models.LocationResidential: {
			{FactorLunchDemand, 0.8},
			{FactorEveningSnacks, 1.4},
			{FactorPriceTolerance, 0.9},
			{FactorWeekendBoost, 1.6},
		},
		models.LocationCollege: {
			{FactorLunchDemand, 1.8},
			{FactorEveningSnacks, 1.6},
			{FactorPriceTolerance, 0.7},
			{FactorExamPeriodDrop, 0.4},
		},
		models.LocationTransportHub: {
			{FactorMorningRush, 1.9},
			{FactorEveningRush, 1.7},
			{FactorPriceTolerance, 1.1},
			{FactorWeatherSensitivity, 1.4},
		},
		models.LocationMarket: {
			{FactorAllDaySteady, 1.2},
			{FactorFestivalBoost, 2.5},
			{FactorPriceTolerance, 0.8},
			{FactorCompetition, 0.9},
		},
	}

	// DefaultLocationFactors applies to any category not in LocationPatterns.
	DefaultLocationFactors = LocationFactors{{FactorDefault, 1.0}}

	WeatherImpact = map[models.Weather]float64{
		models.WeatherSunny:  1.0,
		models.WeatherCloudy: 0.9,
		models.WeatherRainy:  0.3,
		models.WeatherHot:    0.8,
	}
)

const (
	// hot days above this get the harsher hot multiplier
	hotThreshold         = 35
	hotAboveThreshold    = 0.7
	extremeHeatThreshold = 40
	coldThreshold        = 10

	extremeHeatFactor = 0.5
	veryHotFactor     = 0.7
	coldFactor        = 0.6
)

// Item category keywords, checked in this order; the first match wins.
var (
	MainKeywords     = []string{"rice", "roti", "dal", "curry"}
	SnackKeywords    = []string{"samosa", "pakora", "vada", "bhel"}
	BeverageKeywords = []string{"chai", "coffee", "lassi", "juice"}

	// EveningSnackKeywords pick the items boosted by the evening_snacks factor.
	EveningSnackKeywords = []string{"samosa", "pakora", "chai"}
	LunchKeyword         = "rice"
)

const (
	baseItemDemand  = 50.0
	minItemDemand   = 10
	festivalDemand  = 1.5
	festivalRevenue = 1.8
	paydayRevenue   = 1.3
	revenueLowBand  = 0.8
	revenueHighBand = 1.2

	lowRevenueThreshold    = 300
	lowConfidenceThreshold = 0.6
)

var (
	morningRushHours = []int{8, 9}
	eveningRushHours = []int{20, 21}
)

const (
	RiskHeavyRain   = "Heavy rain may reduce customer footfall"
	RiskExtremeHeat = "Extreme heat may affect food quality"

	OpportunityFestival = "Festival day - consider special items and decorations"
	OpportunityPayday   = "Payday period - customers may spend more"

	NoteLowRevenue    = "Low revenue day predicted - consider reducing inventory by 30%"
	NoteRainCover     = "Carry plastic covers for rain protection"
	NoteLowConfidence = "Prediction confidence low - start with smaller inventory"
)

var weekendDays = map[string]bool{"Saturday": true, "Sunday": true}
