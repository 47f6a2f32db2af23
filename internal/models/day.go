package models

import (
	"fmt"
	"strings"
	"time"
)

// Weather is the coarse weather category for a trading day.
type Weather string

const (
	WeatherSunny  Weather = "sunny"
	WeatherRainy  Weather = "rainy"
	WeatherCloudy Weather = "cloudy"
	WeatherHot    Weather = "hot"
)

// WeatherConditions lists the categories in menu order.
var WeatherConditions = []Weather{WeatherSunny, WeatherRainy, WeatherCloudy, WeatherHot}

func (w Weather) String() string {
	return string(w)
}

// Title returns the tag with its first letter upper-cased, e.g. "Rainy".
func (w Weather) Title() string {
	if w == "" {
		return ""
	}
	return strings.ToUpper(string(w[:1])) + string(w[1:])
}

func (w Weather) Valid() bool {
	for _, known := range WeatherConditions {
		if w == known {
			return true
		}
	}
	return false
}

// ParseWeather maps a tag such as "rainy" to a Weather value.
func ParseWeather(s string) (Weather, error) {
	w := Weather(strings.ToLower(strings.TrimSpace(s)))
	if !w.Valid() {
		return "", fmt.Errorf("unknown weather %q", s)
	}
	return w, nil
}

// DateLayout is the ISO calendar date format used in DayContext.Date.
const DateLayout = "2006-01-02"

// DayContext describes the day being forecast.
type DayContext struct {
	Date        string  `json:"date"`
	DayOfWeek   string  `json:"day_of_week"`
	Weather     Weather `json:"weather"`
	IsFestival  bool    `json:"is_festival"`
	IsPayday    bool    `json:"is_payday"`
	Temperature int     `json:"temperature"`
}

// NewDayContext builds a context for date, deriving the weekday name.
func NewDayContext(date time.Time, weather Weather, temperature int, festival, payday bool) DayContext {
	return DayContext{
		Date:        date.Format(DateLayout),
		DayOfWeek:   date.Weekday().String(),
		Weather:     weather,
		IsFestival:  festival,
		IsPayday:    payday,
		Temperature: temperature,
	}
}

// ParseDate parses an ISO date; a blank string means today according to now.
// The result is always midnight UTC so dates can be subtracted safely.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}
