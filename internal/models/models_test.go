package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVendorID(t *testing.T) {
	assert.Equal(t, "Raman_Chai_Wala_Connaught_Place", VendorID("Raman Chai Wala", "Connaught Place"))
	assert.Equal(t, "Raman Chai Wala Connaught Place", DisplayName("Raman_Chai_Wala_Connaught_Place"))

	p := VendorProfile{Name: "A B", Location: "C"}
	assert.Equal(t, "A_B_C", p.ID())
}

func TestParseEnums(t *testing.T) {
	w, err := ParseWeather(" Rainy ")
	require.NoError(t, err)
	assert.Equal(t, WeatherRainy, w)
	assert.Equal(t, "Rainy", w.Title())

	_, err = ParseWeather("snowy")
	assert.Error(t, err)

	l, err := ParseLocationType("transport_hub")
	require.NoError(t, err)
	assert.Equal(t, LocationTransportHub, l)

	_, err = ParseLocationType("space_station")
	assert.Error(t, err)
}

func TestVendorProfile_Validate(t *testing.T) {
	valid := VendorProfile{
		Name:            "Raman",
		Location:        "CP",
		LocationType:    LocationOfficeArea,
		ItemsSold:       []string{"Chai"},
		AvgDailyRevenue: 650,
		PeakHours:       []int{9},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(p *VendorProfile)
	}{
		{"no name", func(p *VendorProfile) { p.Name = " " }},
		{"no location", func(p *VendorProfile) { p.Location = "" }},
		{"bad category", func(p *VendorProfile) { p.LocationType = "moon" }},
		{"no items", func(p *VendorProfile) { p.ItemsSold = nil }},
		{"zero revenue", func(p *VendorProfile) { p.AvgDailyRevenue = 0 }},
		{"bad hour", func(p *VendorProfile) { p.PeakHours = []int{24} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid.Clone()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestVendorProfile_CloneDoesNotAlias(t *testing.T) {
	p := VendorProfile{ItemsSold: []string{"Chai"}, PeakHours: []int{9}}
	c := p.Clone()
	c.ItemsSold[0] = "Coffee"
	c.PeakHours[0] = 10
	assert.Equal(t, "Chai", p.ItemsSold[0])
	assert.Equal(t, 9, p.PeakHours[0])
}

func TestNewDayContext_DerivesWeekday(t *testing.T) {
	date := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	day := NewDayContext(date, WeatherSunny, 32, false, true)
	assert.Equal(t, "2025-06-17", day.Date)
	assert.Equal(t, "Tuesday", day.DayOfWeek)
	assert.True(t, day.IsPayday)
}

func TestParseDate(t *testing.T) {
	now := time.Date(2025, 6, 17, 15, 4, 5, 0, time.UTC)

	d, err := ParseDate("", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-17", d.Format(DateLayout))

	d, err = ParseDate("2025-12-25", now)
	require.NoError(t, err)
	assert.Equal(t, time.Thursday, d.Weekday())

	_, err = ParseDate("25/12/2025", now)
	assert.Error(t, err)
}

func TestPredictionOutput_JSON(t *testing.T) {
	out := PredictionOutput{
		RecommendedItems: ItemDemand{{Item: "Samosa", Quantity: 60}, {Item: "Chai", Quantity: 60}},
		ExpectedRevenue:  RevenueRange{Min: 754, Max: 1131},
		PeakHours:        []int{9, 12},
		SpecialNotes:     []string{},
		ConfidenceLevel:  0.575,
	}
	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"recommended_items": {"Samosa": 60, "Chai": 60},
		"expected_revenue": [754, 1131],
		"peak_hours": [9, 12],
		"special_notes": [],
		"confidence_level": 0.575
	}`, string(data))
	// item order is kept on the wire
	assert.Contains(t, string(data), `{"Samosa":60,"Chai":60}`)

	var back PredictionOutput
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, out, back)

	var r RevenueRange
	require.NoError(t, json.Unmarshal([]byte("[1,2]"), &r))
	assert.Equal(t, RevenueRange{Min: 1, Max: 2}, r)
}

func TestItemDemand_String(t *testing.T) {
	d := ItemDemand{{Item: "Chai", Quantity: 60}, {Item: "Biscuit", Quantity: 50}}
	assert.Equal(t, "Chai: 60; Biscuit: 50", d.String())
	q, ok := d.Quantity("Biscuit")
	assert.True(t, ok)
	assert.Equal(t, 50, q)
	assert.Equal(t, "9, 12, 16", JoinHours([]int{9, 12, 16}))
}

func TestMemoryDocument_Normalize(t *testing.T) {
	var doc MemoryDocument
	require.NoError(t, json.Unmarshal([]byte(`{"vendors":{"a":{"profile":{"name":"a"}}}}`), &doc))
	doc.Normalize()

	require.Contains(t, doc.Vendors, "a")
	assert.NotNil(t, doc.Patterns)
	assert.NotNil(t, doc.Vendors["a"].SalesHistory)
	assert.NotNil(t, doc.Vendors["a"].LearnedPatterns)
	assert.NotNil(t, doc.Vendors["a"].PerformanceMetrics)
}
