package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ItemRecommendation is the suggested stock for one item.
type ItemRecommendation struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// ItemDemand keeps recommendations in the vendor's item order. It encodes
// as a JSON object so item order survives in exported documents.
type ItemDemand []ItemRecommendation

// Quantity returns the recommendation for item, if present.
func (d ItemDemand) Quantity(item string) (int, bool) {
	for _, r := range d {
		if r.Item == item {
			return r.Quantity, true
		}
	}
	return 0, false
}

// String renders "item: qty" pairs joined by "; ".
func (d ItemDemand) String() string {
	parts := make([]string, 0, len(d))
	for _, r := range d {
		parts = append(parts, fmt.Sprintf("%s: %d", r.Item, r.Quantity))
	}
	return strings.Join(parts, "; ")
}

func (d ItemDemand) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Item)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(r.Quantity))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of item quantities, keeping key order.
func (d *ItemDemand) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("item demand: %w", err)
	}
	if tok == nil {
		*d = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("item demand: expected object, got %v", tok)
	}

	out := ItemDemand{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("item demand: %w", err)
		}
		key, _ := keyTok.(string)
		var qty int
		if err := dec.Decode(&qty); err != nil {
			return fmt.Errorf("item demand %q: %w", key, err)
		}
		out = append(out, ItemRecommendation{Item: key, Quantity: qty})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("item demand: %w", err)
	}
	*d = out
	return nil
}

// RevenueRange is an expected revenue band in whole rupees, encoded as [min, max].
type RevenueRange struct {
	Min int
	Max int
}

func (r RevenueRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{r.Min, r.Max})
}

func (r *RevenueRange) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("revenue range: %w", err)
	}
	r.Min, r.Max = pair[0], pair[1]
	return nil
}

// PredictionOutput is what a caller gets back from a prediction.
type PredictionOutput struct {
	RecommendedItems ItemDemand   `json:"recommended_items"`
	ExpectedRevenue  RevenueRange `json:"expected_revenue"`
	PeakHours        []int        `json:"peak_hours"`
	SpecialNotes     []string     `json:"special_notes"`
	ConfidenceLevel  float64      `json:"confidence_level"`
}

// PredictionRecord is the flattened form of one prediction handed to the
// export sinks and repositories.
type PredictionRecord struct {
	ID           string       `json:"id"`
	CreatedAt    time.Time    `json:"created_at"`
	VendorID     string       `json:"vendor_id"`
	VendorName   string       `json:"vendor_name"`
	Location     string       `json:"location"`
	LocationType LocationType `json:"location_type"`
	Date         string       `json:"date"`
	DayOfWeek    string       `json:"day_of_week"`
	Weather      Weather      `json:"weather"`
	Temperature  int          `json:"temperature"`
	IsFestival   bool         `json:"is_festival"`
	IsPayday     bool         `json:"is_payday"`
	Items        ItemDemand   `json:"items"`
	RevenueMin   int          `json:"revenue_min"`
	RevenueMax   int          `json:"revenue_max"`
	PeakHours    []int        `json:"peak_hours"`
	Notes        []string     `json:"notes"`
	Confidence   float64      `json:"confidence"`
}

// NewPredictionRecord flattens a prediction for export.
func NewPredictionRecord(id string, at time.Time, profile VendorProfile, day DayContext, out *PredictionOutput) PredictionRecord {
	return PredictionRecord{
		ID:           id,
		CreatedAt:    at,
		VendorID:     profile.ID(),
		VendorName:   profile.Name,
		Location:     profile.Location,
		LocationType: profile.LocationType,
		Date:         day.Date,
		DayOfWeek:    day.DayOfWeek,
		Weather:      day.Weather,
		Temperature:  day.Temperature,
		IsFestival:   day.IsFestival,
		IsPayday:     day.IsPayday,
		Items:        out.RecommendedItems,
		RevenueMin:   out.ExpectedRevenue.Min,
		RevenueMax:   out.ExpectedRevenue.Max,
		PeakHours:    out.PeakHours,
		Notes:        out.SpecialNotes,
		Confidence:   out.ConfidenceLevel,
	}
}

// JoinHours renders hours as "9, 12, 16".
func JoinHours(hours []int) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = strconv.Itoa(h)
	}
	return strings.Join(parts, ", ")
}
