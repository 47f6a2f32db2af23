package models

import (
	"fmt"
	"strings"
)

// LocationType is the kind of place a vendor trades from.
type LocationType string

const (
	LocationOfficeArea   LocationType = "office_area"
	LocationResidential  LocationType = "residential"
	LocationMarket       LocationType = "market"
	LocationTransportHub LocationType = "transport_hub"
	LocationCollege      LocationType = "college"
)

// LocationTypes lists the supported categories in declaration order.
var LocationTypes = []LocationType{
	LocationOfficeArea,
	LocationResidential,
	LocationMarket,
	LocationTransportHub,
	LocationCollege,
}

func (l LocationType) String() string {
	return string(l)
}

// Valid reports whether l is one of the supported categories.
func (l LocationType) Valid() bool {
	for _, known := range LocationTypes {
		if l == known {
			return true
		}
	}
	return false
}

// ParseLocationType maps a tag such as "office_area" to a LocationType.
// Only adapters call this; the prediction pipeline works on typed values.
func ParseLocationType(s string) (LocationType, error) {
	l := LocationType(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown location type %q", s)
	}
	return l, nil
}

// VendorProfile is what a vendor tells us about their stall.
type VendorProfile struct {
	Name            string       `json:"name" mapstructure:"name"`
	Location        string       `json:"location" mapstructure:"location"`
	LocationType    LocationType `json:"location_type" mapstructure:"location_type"`
	ItemsSold       []string     `json:"items_sold" mapstructure:"items_sold"`
	AvgDailyRevenue float64      `json:"avg_daily_revenue" mapstructure:"avg_daily_revenue"`
	PeakHours       []int        `json:"peak_hours" mapstructure:"peak_hours"`
}

// VendorID derives the memory key for a profile: name and location joined by
// an underscore with every space replaced by an underscore. Two vendors with
// the same name and location share one key.
func VendorID(name, location string) string {
	return strings.ReplaceAll(fmt.Sprintf("%s_%s", name, location), " ", "_")
}

// ID returns the memory key for p.
func (p VendorProfile) ID() string {
	return VendorID(p.Name, p.Location)
}

// DisplayName renders a vendor id the way the terminal shows it.
func DisplayName(vendorID string) string {
	return strings.ReplaceAll(vendorID, "_", " ")
}

// Validate checks the fields a caller is expected to supply.
func (p VendorProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("vendor name is required")
	}
	if strings.TrimSpace(p.Location) == "" {
		return fmt.Errorf("vendor location is required")
	}
	if !p.LocationType.Valid() {
		return fmt.Errorf("unknown location type %q", p.LocationType)
	}
	if len(p.ItemsSold) == 0 {
		return fmt.Errorf("vendor %s sells no items", p.Name)
	}
	if p.AvgDailyRevenue <= 0 {
		return fmt.Errorf("average daily revenue must be positive, got %v", p.AvgDailyRevenue)
	}
	for _, h := range p.PeakHours {
		if h < 0 || h > 23 {
			return fmt.Errorf("peak hour %d out of range 0-23", h)
		}
	}
	return nil
}

// Clone returns a deep copy so stored snapshots never alias caller slices.
func (p VendorProfile) Clone() VendorProfile {
	c := p
	if p.ItemsSold != nil {
		c.ItemsSold = append([]string(nil), p.ItemsSold...)
	}
	if p.PeakHours != nil {
		c.PeakHours = append([]int(nil), p.PeakHours...)
	}
	return c
}
