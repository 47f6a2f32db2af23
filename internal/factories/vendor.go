package factories

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/jaswdr/faker"
)

var vendorTrades = []string{"Chai Wala", "Chaat Corner", "Pav Bhaji", "Dosa Stall", "Juice Centre", "Momos Point", "Paratha House", "Bhel Puri"}

var locationsByType = map[models.LocationType][]string{
	models.LocationOfficeArea:   {"Connaught Place", "Nariman Point", "Cyber City", "MG Road", "Salt Lake Sector V"},
	models.LocationResidential:  {"Lajpat Nagar", "Andheri West", "Jayanagar", "Kothrud", "Anna Nagar"},
	models.LocationMarket:       {"Chandni Chowk", "Crawford Market", "Sarojini Nagar", "Commercial Street", "Laad Bazaar"},
	models.LocationTransportHub: {"CST Station", "Howrah Station", "Majestic Bus Stand", "Kashmere Gate ISBT", "Dadar Station"},
	models.LocationCollege:      {"North Campus", "Fergusson College Road", "IIT Gate", "Presidency Road", "Manipal Circle"},
}

var itemPool = []string{
	"Chai", "Coffee", "Lassi", "Nimbu Pani", "Samosa", "Pakora", "Vada Pav",
	"Bhel Puri", "Pani Puri", "Biscuit", "Rice Plate", "Dal Rice", "Roti Sabzi",
	"Biryani", "Poha", "Maggi", "Sandwich", "Kachori",
}

var hourPool = []int{7, 8, 9, 10, 11, 12, 13, 14, 16, 17, 18, 19, 20, 21}

// VendorFactory generates plausible street vendor profiles for demos and
// load runs. Generated ids never repeat within one factory.
type VendorFactory struct {
	fake faker.Faker
	used sync.Map
}

func NewVendorFactory() *VendorFactory {
	return &VendorFactory{fake: faker.New()}
}

// NewSeededVendorFactory produces the same sequence of profiles for a seed.
func NewSeededVendorFactory(seed int64) *VendorFactory {
	return &VendorFactory{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

func (vf *VendorFactory) CreateVendor() models.VendorProfile {
	locationType := models.LocationTypes[vf.fake.IntBetween(0, len(models.LocationTypes)-1)]
	location := vf.fake.RandomStringElement(locationsByType[locationType])
	name := fmt.Sprintf("%s %s", vf.fake.Person().FirstName(), vf.fake.RandomStringElement(vendorTrades))
	name = vf.uniqueName(name, location)

	return models.VendorProfile{
		Name:            name,
		Location:        location,
		LocationType:    locationType,
		ItemsSold:       vf.pickItems(vf.fake.IntBetween(2, 5)),
		AvgDailyRevenue: float64(vf.fake.IntBetween(8, 40) * 50),
		PeakHours:       vf.pickHours(vf.fake.IntBetween(2, 4)),
	}
}

func (vf *VendorFactory) CreateVendors(n int) []models.VendorProfile {
	out := make([]models.VendorProfile, n)
	for i := range out {
		out[i] = vf.CreateVendor()
	}
	return out
}

func (vf *VendorFactory) uniqueName(name, location string) string {
	candidate := name
	for counter := 2; ; counter++ {
		if _, exists := vf.used.LoadOrStore(models.VendorID(candidate, location), true); !exists {
			return candidate
		}
		candidate = fmt.Sprintf("%s %d", name, counter)
	}
}

func (vf *VendorFactory) pickItems(n int) []string {
	perm := vf.permutation(len(itemPool))
	items := make([]string, n)
	for i := range items {
		items[i] = itemPool[perm[i]]
	}
	return items
}

func (vf *VendorFactory) pickHours(n int) []int {
	perm := vf.permutation(len(hourPool))
	hours := make([]int, n)
	for i := range hours {
		hours[i] = hourPool[perm[i]]
	}
	sort.Ints(hours)
	return hours
}

// permutation is a Fisher-Yates shuffle driven by the factory's faker so
// seeded factories stay deterministic.
func (vf *VendorFactory) permutation(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := vf.fake.IntBetween(0, i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// DemoVendor is the canonical example vendor.
func DemoVendor() models.VendorProfile {
	return models.VendorProfile{
		Name:            "Raman Chai Wala",
		Location:        "Connaught Place",
		LocationType:    models.LocationOfficeArea,
		ItemsSold:       []string{"Chai", "Samosa", "Bread Pakora", "Biscuit"},
		AvgDailyRevenue: 650,
		PeakHours:       []int{9, 12, 16, 18},
	}
}
