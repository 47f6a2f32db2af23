package terminal

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chrisdamba/vendorcast/internal/factories"
	"github.com/chrisdamba/vendorcast/internal/memory"
	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/chrisdamba/vendorcast/internal/predictor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2025, 6, 17, 10, 0, 0, 0, time.UTC)

type fakePredictor struct {
	profiles map[string]models.VendorProfile
	gotDay   models.DayContext
	calls    int
}

func newFake(profiles ...models.VendorProfile) *fakePredictor {
	f := &fakePredictor{profiles: map[string]models.VendorProfile{}}
	for _, p := range profiles {
		f.profiles[p.ID()] = p
	}
	return f
}

func (f *fakePredictor) VendorIDs() []string {
	ids := make([]string, 0, len(f.profiles))
	for id := range f.profiles {
		ids = append(ids, id)
	}
	// two entries at most in these tests
	if len(ids) == 2 && ids[0] > ids[1] {
		ids[0], ids[1] = ids[1], ids[0]
	}
	return ids
}

func (f *fakePredictor) Vendor(id string) (models.VendorProfile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return models.VendorProfile{}, memory.ErrVendorNotFound
	}
	return p, nil
}

func (f *fakePredictor) Predict(_ context.Context, _ models.VendorProfile, day models.DayContext) (*models.PredictionOutput, error) {
	f.calls++
	f.gotDay = day
	return &models.PredictionOutput{
		RecommendedItems: models.ItemDemand{{Item: "Chai", Quantity: 60}},
		ExpectedRevenue:  models.RevenueRange{Min: 100, Max: 200},
		PeakHours:        []int{9},
		SpecialNotes:     []string{},
		ConfidenceLevel:  0.5,
	}, nil
}

func run(t *testing.T, pred Predictor, input string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	s := NewSession(strings.NewReader(input), &out, pred,
		WithClock(func() time.Time { return fixedNow }),
		WithDefaults(models.DayDefaults{Temperature: 32, Weather: models.WeatherSunny}))
	err := s.Run(context.Background())
	return out.String(), err
}

func TestSession_ReadsDayContext(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  models.DayContext
	}{
		{
			name:  "all defaults",
			input: "1\n\n\n\nn\nn\n",
			want:  models.DayContext{Date: "2025-06-17", DayOfWeek: "Tuesday", Weather: models.WeatherSunny, Temperature: 32},
		},
		{
			name:  "explicit values",
			input: "1\n2025-12-25\n2\n18\nY\ny\n",
			want: models.DayContext{Date: "2025-12-25", DayOfWeek: "Thursday", Weather: models.WeatherRainy,
				Temperature: 18, IsFestival: true, IsPayday: true},
		},
		{
			name:  "bad weather falls back to sunny",
			input: "1\n\n9\n40\nyes\n\n",
			want:  models.DayContext{Date: "2025-06-17", DayOfWeek: "Tuesday", Weather: models.WeatherSunny, Temperature: 40},
		},
		{
			name:  "input ends early",
			input: "1\n2025-06-20\n4",
			want:  models.DayContext{Date: "2025-06-20", DayOfWeek: "Friday", Weather: models.WeatherHot, Temperature: 32},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := newFake(factories.DemoVendor())
			_, err := run(t, pred, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pred.gotDay)
		})
	}
}

func TestSession_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"not a number", "abc\n", ErrInvalidSelection},
		{"zero", "0\n", ErrInvalidSelection},
		{"out of range", "3\n", ErrInvalidSelection},
		{"empty input", "", ErrInvalidSelection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := newFake(factories.DemoVendor())
			out, err := run(t, pred, tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, out, "Invalid selection")
			assert.Zero(t, pred.calls)
		})
	}

	t.Run("bad date", func(t *testing.T) {
		pred := newFake(factories.DemoVendor())
		_, err := run(t, pred, "1\n17/06/2025\n")
		assert.Error(t, err)
		assert.Zero(t, pred.calls)
	})

	t.Run("bad temperature", func(t *testing.T) {
		pred := newFake(factories.DemoVendor())
		_, err := run(t, pred, "1\n\n1\nwarm\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid temperature")
		assert.Zero(t, pred.calls)
	})

	t.Run("no vendors", func(t *testing.T) {
		_, err := run(t, newFake(), "1\n")
		assert.ErrorIs(t, err, ErrNoVendors)
	})
}

func TestSession_ListsVendorsWithSpaces(t *testing.T) {
	other := factories.DemoVendor()
	other.Name = "Gupta Bhel"
	other.Location = "Juhu Beach"
	out, err := run(t, newFake(factories.DemoVendor(), other), "2\n\n\n\n\n\n")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Gupta Bhel Juhu Beach\n")
	assert.Contains(t, out, "2. Raman Chai Wala Connaught Place\n")
	assert.Contains(t, out, "Prediction for RAMAN CHAI WALA (Connaught Place)")
}

func TestSession_EndToEnd(t *testing.T) {
	store, err := memory.Open(filepath.Join(t.TempDir(), "memory.json"))
	require.NoError(t, err)
	pred := predictor.New(store, predictor.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, pred.Register(factories.DemoVendor()))

	out, err := run(t, pred, "1\n2025-06-17\n1\n32\nn\nn\n")
	require.NoError(t, err)

	assert.Contains(t, out, "📅 Date: 2025-06-17 (Tuesday)")
	assert.Contains(t, out, "🌤️  Weather: Sunny | Temp: 32°C")
	assert.Contains(t, out, "💰 Expected Revenue: ₹754 – ₹1131")
	assert.Contains(t, out, "📈 Confidence: 57.5%")
	assert.Contains(t, out, " - Chai: 60 units\n - Samosa: 60 units\n - Bread Pakora: 60 units\n - Biscuit: 50 units\n")
	assert.Contains(t, out, "⏰ Peak Hours: 9, 12, 16, 18")
	assert.Contains(t, out, "📝 Notes:")
	assert.True(t, strings.HasSuffix(out, "✅ Prediction complete. Memory updated.\n"))
}
