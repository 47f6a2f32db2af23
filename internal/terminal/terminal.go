// Package terminal is the interactive line-oriented front end: pick a
// stored vendor, describe the day, print the forecast.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chrisdamba/vendorcast/internal/models"
)

var (
	ErrInvalidSelection = errors.New("invalid selection")
	ErrNoVendors        = errors.New("no vendors in memory")
)

// Predictor is what a session needs from the forecasting core.
type Predictor interface {
	VendorIDs() []string
	Vendor(vendorID string) (models.VendorProfile, error)
	Predict(ctx context.Context, profile models.VendorProfile, day models.DayContext) (*models.PredictionOutput, error)
}

type Session struct {
	in       *bufio.Reader
	out      io.Writer
	pred     Predictor
	defaults models.DayDefaults
	now      func() time.Time
}

type Option func(*Session)

// WithDefaults sets the temperature used when the prompt is left blank.
func WithDefaults(d models.DayDefaults) Option {
	return func(s *Session) { s.defaults = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func NewSession(in io.Reader, out io.Writer, pred Predictor, opts ...Option) *Session {
	s := &Session{
		in:       bufio.NewReader(in),
		out:      out,
		pred:     pred,
		defaults: models.DayDefaults{Temperature: models.DefaultTemperature, Weather: models.WeatherSunny},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one full prompt, predict and render cycle.
func (s *Session) Run(ctx context.Context) error {
	s.banner()

	profile, err := s.selectVendor()
	if err != nil {
		return err
	}
	day, err := s.readDay()
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "\n🔮 Generating prediction...")
	out, err := s.pred.Predict(ctx, profile, day)
	if err != nil {
		return err
	}
	Render(s.out, profile, day, out)
	return nil
}

func (s *Session) banner() {
	rule := strings.Repeat("=", 70)
	fmt.Fprintf(s.out, "\n%s\n", rule)
	fmt.Fprintln(s.out, "🍛 STREET VENDOR DEMAND PREDICTOR")
	fmt.Fprintln(s.out, "Forecasts in rupees for India's street vendors")
	fmt.Fprintf(s.out, "%s\n\n", rule)
}

func (s *Session) selectVendor() (models.VendorProfile, error) {
	ids := s.pred.VendorIDs()
	if len(ids) == 0 {
		fmt.Fprintln(s.out, "❌ No vendors in memory. Run `vendorcast seed --demo` first.")
		return models.VendorProfile{}, ErrNoVendors
	}

	fmt.Fprintln(s.out, "👤 Select Vendor")
	for i, id := range ids {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, models.DisplayName(id))
	}

	line := s.prompt("\nEnter vendor number: ")
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(ids) {
		fmt.Fprintln(s.out, "❌ Invalid selection.")
		return models.VendorProfile{}, ErrInvalidSelection
	}
	profile, err := s.pred.Vendor(ids[n-1])
	if err != nil {
		fmt.Fprintln(s.out, "❌ Invalid selection.")
		return models.VendorProfile{}, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}
	return profile, nil
}

func (s *Session) readDay() (models.DayContext, error) {
	fmt.Fprintln(s.out, "\n📅 Enter Day Context")
	date, err := models.ParseDate(s.prompt("Date (YYYY-MM-DD) [leave blank for today]: "), s.now())
	if err != nil {
		return models.DayContext{}, err
	}

	fmt.Fprintln(s.out, "\nWeather:")
	for i, w := range models.WeatherConditions {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, w.Title())
	}
	weather := models.WeatherSunny
	if n, err := strconv.Atoi(s.prompt("Choose weather (1-4): ")); err == nil && n >= 1 && n <= len(models.WeatherConditions) {
		weather = models.WeatherConditions[n-1]
	}

	temperature := s.defaults.Temperature
	if line := s.prompt("Temperature (°C): "); line != "" {
		t, err := strconv.Atoi(line)
		if err != nil {
			return models.DayContext{}, fmt.Errorf("invalid temperature %q: %w", line, err)
		}
		temperature = t
	}

	festival := strings.EqualFold(s.prompt("Is today a festival? (y/n): "), "y")
	payday := strings.EqualFold(s.prompt("Is it payday week? (y/n): "), "y")

	return models.NewDayContext(date, weather, temperature, festival, payday), nil
}

// prompt writes label and returns the next input line, trimmed. A closed
// input reads as a blank line.
func (s *Session) prompt(label string) string {
	fmt.Fprint(s.out, label)
	line, _ := s.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// Render prints a prediction the way the interactive session shows it.
func Render(w io.Writer, profile models.VendorProfile, day models.DayContext, out *models.PredictionOutput) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "Prediction for %s (%s)\n", strings.ToUpper(profile.Name), profile.Location)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "📅 Date: %s (%s)\n", day.Date, day.DayOfWeek)
	fmt.Fprintf(w, "🌤️  Weather: %s | Temp: %d°C\n", day.Weather.Title(), day.Temperature)
	fmt.Fprintf(w, "💰 Expected Revenue: ₹%d – ₹%d\n", out.ExpectedRevenue.Min, out.ExpectedRevenue.Max)
	fmt.Fprintf(w, "📈 Confidence: %.1f%%\n", out.ConfidenceLevel*100)

	fmt.Fprintln(w, "\n📦 Inventory Recommendation:")
	for _, r := range out.RecommendedItems {
		fmt.Fprintf(w, " - %s: %d units\n", r.Item, r.Quantity)
	}

	fmt.Fprintf(w, "\n⏰ Peak Hours: %s\n", models.JoinHours(out.PeakHours))

	if len(out.SpecialNotes) > 0 {
		fmt.Fprintln(w, "\n📝 Notes:")
		for _, note := range out.SpecialNotes {
			fmt.Fprintf(w, " - %s\n", note)
		}
	}

	fmt.Fprintln(w, "\n✅ Prediction complete. Memory updated.")
}
