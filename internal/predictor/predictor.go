// Package predictor runs the four-stage vendor forecast: normalize the raw
// inputs, assemble them with the vendor's stored record, apply the demand
// heuristics, then shape the result and its advisory notes.
package predictor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chrisdamba/vendorcast/internal/metrics"
	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/lucsky/cuid"
	"go.uber.org/zap"
)

// Store is the memory the predictor reads vendor records from and persists
// after every prediction.
type Store interface {
	RecordSource
	Get(vendorID string) (*models.VendorRecord, error)
	VendorIDs() []string
	Len() int
	Persist() error
}

// Recorder receives a flattened copy of each prediction once it is persisted.
type Recorder interface {
	Write(ctx context.Context, rec models.PredictionRecord) error
}

type Predictor struct {
	mu       sync.Mutex
	store    Store
	patterns PatternSource
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*Predictor)

func WithPatternSource(ps PatternSource) Option {
	return func(p *Predictor) { p.patterns = ps }
}

func WithRecorder(r Recorder) Option {
	return func(p *Predictor) { p.recorder = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Predictor) { p.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(p *Predictor) { p.now = now }
}

// WithIDGenerator replaces the cuid generator for prediction record ids.
func WithIDGenerator(gen func() string) Option {
	return func(p *Predictor) { p.newID = gen }
}

func New(store Store, opts ...Option) *Predictor {
	p := &Predictor{
		store:    store,
		patterns: StaticPatternSource{},
		logger:   zap.NewNop(),
		now:      time.Now,
		newID:    cuid.New,
	}
	for _, opt := range opts {
		opt(p)
	}
	metrics.VendorsKnown.Set(float64(store.Len()))
	return p
}

// Predict forecasts one vendor's day and persists the memory store. It fails
// only when persistence fails; recorder errors are logged and dropped.
// Calls are serialized.
func (p *Predictor) Predict(ctx context.Context, profile models.VendorProfile, day models.DayContext) (*models.PredictionOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()

	in := Normalize(profile, day, p.patterns)
	p.logger.Debug("input normalized", zap.Any("input", in))

	state := Assemble(p.store, p.patterns, in, profile)
	p.logger.Debug("state assembled",
		zap.String("vendor_id", in.VendorID),
		zap.Any("confidence_factors", state.Confidence),
		zap.Int("pattern_matches", len(state.PatternMatches)))

	forecast := Forecast(state, day)
	p.logger.Debug("forecast computed", zap.Any("forecast", forecast))

	out := Format(forecast, state.Confidence)
	p.logger.Debug("output generated", zap.Any("output", out))

	if err := p.store.Persist(); err != nil {
		metrics.MemoryPersistFailures.Inc()
		p.logger.Error("failed to persist memory", zap.String("vendor_id", in.VendorID), zap.Error(err))
		return nil, fmt.Errorf("persist memory: %w", err)
	}

	metrics.VendorsKnown.Set(float64(p.store.Len()))
	metrics.PredictionsTotal.WithLabelValues(string(profile.LocationType), string(day.Weather)).Inc()
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("prediction complete",
		zap.String("vendor_id", in.VendorID),
		zap.String("date", day.Date),
		zap.Int("revenue_min", out.ExpectedRevenue.Min),
		zap.Int("revenue_max", out.ExpectedRevenue.Max),
		zap.Float64("confidence", out.ConfidenceLevel))

	if p.recorder != nil {
		rec := models.NewPredictionRecord(p.newID(), p.now(), profile, day, out)
		if err := p.recorder.Write(ctx, rec); err != nil {
			p.logger.Warn("prediction not recorded", zap.String("id", rec.ID), zap.Error(err))
		}
	}
	return out, nil
}

// Register adds vendors through the same creation path a first prediction
// uses, then persists once.
func (p *Predictor) Register(profiles ...models.VendorProfile) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, profile := range profiles {
		p.store.GetOrCreate(profile.ID(), profile)
	}
	if err := p.store.Persist(); err != nil {
		metrics.MemoryPersistFailures.Inc()
		return fmt.Errorf("persist memory: %w", err)
	}
	metrics.VendorsKnown.Set(float64(p.store.Len()))
	return nil
}

// Vendor returns a copy of the stored profile for vendorID.
func (p *Predictor) Vendor(vendorID string) (models.VendorProfile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, err := p.store.Get(vendorID)
	if err != nil {
		return models.VendorProfile{}, err
	}
	return rec.Profile.Clone(), nil
}

// VendorIDs lists the known vendors in sorted order.
func (p *Predictor) VendorIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.VendorIDs()
}
