package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendorcast_predictions_total",
			Help: "Total number of successful predictions",
		},
		[]string{"location_type", "weather"},
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vendorcast_prediction_duration_seconds",
			Help:    "Time spent producing and persisting one prediction",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)

	MemoryPersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vendorcast_memory_persist_failures_total",
			Help: "Total number of failed memory file writes",
		},
	)

	SinkFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendorcast_sink_failures_total",
			Help: "Total number of prediction records a sink failed to write",
		},
		[]string{"sink"},
	)

	VendorsKnown = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vendorcast_vendors_known",
			Help: "Number of vendors in the memory store",
		},
	)
)
