package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReadingsProcessed counts raw feed deliveries that went through the
	// normalization pipeline, well-formed or not.
	ReadingsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irridash_readings_processed_total",
		Help: "Raw sensor deliveries normalized into canonical readings.",
	})

	// ReadingDecodeFailures counts deliveries whose payload was not valid
	// JSON. These still produce an all-defaults reading.
	ReadingDecodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irridash_reading_decode_failures_total",
		Help: "Feed payloads that failed JSON decoding.",
	})

	// ZoneToggles counts local zone switch flips.
	ZoneToggles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irridash_zone_toggles_total",
		Help: "Zone activation toggles requested through the dashboard.",
	})

	// PumpWrites counts remote pump flag writes by outcome
	// (ok, invalid, transport_error).
	PumpWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "irridash_pump_writes_total",
		Help: "Remote pump state writes by outcome.",
	}, []string{"outcome"})

	// HistoryPoints counts averaged reading points flushed to storage.
	HistoryPoints = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irridash_history_points_total",
		Help: "Averaged reading points written to the history store.",
	})
)
