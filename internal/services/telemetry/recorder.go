package telemetry

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/irridash/backend/internal/model"
	"github.com/irridash/backend/internal/observability/metrics"
)

// Recorder buffers canonical readings and flushes interval averages to
// InfluxDB, so the history store holds a steady-rate series regardless of how
// chatty the feed is. Observe is meant to be wired as a Stream subscriber.
type Recorder struct {
	writeAPI    api.WriteAPIBlocking
	measurement string
	interval    time.Duration

	mu  sync.Mutex
	buf []model.SensorReading
}

func NewRecorder(writeAPI api.WriteAPIBlocking, measurement string, interval time.Duration) *Recorder {
	if measurement == "" {
		measurement = "sensor_reading"
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Recorder{
		writeAPI:    writeAPI,
		measurement: sanitizeMeasurement(measurement),
		interval:    interval,
	}
}

// Observe buffers one reading for the next flush.
func (r *Recorder) Observe(reading model.SensorReading) {
	r.mu.Lock()
	r.buf = append(r.buf, reading)
	r.mu.Unlock()
}

// Start runs the flush ticker until ctx is cancelled. A final flush happens
// on shutdown so buffered readings are not lost.
func (r *Recorder) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.flush(context.Background())
			return
		case <-ticker.C:
			r.flush(ctx)
		}
	}
}

func (r *Recorder) flush(ctx context.Context) {
	r.mu.Lock()
	batch := r.buf
	r.buf = nil
	r.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	var soil, temp, hum, tank, flow float64
	for _, rd := range batch {
		soil += rd.SoilMoisture
		temp += rd.Temperature
		hum += rd.Humidity
		tank += rd.TankLevel
		flow += rd.FlowRate
	}
	n := float64(len(batch))

	fields := map[string]interface{}{
		"soil_moisture": soil / n,
		"temperature":   temp / n,
		"humidity":      hum / n,
		"tank_level":    tank / n,
		"flow_rate":     flow / n,
		"samples":       int64(len(batch)),
	}
	tags := map[string]string{"source": "feed"}

	point := influxdb2.NewPoint(r.measurement, tags, fields, batch[len(batch)-1].Timestamp)
	if err := r.writeAPI.WritePoint(ctx, point); err != nil {
		log.Printf("recorder: write error: %v", err)
		return
	}
	metrics.HistoryPoints.Inc()
	log.Printf("recorder: wrote %s from %d samples", r.measurement, len(batch))
}

func sanitizeMeasurement(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '_', r == ':', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
