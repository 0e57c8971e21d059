package telemetry

import (
	"context"
	"log"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/irridash/backend/internal/model"
)

const (
	// Flow below this is treated as the pump being off.
	flowIdleLpm = 0.5
	// Moisture below this raises an alert when crossed from above.
	moistureAlertPct = 20.0
	// Gaps longer than this are not integrated; the feed was down, not idle.
	maxSampleGap = 5 * time.Minute
)

// DailyRollup folds the reading stream into one irrigation summary per UTC
// day and writes it as an "irrigation_daily" point: water volume (flow
// integrated over time), pump runtime and cycle count, mean soil moisture,
// low-moisture alerts, and the share of pumping samples where moisture was
// actually rising. The history provider reads this series back for charts and
// report exports. Observe is meant to be wired as a Stream subscriber.
type DailyRollup struct {
	writeAPI    api.WriteAPIBlocking
	measurement string

	mu  sync.Mutex
	cur *dayAccum
}

type dayAccum struct {
	day time.Time // midnight UTC

	prev    model.SensorReading
	hasPrev bool

	waterL      float64
	runtimeMin  float64
	cycles      int
	moistureSum float64
	samples     int
	alerts      int
	pumpSamples int
	gainSamples int
}

func NewDailyRollup(writeAPI api.WriteAPIBlocking, measurement string) *DailyRollup {
	if measurement == "" {
		measurement = "irrigation_daily"
	}
	return &DailyRollup{
		writeAPI:    writeAPI,
		measurement: sanitizeMeasurement(measurement),
	}
}

// Observe folds one reading into the current day. A reading dated on a later
// day first flushes the completed one.
func (d *DailyRollup) Observe(reading model.SensorReading) {
	day := reading.Timestamp.UTC().Truncate(24 * time.Hour)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cur != nil && day.After(d.cur.day) {
		d.flushLocked(context.Background())
	}
	if d.cur == nil {
		d.cur = &dayAccum{day: day}
	}
	d.cur.fold(reading)
}

// Start blocks until ctx is cancelled, then flushes the partial day so a
// restart does not lose it.
func (d *DailyRollup) Start(ctx context.Context) {
	<-ctx.Done()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushLocked(context.Background())
}

func (a *dayAccum) fold(r model.SensorReading) {
	pumping := r.FlowRate > flowIdleLpm

	if a.hasPrev {
		dt := r.Timestamp.Sub(a.prev.Timestamp)
		if dt > 0 && dt <= maxSampleGap {
			dtMin := dt.Minutes()
			if pumping {
				a.waterL += r.FlowRate * dtMin
				a.runtimeMin += dtMin
			}
		}
		if pumping && a.prev.FlowRate <= flowIdleLpm {
			a.cycles++
		}
		if r.SoilMoisture < moistureAlertPct && a.prev.SoilMoisture >= moistureAlertPct {
			a.alerts++
		}
		if pumping {
			a.pumpSamples++
			if r.SoilMoisture >= a.prev.SoilMoisture {
				a.gainSamples++
			}
		}
	} else if pumping {
		a.cycles++
		a.pumpSamples++
	}

	a.moistureSum += r.SoilMoisture
	a.samples++
	a.prev = r
	a.hasPrev = true
}

func (d *DailyRollup) flushLocked(ctx context.Context) {
	a := d.cur
	d.cur = nil
	if a == nil || a.samples == 0 {
		return
	}

	// Idle days pumped nothing, so nothing was wasted.
	efficiency := 100.0
	if a.pumpSamples > 0 {
		efficiency = 100 * float64(a.gainSamples) / float64(a.pumpSamples)
	}

	fields := map[string]interface{}{
		"water_l":        a.waterL,
		"runtime_min":    a.runtimeMin,
		"pump_cycles":    int64(a.cycles),
		"avg_moisture":   a.moistureSum / float64(a.samples),
		"alerts":         int64(a.alerts),
		"efficiency_pct": efficiency,
	}
	tags := map[string]string{"source": "feed"}

	point := influxdb2.NewPoint(d.measurement, tags, fields, a.day)
	if err := d.writeAPI.WritePoint(ctx, point); err != nil {
		log.Printf("rollup: write error for %s: %v", a.day.Format("2006-01-02"), err)
		return
	}
	log.Printf("rollup: wrote %s for %s from %d samples", d.measurement, a.day.Format("2006-01-02"), a.samples)
}
