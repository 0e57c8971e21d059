package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/irridash/backend/internal/model"
)

// captureWriteAPI records written points instead of talking to InfluxDB.
type captureWriteAPI struct {
	points []*write.Point
}

func (c *captureWriteAPI) WriteRecord(context.Context, ...string) error { return nil }
func (c *captureWriteAPI) WritePoint(_ context.Context, points ...*write.Point) error {
	c.points = append(c.points, points...)
	return nil
}
func (c *captureWriteAPI) EnableBatching()             {}
func (c *captureWriteAPI) Flush(context.Context) error { return nil }

func pointFields(p *write.Point) map[string]interface{} {
	out := map[string]interface{}{}
	for _, f := range p.FieldList() {
		out[f.Key] = f.Value
	}
	return out
}

func reading(ts time.Time, moisture, flow float64) model.SensorReading {
	return model.SensorReading{SoilMoisture: moisture, FlowRate: flow, Timestamp: ts}
}

func TestDailyRollupWritesCompletedDay(t *testing.T) {
	sink := &captureWriteAPI{}
	rollup := NewDailyRollup(sink, "irrigation_daily")

	day1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	rollup.Observe(reading(day1, 30, 10))
	rollup.Observe(reading(day1.Add(time.Minute), 32, 10))
	rollup.Observe(reading(day1.Add(2*time.Minute), 31, 0))

	if len(sink.points) != 0 {
		t.Fatalf("flushed %d points before the day completed", len(sink.points))
	}

	// first reading of the next day flushes the completed one
	rollup.Observe(reading(day1.AddDate(0, 0, 1), 31, 0))
	if len(sink.points) != 1 {
		t.Fatalf("got %d points, want 1", len(sink.points))
	}

	p := sink.points[0]
	if p.Name() != "irrigation_daily" {
		t.Fatalf("measurement = %q", p.Name())
	}
	if want := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC); !p.Time().Equal(want) {
		t.Fatalf("point time = %v, want %v", p.Time(), want)
	}

	fields := pointFields(p)
	if got := fields["water_l"].(float64); got != 10 {
		t.Errorf("water_l = %v, want 10", got)
	}
	if got := fields["runtime_min"].(float64); got != 1 {
		t.Errorf("runtime_min = %v, want 1", got)
	}
	if got := fields["pump_cycles"].(int64); got != 1 {
		t.Errorf("pump_cycles = %v, want 1", got)
	}
	if got := fields["avg_moisture"].(float64); got != 31 {
		t.Errorf("avg_moisture = %v, want 31", got)
	}
	if got := fields["alerts"].(int64); got != 0 {
		t.Errorf("alerts = %v, want 0", got)
	}
	// moisture rose on the one sampled pumping interval, fell on none; the
	// initial sample counts as non-gaining
	if got := fields["efficiency_pct"].(float64); got != 50 {
		t.Errorf("efficiency_pct = %v, want 50", got)
	}
}

func TestDailyRollupIdleDayAndAlerts(t *testing.T) {
	sink := &captureWriteAPI{}
	rollup := NewDailyRollup(sink, "irrigation_daily")

	day := time.Date(2026, 8, 2, 8, 0, 0, 0, time.UTC)
	rollup.Observe(reading(day, 26, 0))
	rollup.Observe(reading(day.Add(time.Minute), 19, 0)) // crosses the alert line
	rollup.Observe(reading(day.Add(2*time.Minute), 18, 0))
	rollup.Observe(reading(day.AddDate(0, 0, 1), 18, 0))

	fields := pointFields(sink.points[0])
	if got := fields["water_l"].(float64); got != 0 {
		t.Errorf("idle day water_l = %v, want 0", got)
	}
	if got := fields["pump_cycles"].(int64); got != 0 {
		t.Errorf("idle day pump_cycles = %v, want 0", got)
	}
	if got := fields["alerts"].(int64); got != 1 {
		t.Errorf("alerts = %v, want 1 (single downward crossing)", got)
	}
	if got := fields["efficiency_pct"].(float64); got != 100 {
		t.Errorf("idle day efficiency_pct = %v, want 100", got)
	}
}

func TestDailyRollupFlushesPartialDayOnShutdown(t *testing.T) {
	sink := &captureWriteAPI{}
	rollup := NewDailyRollup(sink, "irrigation_daily")

	rollup.Observe(reading(time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC), 40, 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rollup.Start(ctx)

	if len(sink.points) != 1 {
		t.Fatalf("shutdown flushed %d points, want 1", len(sink.points))
	}
	if got := pointFields(sink.points[0])["avg_moisture"].(float64); got != 40 {
		t.Errorf("avg_moisture = %v, want 40", got)
	}
}

func TestDailyRollupIgnoresLongGaps(t *testing.T) {
	sink := &captureWriteAPI{}
	rollup := NewDailyRollup(sink, "irrigation_daily")

	day := time.Date(2026, 8, 4, 6, 0, 0, 0, time.UTC)
	rollup.Observe(reading(day, 35, 12))
	// the feed was down for an hour; that hour must not count as pumping
	rollup.Observe(reading(day.Add(time.Hour), 36, 12))
	rollup.Observe(reading(day.AddDate(0, 0, 1), 36, 0))

	fields := pointFields(sink.points[0])
	if got := fields["water_l"].(float64); got != 0 {
		t.Errorf("water_l = %v, want 0 (gap not integrated)", got)
	}
	if got := fields["runtime_min"].(float64); got != 0 {
		t.Errorf("runtime_min = %v, want 0 (gap not integrated)", got)
	}
}
