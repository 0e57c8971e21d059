package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/irridash/backend/internal/model"
)

// InfluxProvider reads back the per-day irrigation series the telemetry
// DailyRollup writes. One row per day, fields pivoted into columns.
type InfluxProvider struct {
	client      influxdb2.Client
	org         string
	bucket      string
	measurement string
}

func NewInfluxProvider(client influxdb2.Client, org, bucket, measurement string) *InfluxProvider {
	if measurement == "" {
		measurement = "irrigation_daily"
	}
	return &InfluxProvider{client: client, org: org, bucket: bucket, measurement: measurement}
}

func (p *InfluxProvider) buildFlux(days int) string {
	return fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dd)
  |> filter(fn: (r) => r._measurement == %q)
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
  |> sort(columns: ["_time"])
`, p.bucket, days, p.measurement)
}

func (p *InfluxProvider) Daily(ctx context.Context, days int) ([]model.ReportRow, error) {
	if days < 1 {
		days = 1
	}

	api := p.client.QueryAPI(p.org)
	res, err := api.Query(ctx, p.buildFlux(days))
	if err != nil {
		return nil, fmt.Errorf("history query: %w", err)
	}
	defer func() { _ = res.Close() }()

	out := make([]model.ReportRow, 0, days)
	for res.Next() {
		rec := res.Record()
		row := model.ReportRow{
			Date:          rec.Time().UTC().Format("2006-01-02"),
			WaterUsedL:    asFloat(rec.ValueByKey("water_l")),
			RuntimeMin:    asFloat(rec.ValueByKey("runtime_min")),
			PumpCycles:    int(asFloat(rec.ValueByKey("pump_cycles"))),
			AvgMoisture:   asFloat(rec.ValueByKey("avg_moisture")),
			AlertCount:    int(asFloat(rec.ValueByKey("alerts"))),
			EfficiencyPct: asFloat(rec.ValueByKey("efficiency_pct")),
		}
		out = append(out, row)
	}
	if res.Err() != nil {
		return nil, fmt.Errorf("history iterate: %w", res.Err())
	}

	if len(out) > days {
		out = out[len(out)-days:]
	}
	return out, nil
}

// Influx hands values back as float64, int64 or strings depending on how the
// series was written; accept all of them.
func asFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	case time.Time:
		return 0
	}
	return 0
}
