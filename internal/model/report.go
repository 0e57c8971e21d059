package model

import "time"

// ReportRow is one day of irrigation history as shown in the report table.
type ReportRow struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	WaterUsedL    float64 `json:"water_used_l"`
	RuntimeMin    float64 `json:"runtime_min"`
	PumpCycles    int     `json:"pump_cycles"`
	AvgMoisture   float64 `json:"avg_moisture"`
	AlertCount    int     `json:"alert_count"`
	EfficiencyPct float64 `json:"efficiency_pct"`
}

// ReportSummary holds the aggregate figures printed under the table.
type ReportSummary struct {
	TotalWaterL     float64 `json:"total_water_l"`
	TotalRuntimeMin float64 `json:"total_runtime_min"`
	TotalCycles     int     `json:"total_cycles"`
	AvgMoisture     float64 `json:"avg_moisture"`
	TotalAlerts     int     `json:"total_alerts"`
	AvgEfficiency   float64 `json:"avg_efficiency"`
}

// ReportDataset is the single source all export encodings are derived from.
// Every encoder is a pure function of this value.
type ReportDataset struct {
	Title       string        `json:"title"`
	GeneratedAt time.Time     `json:"generated_at"`
	Rows        []ReportRow   `json:"rows"`
	Summary     ReportSummary `json:"summary"`
}
