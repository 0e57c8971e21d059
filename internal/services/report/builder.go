package report

import (
	"math"
	"time"

	"github.com/irridash/backend/internal/model"
)

// BuildDataset assembles the single dataset every export encoding is derived
// from: the daily rows plus the aggregate summary. All encoders are pure
// functions of the returned value.
func BuildDataset(title string, generatedAt time.Time, rows []model.ReportRow) model.ReportDataset {
	ds := model.ReportDataset{
		Title:       title,
		GeneratedAt: generatedAt.UTC(),
		Rows:        rows,
	}

	var moisture, efficiency float64
	for _, r := range rows {
		ds.Summary.TotalWaterL += r.WaterUsedL
		ds.Summary.TotalRuntimeMin += r.RuntimeMin
		ds.Summary.TotalCycles += r.PumpCycles
		ds.Summary.TotalAlerts += r.AlertCount
		moisture += r.AvgMoisture
		efficiency += r.EfficiencyPct
	}
	if n := float64(len(rows)); n > 0 {
		ds.Summary.AvgMoisture = round1(moisture / n)
		ds.Summary.AvgEfficiency = round1(efficiency / n)
	}
	ds.Summary.TotalWaterL = round1(ds.Summary.TotalWaterL)
	ds.Summary.TotalRuntimeMin = round1(ds.Summary.TotalRuntimeMin)
	return ds
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
