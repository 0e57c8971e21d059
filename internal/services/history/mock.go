package history

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/irridash/backend/internal/model"
)

// Moisture drift per day when the system irrigates vs. when it rests. Mirrors
// the gain/decay model of the field simulator.
const (
	mockGainPct  = 6.0
	mockDecayPct = 4.0
)

// MockProvider generates plausible history from a fixed seed: same seed and
// anchor, same rows, so chart and report output is reproducible in
// development and tests.
type MockProvider struct {
	Seed   int64
	Anchor time.Time // last day of the series; zero means today
}

func NewMockProvider(seed int64) *MockProvider {
	return &MockProvider{Seed: seed}
}

func (m *MockProvider) Daily(_ context.Context, days int) ([]model.ReportRow, error) {
	if days < 1 {
		days = 1
	}
	anchor := m.Anchor
	if anchor.IsZero() {
		anchor = time.Now().UTC()
	}
	anchor = anchor.Truncate(24 * time.Hour)

	rng := rand.New(rand.NewSource(m.Seed))
	moisture := 30.0 + rng.Float64()*20.0

	rows := make([]model.ReportRow, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := anchor.AddDate(0, 0, -i)

		cycles := rng.Intn(5)
		runtime := 0.0
		water := 0.0
		for c := 0; c < cycles; c++ {
			dur := 10 + rng.Float64()*35 // minutes per cycle
			runtime += dur
			water += dur * (8 + rng.Float64()*6) // l/min effective flow
		}

		if cycles > 0 {
			moisture += mockGainPct * float64(cycles) / 2
		} else {
			moisture -= mockDecayPct
		}
		moisture = clampPct(moisture + (rng.Float64()-0.5)*3)

		alerts := 0
		if moisture < 25 || rng.Float64() < 0.1 {
			alerts = 1 + rng.Intn(2)
		}

		// water actually retained vs. pumped; idle days report a flat 100
		efficiency := 100.0
		if water > 0 {
			efficiency = clampPct(70 + rng.Float64()*25)
		}

		rows = append(rows, model.ReportRow{
			Date:          day.Format("2006-01-02"),
			WaterUsedL:    round1(water),
			RuntimeMin:    round1(runtime),
			PumpCycles:    cycles,
			AvgMoisture:   round1(moisture),
			AlertCount:    alerts,
			EfficiencyPct: round1(efficiency),
		})
	}
	return rows, nil
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
