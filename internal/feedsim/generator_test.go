package feedsim

import (
	"testing"
	"time"

	"github.com/irridash/backend/internal/services/telemetry"
)

func TestGeneratorOutputNormalizes(t *testing.T) {
	gen := NewGenerator(7)
	gen.SetPumping(true)

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 200; i++ {
		now = now.Add(30 * time.Second)
		raw := gen.Next(now)

		r := telemetry.Normalize(raw)
		if r.SoilMoisture < 0 || r.SoilMoisture > 100 {
			t.Fatalf("tick %d: moisture out of range: %+v", i, r)
		}
		if r.TankLevel < 0 || r.TankLevel > 100 {
			t.Fatalf("tick %d: tank out of range: %+v", i, r)
		}
		if r.FlowRate <= 0 {
			t.Fatalf("tick %d: pumping but no flow: %+v (raw %v)", i, r.FlowRate, raw)
		}
	}
}

func TestGeneratorMoistureDrift(t *testing.T) {
	gen := NewGenerator(3)
	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	first := telemetry.Normalize(gen.Next(start))

	// an hour of rest dries the soil out
	rested := telemetry.Normalize(gen.Next(start.Add(time.Hour)))
	if rested.SoilMoisture >= first.SoilMoisture {
		t.Fatalf("moisture did not decay: %v -> %v", first.SoilMoisture, rested.SoilMoisture)
	}

	// an hour of irrigation brings it back up
	gen.SetPumping(true)
	watered := telemetry.Normalize(gen.Next(start.Add(2 * time.Hour)))
	if watered.SoilMoisture <= rested.SoilMoisture {
		t.Fatalf("moisture did not rise while pumping: %v -> %v", rested.SoilMoisture, watered.SoilMoisture)
	}
}
