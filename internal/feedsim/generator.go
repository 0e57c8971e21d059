package feedsim

import (
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/irridash/backend/internal/model"
)

// Drift per minute while the pump runs vs. while it rests, in percent points.
const (
	gainPerMin  = 0.6
	decayPerMin = 0.1
)

// Generator produces raw feed records the way the hardware does: drifting
// physical values, field names in the device's convention, and values that
// arrive as numbers, numeric strings or not at all. It stands in for the real
// feed during development; the dashboard must normalize everything it emits.
type Generator struct {
	mu       sync.Mutex
	rng      *rand.Rand
	last     time.Time
	moisture float64 // percent
	tank     float64 // percent
	pumping  bool
}

func NewGenerator(seed int64) *Generator {
	rng := rand.New(rand.NewSource(seed))
	return &Generator{
		rng:      rng,
		moisture: 25 + rng.Float64()*30,
		tank:     60 + rng.Float64()*40,
	}
}

// SetPumping switches the drift model between irrigating and resting.
func (g *Generator) SetPumping(on bool) {
	g.mu.Lock()
	g.pumping = on
	g.mu.Unlock()
}

// Next advances the internal state and returns one raw record.
func (g *Generator) Next(now time.Time) model.RawReading {
	g.mu.Lock()
	defer g.mu.Unlock()

	dtMin := 0.0
	if !g.last.IsZero() {
		dtMin = now.Sub(g.last).Minutes()
		if dtMin < 0 {
			dtMin = 0
		}
	}
	g.last = now

	flow := 0.0
	if g.pumping {
		g.moisture = clampPct(g.moisture + gainPerMin*dtMin)
		g.tank = clampPct(g.tank - 0.4*dtMin)
		flow = 10 + g.rng.Float64()*4
	} else {
		g.moisture = clampPct(g.moisture - decayPerMin*dtMin)
	}

	hour := float64(now.Hour()) + float64(now.Minute())/60
	temp := 18 + 9*math.Sin((hour-9)/24*2*math.Pi) + g.rng.Float64()
	humidity := clampPct(85 - temp + g.rng.Float64()*10)

	raw := model.RawReading{
		"SoilMoisture":     g.messy(g.moisture),
		"Temperature":      g.messy(temp),
		"Humidity":         g.messy(humidity),
		"TankLevel":        g.messy(g.tank),
		"FlowRate_LperMin": g.messy(flow),
	}

	// the real feed occasionally drops or nulls a field; the dashboard has
	// to cope, so the simulator does it too
	if g.rng.Float64() < 0.05 {
		delete(raw, "Humidity")
	}
	if g.rng.Float64() < 0.05 {
		raw["Temperature"] = nil
	}
	return raw
}

// messy encodes a value the way the device firmware does: sometimes a JSON
// number, sometimes a decimal string.
func (g *Generator) messy(v float64) interface{} {
	v = math.Round(v*10) / 10
	if g.rng.Intn(2) == 0 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return v
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
