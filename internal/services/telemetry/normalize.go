package telemetry

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/irridash/backend/internal/model"
)

// The feed names its fields differently from the canonical record. The
// mapping below is total and fixed; anything outside it is ignored.
const (
	rawSoilMoisture = "SoilMoisture"
	rawTemperature  = "Temperature"
	rawHumidity     = "Humidity"
	rawTankLevel    = "TankLevel"
	rawFlowRate     = "FlowRate_LperMin"
)

// Every field falls back to zero when the raw value is absent, null or not a
// number.
const fieldDefault = 0

// Normalize converts a raw, possibly malformed, possibly partial feed record
// into a fully populated canonical reading. Pure and deterministic; malformed
// input never produces an error, it degrades to per-field defaults so the UI
// stays renderable. The Timestamp is left zero; the caller stamps delivery
// time.
func Normalize(raw model.RawReading) model.SensorReading {
	return model.SensorReading{
		SoilMoisture: fieldValue(raw, rawSoilMoisture, 0, 100),
		Temperature:  fieldValue(raw, rawTemperature, -50, 100),
		Humidity:     fieldValue(raw, rawHumidity, 0, 100),
		TankLevel:    fieldValue(raw, rawTankLevel, 0, 100),
		FlowRate:     fieldValue(raw, rawFlowRate, 0, 1000),
	}
}

// FallbackReading is the all-defaults canonical record used when no raw data
// is available at all.
func FallbackReading() model.SensorReading {
	return Normalize(nil)
}

func fieldValue(raw model.RawReading, key string, min, max float64) float64 {
	if raw == nil {
		return clamp(fieldDefault, min, max)
	}
	v, ok := raw[key]
	if !ok || v == nil {
		return clamp(fieldDefault, min, max)
	}
	f, err := toFloat(v)
	if err != nil {
		return clamp(fieldDefault, min, max)
	}
	return clamp(f, min, max)
}

func toFloat(v interface{}) (float64, error) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
	// ParseFloat accepts "NaN" and "Inf"; canonical fields must stay finite.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value")
	}
	return f, nil
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
