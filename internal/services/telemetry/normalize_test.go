package telemetry

import (
	"encoding/json"
	"testing"

	"github.com/irridash/backend/internal/model"
)

func TestNormalizeMixedRawRecord(t *testing.T) {
	raw := model.RawReading{
		"SoilMoisture":     "150",
		"Temperature":      nil,
		"Humidity":         "55.5",
		"TankLevel":        "-10",
		"FlowRate_LperMin": "abc",
	}

	got := Normalize(raw)
	want := model.SensorReading{
		SoilMoisture: 100,
		Temperature:  0,
		Humidity:     55.5,
		TankLevel:    0,
		FlowRate:     0,
	}
	if got != want {
		t.Fatalf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestNormalizeDefaultsAndClamping(t *testing.T) {
	cases := []struct {
		name string
		raw  model.RawReading
		want model.SensorReading
	}{
		{
			name: "nil raw record",
			raw:  nil,
			want: model.SensorReading{},
		},
		{
			name: "empty raw record",
			raw:  model.RawReading{},
			want: model.SensorReading{},
		},
		{
			name: "numbers pass through",
			raw: model.RawReading{
				"SoilMoisture":     42.5,
				"Temperature":      -12.0,
				"Humidity":         80,
				"TankLevel":        float32(33),
				"FlowRate_LperMin": int64(250),
			},
			want: model.SensorReading{
				SoilMoisture: 42.5,
				Temperature:  -12,
				Humidity:     80,
				TankLevel:    33,
				FlowRate:     250,
			},
		},
		{
			name: "numeric strings with whitespace",
			raw: model.RawReading{
				"SoilMoisture": " 61.2 ",
				"Temperature":  "25",
			},
			want: model.SensorReading{
				SoilMoisture: 61.2,
				Temperature:  25,
			},
		},
		{
			name: "out of range values clamp to nearest bound",
			raw: model.RawReading{
				"SoilMoisture":     -5,
				"Temperature":      999,
				"Humidity":         101,
				"TankLevel":        "130",
				"FlowRate_LperMin": "1500",
			},
			want: model.SensorReading{
				SoilMoisture: 0,
				Temperature:  100,
				Humidity:     100,
				TankLevel:    100,
				FlowRate:     1000,
			},
		},
		{
			name: "non-finite strings fall back to default",
			raw: model.RawReading{
				"SoilMoisture": "NaN",
				"Temperature":  "+Inf",
				"Humidity":     "-Inf",
			},
			want: model.SensorReading{},
		},
		{
			name: "unknown fields are ignored",
			raw: model.RawReading{
				"soil_moisture": 77, // canonical name, not the feed's name
				"BatteryLevel":  50,
				"Humidity":      40,
			},
			want: model.SensorReading{Humidity: 40},
		},
		{
			name: "json numbers",
			raw: model.RawReading{
				"TankLevel": json.Number("66.6"),
			},
			want: model.SensorReading{TankLevel: 66.6},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.raw); got != tc.want {
				t.Fatalf("Normalize(%v) = %+v, want %+v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	raw := model.RawReading{
		"SoilMoisture":     "37.5",
		"Humidity":         88,
		"FlowRate_LperMin": "12.25",
	}
	first := Normalize(raw)
	for i := 0; i < 100; i++ {
		if got := Normalize(raw); got != first {
			t.Fatalf("run %d: Normalize() = %+v, want %+v", i, got, first)
		}
	}
	// The input map must not be touched.
	if len(raw) != 3 {
		t.Fatalf("Normalize mutated its input: %v", raw)
	}
}

func TestFallbackReadingIsAllDefaults(t *testing.T) {
	if got := FallbackReading(); got != (model.SensorReading{}) {
		t.Fatalf("FallbackReading() = %+v, want zero reading", got)
	}
}
