package model

import "time"

// SensorReading is the canonical, range-clamped record used throughout the
// dashboard. Every field is a finite number inside its declared range.
// A reading is constructed fresh for every delivery from the feed and is
// superseded, never mutated, by the next one.
type SensorReading struct {
	SoilMoisture float64   `json:"soil_moisture"` // percent, 0..100
	Temperature  float64   `json:"temperature"`   // degrees C, -50..100
	Humidity     float64   `json:"humidity"`      // percent, 0..100
	TankLevel    float64   `json:"tank_level"`    // percent, 0..100
	FlowRate     float64   `json:"flow_rate"`     // liters/min, 0..1000
	Timestamp    time.Time `json:"timestamp"`
}

// RawReading is the as-received record from the external feed: field names in
// the upstream naming convention, values that may be numbers, numeric strings,
// null or missing entirely.
type RawReading map[string]interface{}
