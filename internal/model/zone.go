package model

// PumpState is the remote-authoritative pump flag as stored in the external
// store. It is distinct from the locally derived pump value computed from the
// zone switches; the two are never merged.
type PumpState string

const (
	PumpOn  PumpState = "ON"
	PumpOff PumpState = "OFF"
)

// Zone is an independently controllable irrigation sub-circuit.
type Zone struct {
	Index  int  `json:"index"` // 1-based
	Active bool `json:"active"`
}
