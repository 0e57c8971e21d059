package control

import (
	"fmt"
	"sync"

	"github.com/irridash/backend/internal/model"
	"github.com/irridash/backend/internal/observability/metrics"
)

// ErrUnknownZone is returned for a zone index outside 1..N.
var ErrUnknownZone = fmt.Errorf("unknown zone")

// Snapshot is the externally visible state of the panel: zone flags together
// with the pump value derived from them. Watchers only ever see consistent
// pairs, never a zone flip without the recomputed pump.
type Snapshot struct {
	Zones  []model.Zone `json:"zones"`
	PumpOn bool         `json:"pump_on"`
}

type watcher struct {
	id int
	fn func(Snapshot)
}

// ZonePanel holds per-zone activation for the dashboard view and derives the
// local pump value as the OR over all zone flags. The derived value is
// recomputed on every mutation and never stored as authoritative state of its
// own; the remote-authoritative flag lives in RemotePump.
type ZonePanel struct {
	mu       sync.Mutex
	zones    []bool // index 0 holds zone 1
	watchers []watcher
	nextID   int
}

// NewZonePanel creates a panel with n inactive zones (n < 1 falls back to 1).
func NewZonePanel(n int) *ZonePanel {
	if n < 1 {
		n = 1
	}
	return &ZonePanel{zones: make([]bool, n)}
}

// ToggleZone flips zone i (1-based) and recomputes the pump value before any
// watcher is notified.
func (p *ZonePanel) ToggleZone(i int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := i - 1
	if idx < 0 || idx >= len(p.zones) {
		return fmt.Errorf("%w: %d", ErrUnknownZone, i)
	}
	p.zones[idx] = !p.zones[idx]
	metrics.ZoneToggles.Inc()
	p.notifyLocked()
	return nil
}

// SetZone sets zone i directly. Setting a zone to its current value is a
// no-op: state is unchanged and watchers are not notified.
func (p *ZonePanel) SetZone(i int, active bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := i - 1
	if idx < 0 || idx >= len(p.zones) {
		return fmt.Errorf("%w: %d", ErrUnknownZone, i)
	}
	if p.zones[idx] == active {
		return nil
	}
	p.zones[idx] = active
	p.notifyLocked()
	return nil
}

// PumpOn reports the derived pump value.
func (p *ZonePanel) PumpOn() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pumpLocked()
}

// Snapshot returns a consistent copy of the panel state.
func (p *ZonePanel) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Watch registers fn for every state change and returns an idempotent cancel
// handle. After cancel returns, fn is never invoked again.
func (p *ZonePanel) Watch(fn func(Snapshot)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.watchers = append(p.watchers, watcher{id: id, fn: fn})
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, w := range p.watchers {
			if w.id == id {
				p.watchers = append(p.watchers[:i], p.watchers[i+1:]...)
				break
			}
		}
	}
}

func (p *ZonePanel) pumpLocked() bool {
	for _, on := range p.zones {
		if on {
			return true
		}
	}
	return false
}

func (p *ZonePanel) snapshotLocked() Snapshot {
	zones := make([]model.Zone, len(p.zones))
	for i, on := range p.zones {
		zones[i] = model.Zone{Index: i + 1, Active: on}
	}
	return Snapshot{Zones: zones, PumpOn: p.pumpLocked()}
}

func (p *ZonePanel) notifyLocked() {
	snap := p.snapshotLocked()
	for _, w := range p.watchers {
		w.fn(snap)
	}
}
