package control

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/irridash/backend/internal/model"
	"github.com/irridash/backend/internal/observability/metrics"
	"github.com/irridash/backend/internal/services/audit"
)

// pumpStatePath is the fixed logical path of the pump flag in the store.
const pumpStatePath = "control/pump/state"

// ErrInvalidPumpState rejects writes of anything but the two literals.
var ErrInvalidPumpState = fmt.Errorf("invalid pump state")

// RemotePump mirrors and mutates the externally authoritative ON/OFF pump
// flag. It is deliberately separate from ZonePanel's derived pump value: the
// remote flag reflects the hardware side, the panel value is optimistic UI
// state, and zone toggles never write through to the remote flag.
type RemotePump struct {
	store StateStore
	audit audit.Logger
	now   func() time.Time
}

func NewRemotePump(store StateStore, auditLog audit.Logger) *RemotePump {
	return &RemotePump{
		store: store,
		audit: auditLog,
		now:   time.Now,
	}
}

// Read returns the current remote value. An absent value, or any transport
// failure, reads as OFF; the transport error never crosses to the caller.
func (r *RemotePump) Read(ctx context.Context) model.PumpState {
	v, err := r.store.Get(ctx, pumpStatePath)
	if err != nil {
		log.Printf("control: pump state read failed, assuming OFF: %v", err)
		return model.PumpOff
	}
	if v == string(model.PumpOn) {
		return model.PumpOn
	}
	return model.PumpOff
}

// Write pushes the flag and, on success, appends one audit entry. Values
// other than ON/OFF fail validation before any remote traffic; transport
// failure is reported as ok=false, never as a panic or a raw transport error.
func (r *RemotePump) Write(ctx context.Context, state model.PumpState, user string) (bool, error) {
	if state != model.PumpOn && state != model.PumpOff {
		metrics.PumpWrites.WithLabelValues("invalid").Inc()
		return false, fmt.Errorf("%w: %q", ErrInvalidPumpState, state)
	}

	if err := r.store.Set(ctx, pumpStatePath, string(state)); err != nil {
		log.Printf("control: pump state write failed: %v", err)
		metrics.PumpWrites.WithLabelValues("transport_error").Inc()
		return false, nil
	}

	if r.audit != nil {
		entry := audit.Entry{
			Action:    "pump_" + strings.ToLower(string(state)),
			Timestamp: r.now().UTC().Format(time.RFC3339),
			User:      user,
		}
		// the write already happened; a failing audit sink must not undo it
		if err := r.audit.Append(ctx, entry); err != nil {
			log.Printf("control: audit append failed: %v", err)
		}
	}
	metrics.PumpWrites.WithLabelValues("ok").Inc()
	return true, nil
}

// Subscribe registers fn for every remote change, in change order, and
// returns an idempotent cancel handle.
func (r *RemotePump) Subscribe(fn func(model.PumpState)) (func(), error) {
	return r.store.Watch(pumpStatePath, func(v string) {
		if v == string(model.PumpOn) {
			fn(model.PumpOn)
		} else {
			fn(model.PumpOff)
		}
	})
}
