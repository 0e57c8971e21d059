package control

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/irridash/backend/internal/model"
	"github.com/irridash/backend/internal/services/audit"
)

// failingStore simulates a transport outage.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("transport down")
}
func (failingStore) Set(context.Context, string, string) error {
	return errors.New("transport down")
}
func (failingStore) Watch(string, func(string)) (func(), error) {
	return nil, errors.New("transport down")
}

func newTestPump(store StateStore) (*RemotePump, *audit.MemoryLog) {
	logbook := audit.NewMemoryLog()
	pump := NewRemotePump(store, logbook)
	pump.now = func() time.Time { return time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC) }
	return pump, logbook
}

func TestReadDefaultsToOff(t *testing.T) {
	pump, _ := newTestPump(NewMemoryStore())
	if got := pump.Read(context.Background()); got != model.PumpOff {
		t.Fatalf("Read() on empty store = %q, want OFF", got)
	}
}

func TestWriteThenRead(t *testing.T) {
	pump, logbook := newTestPump(NewMemoryStore())
	ctx := context.Background()

	ok, err := pump.Write(ctx, model.PumpOn, "alice")
	if err != nil || !ok {
		t.Fatalf("Write(ON) = %v, %v; want true, nil", ok, err)
	}
	if got := pump.Read(ctx); got != model.PumpOn {
		t.Fatalf("Read() = %q, want ON", got)
	}

	entries := logbook.Snapshot()
	if len(entries) != 1 {
		t.Fatalf("audit log has %d entries, want 1", len(entries))
	}
	want := audit.Entry{Action: "pump_on", Timestamp: "2026-08-01T09:30:00Z", User: "alice"}
	if entries[0] != want {
		t.Fatalf("audit entry = %+v, want %+v", entries[0], want)
	}
}

func TestWriteRejectsNonLiteralValues(t *testing.T) {
	store := NewMemoryStore()
	pump, logbook := newTestPump(store)
	ctx := context.Background()

	for _, bad := range []model.PumpState{"MAYBE", "on", "", "ON "} {
		ok, err := pump.Write(ctx, bad, "alice")
		if ok {
			t.Fatalf("Write(%q) succeeded, want validation failure", bad)
		}
		if !errors.Is(err, ErrInvalidPumpState) {
			t.Fatalf("Write(%q) error = %v, want ErrInvalidPumpState", bad, err)
		}
	}

	if len(logbook.Snapshot()) != 0 {
		t.Fatal("rejected writes must not append audit entries")
	}
	if v, _ := store.Get(ctx, pumpStatePath); v != "" {
		t.Fatalf("rejected writes must not touch the store, got %q", v)
	}
}

func TestWriteTransportFailureReturnsFalse(t *testing.T) {
	pump, logbook := newTestPump(failingStore{})

	ok, err := pump.Write(context.Background(), model.PumpOff, "alice")
	if ok {
		t.Fatal("Write over a dead transport must report false")
	}
	if err != nil {
		t.Fatalf("transport failure must not surface as an error, got %v", err)
	}
	if len(logbook.Snapshot()) != 0 {
		t.Fatal("failed writes must not append audit entries")
	}
}

func TestReadSwallowsTransportErrors(t *testing.T) {
	pump, _ := newTestPump(failingStore{})
	if got := pump.Read(context.Background()); got != model.PumpOff {
		t.Fatalf("Read() over dead transport = %q, want OFF", got)
	}
}

func TestSubscribeDeliversChangesInOrder(t *testing.T) {
	pump, _ := newTestPump(NewMemoryStore())
	ctx := context.Background()

	var got []model.PumpState
	cancel, err := pump.Subscribe(func(s model.PumpState) { got = append(got, s) })
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	mustWrite := func(s model.PumpState) {
		t.Helper()
		if ok, err := pump.Write(ctx, s, "alice"); err != nil || !ok {
			t.Fatalf("Write(%q) = %v, %v", s, ok, err)
		}
	}

	mustWrite(model.PumpOn)
	mustWrite(model.PumpOff)
	mustWrite(model.PumpOn)
	cancel()
	cancel() // idempotent
	mustWrite(model.PumpOff)

	want := []model.PumpState{model.PumpOn, model.PumpOff, model.PumpOn}
	if len(got) != len(want) {
		t.Fatalf("got %d notifications (%v), want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notification %d = %q, want %q", i, got[i], want[i])
		}
	}
}
