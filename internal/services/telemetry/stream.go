package telemetry

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/irridash/backend/internal/model"
	"github.com/irridash/backend/internal/observability/metrics"
	"github.com/irridash/backend/pkg/mqttbus"
)

type subscriber struct {
	id int
	fn func(model.SensorReading)
}

// Stream bridges the push-based MQTT feed to normalized-reading subscribers.
// Every upstream delivery is normalized exactly once and handed to each
// subscriber exactly once, in delivery order. It also keeps the latest raw
// record for the pull variant FetchOnce.
type Stream struct {
	consumer mqttbus.IConsumer

	mu        sync.Mutex
	subs      []subscriber
	nextID    int
	latest    model.RawReading
	hasLatest bool

	now func() time.Time
}

func NewStream(consumer mqttbus.IConsumer) *Stream {
	s := &Stream{
		consumer: consumer,
		now:      time.Now,
	}
	consumer.SetHandler(s.handleMessage)
	return s
}

// Start runs the consume loop; it blocks until ctx is cancelled.
func (s *Stream) Start(ctx context.Context) {
	s.consumer.ConsumeMessage(ctx)
}

// Subscribe registers fn for every future canonical reading and returns an
// idempotent cancel handle. After cancel returns, fn is never invoked again,
// even for a delivery in flight at that moment.
func (s *Stream) Subscribe(fn func(model.SensorReading)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
	}
}

// FetchOnce normalizes the latest known raw record. When nothing has been
// received yet (or the transport is down) it returns the all-defaults
// canonical record; transport errors never reach the caller.
func (s *Stream) FetchOnce(ctx context.Context) model.SensorReading {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reading model.SensorReading
	if s.hasLatest {
		reading = Normalize(s.latest)
	} else {
		reading = FallbackReading()
	}
	reading.Timestamp = s.now().UTC()
	return reading
}

// handleMessage is invoked by the consumer for every delivery, one at a time
// and in broker order. Fanout happens under the lock so a cancel handle that
// has returned can no longer be called.
func (s *Stream) handleMessage(_ string, msg mqtt.Message) error {
	metrics.ReadingsProcessed.Inc()

	var raw model.RawReading
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		// A broken payload still counts as a delivery: subscribers get the
		// all-defaults reading rather than a skipped tick.
		log.Printf("telemetry: invalid JSON on %s: %v", msg.Topic(), err)
		metrics.ReadingDecodeFailures.Inc()
		raw = nil
	}

	reading := Normalize(raw)
	reading.Timestamp = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	if raw != nil {
		s.latest = raw
		s.hasLatest = true
	}
	for _, sub := range s.subs {
		sub.fn(reading)
	}
	return nil
}
