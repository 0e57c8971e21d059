package control

import (
	"context"
	"fmt"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/irridash/backend/pkg/mqttbus"
)

// MQTTStore keeps store paths on retained MQTT topics: Set publishes retained
// so the broker holds the last value, Get serves the locally mirrored copy,
// Watch fans out every value change in arrival order.
type MQTTStore struct {
	client mqtt.Client
	prefix string

	mu         sync.Mutex
	cache      map[string]string
	watchers   map[string][]storeWatcher
	subscribed map[string]bool
	publishers map[string]mqttbus.IPublisher
	nextID     int
}

// NewMQTTStore wraps an already connected client. prefix namespaces the
// store topics, e.g. "store".
func NewMQTTStore(client mqtt.Client, prefix string) *MQTTStore {
	if prefix == "" {
		prefix = "store"
	}
	return &MQTTStore{
		client:     client,
		prefix:     prefix,
		cache:      make(map[string]string),
		watchers:   make(map[string][]storeWatcher),
		subscribed: make(map[string]bool),
		publishers: make(map[string]mqttbus.IPublisher),
	}
}

func (s *MQTTStore) topicFor(path string) string {
	return s.prefix + "/" + path
}

func (s *MQTTStore) Get(_ context.Context, path string) (string, error) {
	if err := s.ensureSubscribed(path); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache[path], nil
}

func (s *MQTTStore) Set(_ context.Context, path, value string) error {
	if err := s.publisherFor(path).PublishMessage(value); err != nil {
		return fmt.Errorf("store publish %s: %w", path, err)
	}
	// Mirror locally so a read right after a write sees the new value even
	// before the broker echoes it back.
	s.onValue(path, value)
	return nil
}

// publisherFor lazily builds one retained publisher per path, so every value
// survives on the broker for late subscribers.
func (s *MQTTStore) publisherFor(path string) mqttbus.IPublisher {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.publishers[path]
	if !ok {
		p = mqttbus.NewRetainedPublisher(s.client, s.topicFor(path))
		s.publishers[path] = p
	}
	return p
}

func (s *MQTTStore) Watch(path string, fn func(string)) (func(), error) {
	if err := s.ensureSubscribed(path); err != nil {
		return nil, err
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[path] = append(s.watchers[path], storeWatcher{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		list := s.watchers[path]
		for i, w := range list {
			if w.id == id {
				s.watchers[path] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}, nil
}

func (s *MQTTStore) ensureSubscribed(path string) error {
	s.mu.Lock()
	already := s.subscribed[path]
	if !already {
		s.subscribed[path] = true
	}
	s.mu.Unlock()
	if already {
		return nil
	}

	token := s.client.Subscribe(s.topicFor(path), 1, func(_ mqtt.Client, msg mqtt.Message) {
		s.onValue(path, string(msg.Payload()))
	})
	token.Wait()
	if token.Error() != nil {
		s.mu.Lock()
		s.subscribed[path] = false
		s.mu.Unlock()
		return fmt.Errorf("store subscribe %s: %w", path, token.Error())
	}
	return nil
}

func (s *MQTTStore) onValue(path, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache[path] == value {
		// retained echo of our own write, or a duplicate; watchers already
		// saw this value
		return
	}
	s.cache[path] = value
	for _, w := range s.watchers[path] {
		w.fn(value)
	}
}
