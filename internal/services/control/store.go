package control

import (
	"context"
	"sync"
)

// StateStore abstracts the hosted realtime store the dashboard shares with
// the hardware side. Implementations: MQTTStore against the broker's retained
// topics, MemoryStore for tests and local development. The client object is
// constructed once at process start and handed to every component that needs
// it; nothing here reaches for a process-global handle.
type StateStore interface {
	// Get returns the current value at path, or "" when absent.
	Get(ctx context.Context, path string) (string, error)
	// Set writes the value at path. Writing the value the path already
	// holds is observably a no-op: watchers see changes only.
	Set(ctx context.Context, path, value string) error
	// Watch registers fn for every future change of path, in change order,
	// and returns an idempotent cancel handle.
	Watch(path string, fn func(value string)) (func(), error)
}

type storeWatcher struct {
	id int
	fn func(string)
}

// MemoryStore is an in-process StateStore.
type MemoryStore struct {
	mu       sync.Mutex
	values   map[string]string
	watchers map[string][]storeWatcher
	nextID   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:   make(map[string]string),
		watchers: make(map[string][]storeWatcher),
	}
}

func (s *MemoryStore) Get(_ context.Context, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[path], nil
}

func (s *MemoryStore) Set(_ context.Context, path, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values[path] == value {
		return nil
	}
	s.values[path] = value
	for _, w := range s.watchers[path] {
		w.fn(value)
	}
	return nil
}

func (s *MemoryStore) Watch(path string, fn func(string)) (func(), error) {
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
