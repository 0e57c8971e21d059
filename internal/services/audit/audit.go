package audit

import (
	"context"
	"sync"
)

// Entry is one append-only audit record. Timestamp is an ISO-8601 string per
// the external interface contract.
type Entry struct {
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
}

// Logger appends audit entries.
type Logger interface {
	Append(ctx context.Context, entry Entry) error
}

// MemoryLog keeps entries in memory for the dashboard's audit view.
type MemoryLog struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (l *MemoryLog) Append(_ context.Context, entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return nil
}

// Snapshot returns a copy of the log, oldest first.
func (l *MemoryLog) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

type multiLog []Logger

// Tee fans every entry out to all given loggers. The first error wins but
// every logger still gets the entry.
func Tee(loggers ...Logger) Logger {
	return multiLog(loggers)
}

func (m multiLog) Append(ctx context.Context, entry Entry) error {
	var firstErr error
	for _, l := range m {
		if l == nil {
			continue
		}
		if err := l.Append(ctx, entry); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
