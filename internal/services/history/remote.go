package history

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/irridash/backend/internal/model"
)

// RemoteProvider queries a history HTTP service, guarded by a circuit breaker
// with a last-good cache so a flapping upstream does not blank the charts.
type RemoteProvider struct {
	base   string
	client *http.Client
	cb     *gobreaker.CircuitBreaker

	mu       sync.Mutex
	lastGood []model.ReportRow
}

func NewRemoteProvider(base string, timeout time.Duration) *RemoteProvider {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	return &RemoteProvider{
		base:   base,
		client: &http.Client{Timeout: timeout},
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "history-service",
			Timeout: 15 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 3
			},
		}),
	}
}

func (p *RemoteProvider) Daily(ctx context.Context, days int) ([]model.ReportRow, error) {
	if days < 1 {
		days = 1
	}

	res, err := p.cb.Execute(func() (interface{}, error) {
		var rows []model.ReportRow
		if err := p.getJSON(ctx, fmt.Sprintf("%s/history/daily?days=%d", p.base, days), &rows); err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("empty history")
		}
		return rows, nil
	})
	if err != nil {
		p.mu.Lock()
		cached := p.lastGood
		p.mu.Unlock()
		if len(cached) > 0 {
			return cached, nil
		}
		return nil, err
	}

	rows := res.([]model.ReportRow)
	p.mu.Lock()
	p.lastGood = rows
	p.mu.Unlock()
	return rows, nil
}

func (p *RemoteProvider) getJSON(ctx context.Context, url string, out interface{}) error {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	res, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("GET %s -> %s", url, res.Status)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
