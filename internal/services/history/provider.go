package history

import (
	"context"

	"github.com/irridash/backend/internal/model"
)

// Provider supplies daily irrigation history for charts and report exports.
// The dashboard only ever talks to this interface, so the mock generator can
// be swapped for the real historical-query client without touching rendering
// or export code.
type Provider interface {
	// Daily returns up to days rows, oldest first.
	Daily(ctx context.Context, days int) ([]model.ReportRow, error)
}

// Fallback tries Primary and falls back to Secondary when the primary fails
// or comes back empty.
type Fallback struct {
	Primary   Provider
	Secondary Provider
}

func (f Fallback) Daily(ctx context.Context, days int) ([]model.ReportRow, error) {
	rows, err := f.Primary.Daily(ctx, days)
	if err == nil && len(rows) > 0 {
		return rows, nil
	}
	return f.Secondary.Daily(ctx, days)
}
