// Package history persists completed typing sessions.
package history

import (
	"context"
	"errors"

	"github.com/termtypr/termtypr/internal/model"
)

// ErrStorageUnavailable reports that the backing store cannot be read or
// written. Save propagates it so a lost result is never silent; loads
// degrade to empty history at the caller's discretion.
var ErrStorageUnavailable = errors.New("history storage unavailable")

// Repository stores finalized game results. History is append-only: Save
// never overwrites and nothing here edits or deletes engine-produced
// records. Clear is an administrative operation, not engine logic.
type Repository interface {
	// Save appends a result durably; it does not return until the record
	// is flushed.
	Save(ctx context.Context, result model.GameResult) error
	// LoadAll returns every readable record in insertion order. A missing
	// or empty store yields an empty slice, not an error.
	LoadAll(ctx context.Context) ([]model.GameResult, error)
	// LoadRecent returns the last n records in chronological order,
	// oldest of the window first.
	LoadRecent(ctx context.Context, n int) ([]model.GameResult, error)
	// FindBest returns the highest-WPM record for the mode, or overall
	// when mode is nil. Empty history yields (nil, nil). Ties go to the
	// earliest record.
	FindBest(ctx context.Context, mode *model.Mode) (*model.GameResult, error)
	// Skipped reports how many corrupt records the last load dropped.
	Skipped() int
}

func bestOf(results []model.GameResult) *model.GameResult {
	var best *model.GameResult
	for i := range results {
		if results[i].WPM <= 0 {
			continue
		}
		if best == nil || results[i].WPM > best.WPM {
			best = &results[i]
		}
	}
	return best
}

func filterMode(results []model.GameResult, mode *model.Mode) []model.GameResult {
	if mode == nil {
		return results
	}
	out := make([]model.GameResult, 0, len(results))
	for _, r := range results {
		if r.Mode == *mode {
			out = append(out, r)
		}
	}
	return out
}
