package stats

import (
	"math"

	"github.com/termtypr/termtypr/internal/model"
)

// trendEpsilon is the WPM delta below which a trend reads flat, filtering
// noisy sign flips on negligible change.
const trendEpsilon = 0.05

// Trend compares the average WPM of the most recent window records against
// the window preceding them. With fewer than 2*window records it compares
// the earliest half against the latest half; with fewer than 2 records it
// reports flat.
func Trend(results []model.GameResult, window int) model.TrendSummary {
	out := model.TrendSummary{Direction: model.TrendFlat, Window: window}
	if window <= 0 || len(results) < 2 {
		return out
	}

	var recent, previous []model.GameResult
	if len(results) >= 2*window {
		recent = results[len(results)-window:]
		previous = results[len(results)-2*window : len(results)-window]
	} else {
		mid := len(results) / 2
		previous = results[:mid]
		recent = results[mid:]
	}

	out.Magnitude = averageWPM(recent) - averageWPM(previous)
	switch {
	case math.Abs(out.Magnitude) < trendEpsilon:
		out.Direction = model.TrendFlat
	case out.Magnitude > 0:
		out.Direction = model.TrendUp
	default:
		out.Direction = model.TrendDown
	}
	return out
}

func averageWPM(results []model.GameResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.WPM
	}
	return sum / float64(len(results))
}
