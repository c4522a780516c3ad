// Package stats contains statistics calculations over typing sessions.
package stats

import (
	"time"

	"github.com/termtypr/termtypr/internal/model"
)

// minMinutes floors the WPM denominator (1ms) so an instantaneous finish
// cannot divide by zero.
const minMinutes = 1.0 / 60000.0

// DefaultTrendWindow is the number of recent sessions compared against the
// sessions preceding them.
const DefaultTrendWindow = 5

// Live computes in-flight WPM and accuracy. With nothing typed yet accuracy
// reads 100, which is what the session footer shows before the first
// keystroke.
func Live(correct, typed int, elapsed time.Duration) (wpm, accuracy float64) {
	if typed == 0 {
		return 0, 100
	}
	return metrics(correct, typed, elapsed)
}

// Final computes the frozen metrics for a completed session. A session with
// nothing typed scores zero on both.
func Final(correct, typed int, elapsed time.Duration) (wpm, accuracy float64) {
	if typed == 0 {
		return 0, 0
	}
	return metrics(correct, typed, elapsed)
}

func metrics(correct, typed int, elapsed time.Duration) (wpm, accuracy float64) {
	minutes := elapsed.Minutes()
	if minutes < minMinutes {
		minutes = minMinutes
	}
	if correct > 0 {
		wpm = (float64(correct) / 5.0) / minutes
	}
	accuracy = float64(correct) / float64(typed) * 100
	if accuracy < 0 {
		accuracy = 0
	}
	if accuracy > 100 {
		accuracy = 100
	}
	return wpm, accuracy
}

// IsNewBest reports whether wpm beats the previous best result. A zero-WPM
// session is never a record, even against empty history.
func IsNewBest(wpm float64, best *model.GameResult) bool {
	if wpm <= 0 {
		return false
	}
	return best == nil || wpm > best.WPM
}

// Aggregate summarizes a result sequence, including the trend over the
// given window.
func Aggregate(results []model.GameResult, trendWindow int) model.TypingStats {
	out := model.TypingStats{
		SessionCount: len(results),
		Trend:        Trend(results, trendWindow),
	}
	if len(results) == 0 {
		return out
	}
	var sumWPM, sumAcc float64
	for _, r := range results {
		sumWPM += r.WPM
		sumAcc += r.Accuracy
		if r.WPM > out.BestWPM {
			out.BestWPM = r.WPM
		}
	}
	out.AverageWPM = sumWPM / float64(len(results))
	out.AverageAccuracy = sumAcc / float64(len(results))
	return out
}

// ModeAggregate summarizes results within one game mode.
type ModeAggregate struct {
	Mode            model.Mode
	Sessions        int
	AverageWPM      float64
	BestWPM         float64
	BestAt          time.Time
	AverageAccuracy float64
	Trend           model.TrendSummary
}

// CompareModes groups results by mode and aggregates within each group,
// ordered by session count descending. Best ties go to the earliest
// achiever.
func CompareModes(results []model.GameResult, trendWindow int) []ModeAggregate {
	grouped := map[model.Mode][]model.GameResult{}
	var order []model.Mode
	for _, r := range results {
		if _, seen := grouped[r.Mode]; !seen {
			order = append(order, r.Mode)
		}
		grouped[r.Mode] = append(grouped[r.Mode], r)
	}

	out := make([]ModeAggregate, 0, len(order))
	for _, mode := range order {
		rs := grouped[mode]
		agg := ModeAggregate{
			Mode:     mode,
			Sessions: len(rs),
			Trend:    Trend(rs, trendWindow),
		}
		var sumWPM, sumAcc float64
		for _, r := range rs {
			sumWPM += r.WPM
			sumAcc += r.Accuracy
			// Strict comparison: the first achiever keeps a tied best.
			if r.WPM > agg.BestWPM {
				agg.BestWPM = r.WPM
				agg.BestAt = r.EndedAt
			}
		}
		agg.AverageWPM = sumWPM / float64(len(rs))
		agg.AverageAccuracy = sumAcc / float64(len(rs))
		out = append(out, agg)
	}

	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Sessions > out[j-1].Sessions; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
