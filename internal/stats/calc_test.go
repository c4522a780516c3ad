package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/termtypr/termtypr/internal/model"
)

func TestFinalMetrics(t *testing.T) {
	tests := []struct {
		name     string
		correct  int
		typed    int
		elapsed  time.Duration
		wpm      float64
		accuracy float64
	}{
		// "cat dog" typed perfectly in 6 seconds: (7/5)/(0.1 min).
		{"perfect short run", 7, 7, 6 * time.Second, 14.0, 100},
		// "cbt" for "cat": one mismatch.
		{"one mismatch", 2, 3, 2 * time.Second, 12.0, 100.0 * 2 / 3},
		{"nothing correct", 0, 5, time.Second, 0, 0},
		{"nothing typed", 0, 0, time.Minute, 0, 0},
		{"one minute even", 50, 50, time.Minute, 10.0, 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			wpm, acc := Final(tc.correct, tc.typed, tc.elapsed)
			assert.InDelta(t, tc.wpm, wpm, 0.001)
			assert.InDelta(t, tc.accuracy, acc, 0.001)
		})
	}
}

func TestFinalZeroElapsedIsFinite(t *testing.T) {
	wpm, acc := Final(10, 10, 0)
	assert.False(t, wpm < 0)
	assert.InDelta(t, 100.0, acc, 0.001)
	// Floored at one millisecond, not infinity.
	assert.InDelta(t, (10.0/5.0)*60000.0, wpm, 0.001)
}

func TestLiveBeforeAnyInput(t *testing.T) {
	wpm, acc := Live(0, 0, 0)
	assert.Zero(t, wpm)
	assert.InDelta(t, 100.0, acc, 0.001)
}

func TestLiveMidSession(t *testing.T) {
	wpm, acc := Live(10, 12, 30*time.Second)
	assert.InDelta(t, 4.0, wpm, 0.001)
	assert.InDelta(t, 100.0*10/12, acc, 0.001)
}

func TestIsNewBest(t *testing.T) {
	best := &model.GameResult{WPM: 40}
	tests := []struct {
		name string
		wpm  float64
		best *model.GameResult
		want bool
	}{
		{"beats previous", 41, best, true},
		{"tie is not a record", 40, best, false},
		{"below previous", 39, best, false},
		{"first real session", 1, nil, true},
		{"zero never a record", 0, nil, false},
		{"negative never a record", -1, nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsNewBest(tc.wpm, tc.best))
		})
	}
}

func resultsWithWPM(wpms ...float64) []model.GameResult {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	out := make([]model.GameResult, len(wpms))
	for i, w := range wpms {
		out[i] = model.GameResult{
			Mode:     model.ModeWords,
			WPM:      w,
			Accuracy: 90,
			EndedAt:  base.Add(time.Duration(i) * time.Hour),
		}
	}
	return out
}

func TestAggregate(t *testing.T) {
	got := Aggregate(resultsWithWPM(20, 30, 40), DefaultTrendWindow)
	assert.Equal(t, 3, got.SessionCount)
	assert.InDelta(t, 30.0, got.AverageWPM, 0.001)
	assert.InDelta(t, 40.0, got.BestWPM, 0.001)
	assert.InDelta(t, 90.0, got.AverageAccuracy, 0.001)
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil, DefaultTrendWindow)
	assert.Zero(t, got.SessionCount)
	assert.Zero(t, got.AverageWPM)
	assert.Equal(t, model.TrendFlat, got.Trend.Direction)
}

func TestCompareModes(t *testing.T) {
	results := resultsWithWPM(20, 30)
	phrase := model.GameResult{
		Mode:    model.ModePhrase,
		WPM:     50,
		EndedAt: time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC),
	}
	results = append(results, phrase, phrase, phrase)

	got := CompareModes(results, DefaultTrendWindow)
	assert.Len(t, got, 2)
	// Ordered by session count descending.
	assert.Equal(t, model.ModePhrase, got[0].Mode)
	assert.Equal(t, 3, got[0].Sessions)
	assert.Equal(t, model.ModeWords, got[1].Mode)
	assert.InDelta(t, 25.0, got[1].AverageWPM, 0.001)
	assert.InDelta(t, 30.0, got[1].BestWPM, 0.001)
}

func TestCompareModesBestTieKeepsEarliest(t *testing.T) {
	first := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)
	results := []model.GameResult{
		{Mode: model.ModeWords, WPM: 42, EndedAt: first},
		{Mode: model.ModeWords, WPM: 42, EndedAt: later},
	}

	got := CompareModes(results, DefaultTrendWindow)
	assert.Len(t, got, 1)
	assert.True(t, got[0].BestAt.Equal(first))
}
