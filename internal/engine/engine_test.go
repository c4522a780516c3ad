package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termtypr/termtypr/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
}

func typeAll(t *testing.T, e *Engine, text string) {
	t.Helper()
	for _, r := range text {
		_, err := e.ProcessKeystroke(r)
		require.NoError(t, err)
	}
}

func TestStartEmptyTargetRejected(t *testing.T) {
	e := New(newFakeClock(), DefaultPolicy())
	err := e.Start(model.ModeWords, "")
	require.ErrorIs(t, err, ErrEmptyTarget)
	assert.Equal(t, StatusIdle, e.Status())
}

func TestKeystrokeBeforeStart(t *testing.T) {
	e := New(newFakeClock(), DefaultPolicy())
	_, err := e.ProcessKeystroke('a')
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestDoubleStart(t *testing.T) {
	e := New(newFakeClock(), DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "cat"))
	require.ErrorIs(t, e.Start(model.ModeWords, "dog"), ErrInvalidState)
}

func TestFullCorrectSession(t *testing.T) {
	clock := newFakeClock()
	e := New(clock, DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "cat dog"))

	typeAll(t, e, "cat dog")
	require.True(t, e.IsComplete())

	clock.advance(6 * time.Second)
	result, err := e.Finish()
	require.NoError(t, err)

	assert.Equal(t, 2, result.WordCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.InDelta(t, 100.0, result.Accuracy, 1e-9)
	// 7 correct chars over 6 seconds: (7/5)/(0.1 min) = 14 WPM.
	assert.InDelta(t, 14.0, result.WPM, 1e-9)
	assert.Equal(t, 6*time.Second, result.Duration())
	assert.Equal(t, StatusFinished, e.Status())
}

func TestClockStartsOnFirstKeystroke(t *testing.T) {
	clock := newFakeClock()
	e := New(clock, DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "ab"))

	// Idle time before the first keystroke never counts.
	clock.advance(time.Hour)
	typeAll(t, e, "a")
	clock.advance(3 * time.Second)
	typeAll(t, e, "b")

	result, err := e.Finish()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, result.Duration())
}

func TestMismatchAccuracy(t *testing.T) {
	clock := newFakeClock()
	e := New(clock, DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "cat"))

	typeAll(t, e, "cbt")
	require.True(t, e.IsComplete())

	clock.advance(2 * time.Second)
	result, err := e.Finish()
	require.NoError(t, err)

	assert.Equal(t, 1, result.ErrorCount)
	assert.InDelta(t, 100.0*2/3, result.Accuracy, 0.01)
}

func TestSeparatorSkipsWord(t *testing.T) {
	e := New(newFakeClock(), DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "cat dog"))

	state, err := e.ProcessKeystroke('c')
	require.NoError(t, err)
	require.Equal(t, 1, state.Position)

	state, err = e.ProcessKeystroke(' ')
	require.NoError(t, err)
	// Rest of "cat" skipped, separator consumed; cursor at "dog".
	assert.Equal(t, 4, state.Position)
	assert.Equal(t, 0, state.Errors)
	assert.Equal(t, []model.CharMark{
		model.MarkCorrect, model.MarkSkipped, model.MarkSkipped, model.MarkCorrect,
	}, state.Typed)

	typeAll(t, e, "dog")
	require.True(t, e.IsComplete())
}

func TestSeparatorAtWordStartIsMismatch(t *testing.T) {
	e := New(newFakeClock(), DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "cat dog"))

	state, err := e.ProcessKeystroke(' ')
	require.NoError(t, err)
	assert.Equal(t, 1, state.Position)
	assert.Equal(t, 1, state.Errors)
	assert.Equal(t, model.MarkIncorrect, state.Typed[0])
}

func TestSkipCountsAsErrorPolicy(t *testing.T) {
	policy := DefaultPolicy()
	policy.SkipCountsAsError = true
	e := New(newFakeClock(), policy)
	require.NoError(t, e.Start(model.ModeWords, "cat dog"))

	typeAll(t, e, "c ")
	assert.Equal(t, 1, e.State().Errors)
}

func TestSeparatorSkipDisabled(t *testing.T) {
	policy := DefaultPolicy()
	policy.SeparatorSkips = false
	e := New(newFakeClock(), policy)
	require.NoError(t, e.Start(model.ModeWords, "cat dog"))

	typeAll(t, e, "c ")
	state := e.State()
	assert.Equal(t, 2, state.Position)
	assert.Equal(t, 1, state.Errors)
	assert.Equal(t, model.MarkIncorrect, state.Typed[1])
}

func TestHoldOnMismatchPolicy(t *testing.T) {
	policy := Policy{AdvanceOnMismatch: false}
	e := New(newFakeClock(), policy)
	require.NoError(t, e.Start(model.ModeWords, "ab"))

	state, err := e.ProcessKeystroke('x')
	require.NoError(t, err)
	assert.Equal(t, 0, state.Position)
	assert.Equal(t, 1, state.Errors)

	state, err = e.ProcessKeystroke('a')
	require.NoError(t, err)
	assert.Equal(t, 1, state.Position)
}

func TestErrorCountCappedAtTyped(t *testing.T) {
	e := New(newFakeClock(), DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "abc"))

	typeAll(t, e, "xyz")
	state := e.State()
	assert.Equal(t, 3, state.Errors)

	// Input past the end is dropped and never inflates the counts.
	state, err := e.ProcessKeystroke('q')
	require.NoError(t, err)
	assert.Equal(t, 3, state.Errors)
	assert.Len(t, state.Typed, 3)
}

func TestSnapshotsAreStable(t *testing.T) {
	e := New(newFakeClock(), DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "abc"))

	first, err := e.ProcessKeystroke('a')
	require.NoError(t, err)
	typeAll(t, e, "bc")

	// The earlier snapshot keeps its own view of the marks.
	assert.Len(t, first.Typed, 1)
	assert.Equal(t, 1, first.Position)
	assert.Len(t, e.State().Typed, 3)
}

func TestFinishRequiresCompletion(t *testing.T) {
	e := New(newFakeClock(), DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "abc"))
	typeAll(t, e, "a")

	_, err := e.Finish()
	require.ErrorIs(t, err, ErrInvalidState)

	result, err := e.ForceFinish()
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, e.Status())
	assert.InDelta(t, 100.0, result.Accuracy, 1e-9)
}

func TestDoubleFinish(t *testing.T) {
	e := New(newFakeClock(), DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "a"))
	typeAll(t, e, "a")

	_, err := e.Finish()
	require.NoError(t, err)
	_, err = e.Finish()
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestZeroCorrectForcedFinish(t *testing.T) {
	clock := newFakeClock()
	e := New(clock, DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "abc"))

	typeAll(t, e, "xy")
	clock.advance(time.Second)
	result, err := e.ForceFinish()
	require.NoError(t, err)

	assert.Zero(t, result.WPM)
	assert.Zero(t, result.Accuracy)
}

func TestInstantFinishNoDivisionByZero(t *testing.T) {
	e := New(newFakeClock(), DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "a"))
	typeAll(t, e, "a")

	// Clock never advanced: zero-duration completion.
	result, err := e.Finish()
	require.NoError(t, err)
	assert.True(t, result.WPM >= 0)
	assert.InDelta(t, 100.0, result.Accuracy, 1e-9)
}

func TestCancelProducesNoResult(t *testing.T) {
	e := New(newFakeClock(), DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "abc"))
	typeAll(t, e, "ab")

	require.NoError(t, e.Cancel())
	assert.Equal(t, StatusCancelled, e.Status())

	_, err := e.Finish()
	require.ErrorIs(t, err, ErrInvalidState)
	_, err = e.ProcessKeystroke('c')
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestCancelFromIdle(t *testing.T) {
	e := New(newFakeClock(), DefaultPolicy())
	require.ErrorIs(t, e.Cancel(), ErrInvalidState)
}

func TestTickIdempotent(t *testing.T) {
	clock := newFakeClock()
	e := New(clock, DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "cat dog"))
	typeAll(t, e, "cat")

	now := clock.Now().Add(3 * time.Second)
	first := e.Tick(now)
	second := e.Tick(now)
	assert.Equal(t, first, second)
	assert.Equal(t, 3*time.Second, first.Elapsed)
	assert.Greater(t, first.WPM, 0.0)
}

func TestTickBeforeFirstKeystroke(t *testing.T) {
	clock := newFakeClock()
	e := New(clock, DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "cat"))

	live := e.Tick(clock.Now().Add(time.Minute))
	assert.Zero(t, live.Elapsed)
	assert.Zero(t, live.WPM)
	assert.InDelta(t, 100.0, live.Accuracy, 1e-9)
}

func TestTickAfterFinishIsFrozen(t *testing.T) {
	clock := newFakeClock()
	e := New(clock, DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "a"))
	typeAll(t, e, "a")
	clock.advance(2 * time.Second)
	_, err := e.Finish()
	require.NoError(t, err)

	live := e.Tick(clock.Now().Add(time.Hour))
	assert.Equal(t, 2*time.Second, live.Elapsed)
}

func TestResetAfterTerminalState(t *testing.T) {
	e := New(newFakeClock(), DefaultPolicy())
	require.NoError(t, e.Start(model.ModeWords, "a"))
	require.ErrorIs(t, e.Reset(), ErrInvalidState)

	typeAll(t, e, "a")
	_, err := e.Finish()
	require.NoError(t, err)

	require.NoError(t, e.Reset())
	assert.Equal(t, StatusIdle, e.Status())
	require.NoError(t, e.Start(model.ModeWords, "bc"))
}
