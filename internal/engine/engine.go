package engine

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/termtypr/termtypr/internal/model"
	"github.com/termtypr/termtypr/internal/stats"
)

// Status is the lifecycle state of a session.
type Status int

// Session states. Finished and Cancelled are terminal.
const (
	StatusIdle Status = iota
	StatusActive
	StatusFinished
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusActive:
		return "active"
	case StatusFinished:
		return "finished"
	case StatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

var (
	// ErrInvalidState reports an operation invoked in a state that forbids
	// it, e.g. a keystroke before Start or a double Finish. Always a
	// programming error, never retried.
	ErrInvalidState = errors.New("invalid session state")

	// ErrEmptyTarget reports Start called with empty target text.
	ErrEmptyTarget = errors.New("target text is empty")
)

// Policy configures mismatch and word-boundary behavior.
type Policy struct {
	// AdvanceOnMismatch moves the cursor past a wrong character. When
	// false the cursor holds until the expected character is typed.
	AdvanceOnMismatch bool
	// SeparatorSkips treats the separator pressed mid-word as "skip to
	// the next word" instead of a literal mismatch, provided at least one
	// character of the current word was typed.
	SeparatorSkips bool
	// SkipCountsAsError counts a word skip as one error.
	SkipCountsAsError bool
}

// DefaultPolicy returns the shipped policy: advance on mismatch, separator
// skips enabled and not counted as errors.
func DefaultPolicy() Policy {
	return Policy{AdvanceOnMismatch: true, SeparatorSkips: true}
}

// PolicyFor derives the keystroke policy from user preferences.
func PolicyFor(prefs model.Preferences) Policy {
	return Policy{
		AdvanceOnMismatch: true,
		SeparatorSkips:    prefs.SeparatorSkips,
		SkipCountsAsError: prefs.SkipCountsAsError,
	}
}

// Engine drives a single typing session: Idle -> Active -> Finished, or
// Active -> Cancelled. A new session needs a new engine or an explicit
// Reset. All methods are safe for use by the UI goroutine concurrently with
// the live-stats poller.
type Engine struct {
	mu sync.Mutex

	clock  Clock
	policy Policy

	status Status
	mode   model.Mode
	target []rune

	// marks only ever grows by appending, so GameState snapshots handed
	// out earlier keep seeing their own prefix unchanged.
	marks     []model.CharMark
	pos       int
	typed     int
	errCount  int
	startedAt time.Time
	endedAt   time.Time

	poller *poller
}

// New constructs an idle engine. A nil clock falls back to the system clock.
func New(clock Clock, policy Policy) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	return &Engine{clock: clock, policy: policy}
}

// Start transitions Idle -> Active with the given target text. The session
// clock does not start here; it starts on the first keystroke.
func (e *Engine) Start(mode model.Mode, target string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if target == "" {
		return ErrEmptyTarget
	}
	if e.status != StatusIdle {
		return ErrInvalidState
	}
	e.mode = mode
	e.target = []rune(target)
	e.marks = make([]model.CharMark, 0, len(e.target))
	e.pos = 0
	e.typed = 0
	e.errCount = 0
	e.startedAt = time.Time{}
	e.endedAt = time.Time{}
	e.status = StatusActive
	return nil
}

// Reset returns a terminal engine to Idle so the same instance can run
// another session.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == StatusActive {
		return ErrInvalidState
	}
	e.status = StatusIdle
	e.target = nil
	e.marks = nil
	e.pos = 0
	e.typed = 0
	e.errCount = 0
	e.startedAt = time.Time{}
	e.endedAt = time.Time{}
	return nil
}

// ProcessKeystroke consumes one typed character and returns the resulting
// state snapshot. The first keystroke of a session starts the clock.
func (e *Engine) ProcessKeystroke(r rune) (model.GameState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != StatusActive {
		return model.GameState{}, ErrInvalidState
	}
	if e.pos >= len(e.target) {
		// Already at the end; input past completion is dropped.
		return e.snapshotLocked(), nil
	}
	if e.startedAt.IsZero() {
		e.startedAt = e.clock.Now()
	}

	expected := e.target[e.pos]
	switch {
	case r == expected:
		e.marks = append(e.marks, model.MarkCorrect)
		e.pos++
		e.typed++
	case e.policy.SeparatorSkips && r == ' ' && expected != ' ' && e.wordStartedLocked():
		e.skipWordLocked()
		e.typed++
		if e.policy.SkipCountsAsError {
			e.errCount++
		}
	case e.policy.AdvanceOnMismatch:
		e.marks = append(e.marks, model.MarkIncorrect)
		e.pos++
		e.typed++
		e.errCount++
	default:
		// Cursor holds; the wrong keystroke still counts against accuracy.
		e.typed++
		e.errCount++
	}
	if e.errCount > e.typed {
		e.errCount = e.typed
	}
	return e.snapshotLocked(), nil
}

// wordStartedLocked reports whether at least one character of the current
// word has been consumed.
func (e *Engine) wordStartedLocked() bool {
	return e.pos > 0 && e.target[e.pos-1] != ' '
}

// skipWordLocked marks the rest of the current word as skipped and consumes
// the following separator.
func (e *Engine) skipWordLocked() {
	for e.pos < len(e.target) && e.target[e.pos] != ' ' {
		e.marks = append(e.marks, model.MarkSkipped)
		e.pos++
	}
	if e.pos < len(e.target) {
		e.marks = append(e.marks, model.MarkCorrect)
		e.pos++
	}
}

// Tick recomputes live metrics for the given instant without consuming
// input. Repeated calls with the same now yield the same result.
func (e *Engine) Tick(now time.Time) model.LiveStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	elapsed := e.elapsedLocked(now)
	correct := e.correctLocked()
	wpm, acc := stats.Live(correct, e.typed, elapsed)
	return model.LiveStats{
		WPM:      wpm,
		Accuracy: acc,
		Elapsed:  elapsed,
		Typed:    e.pos,
		Total:    len(e.target),
	}
}

func (e *Engine) elapsedLocked(now time.Time) time.Duration {
	if e.startedAt.IsZero() {
		return 0
	}
	if !e.endedAt.IsZero() {
		return e.endedAt.Sub(e.startedAt)
	}
	d := now.Sub(e.startedAt)
	if d < 0 {
		return 0
	}
	return d
}

func (e *Engine) correctLocked() int {
	n := 0
	for _, m := range e.marks {
		if m == model.MarkCorrect {
			n++
		}
	}
	return n
}

// IsComplete reports whether the cursor has reached the end of the target.
func (e *Engine) IsComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.target) > 0 && e.pos == len(e.target)
}

// Status returns the current lifecycle state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// State returns the current immutable state snapshot.
func (e *Engine) State() model.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() model.GameState {
	return model.GameState{
		Target:   string(e.target),
		Position: e.pos,
		Typed:    e.marks[:len(e.marks):len(e.marks)],
		Errors:   e.errCount,
		Elapsed:  e.elapsedLocked(e.clock.Now()),
	}
}

// Finish transitions Active -> Finished and produces the frozen result.
// It is an error unless the target has been fully consumed; use
// ForceFinish to stop early.
func (e *Engine) Finish() (model.GameResult, error) {
	return e.finish(false)
}

// ForceFinish finishes an active session regardless of completion.
func (e *Engine) ForceFinish() (model.GameResult, error) {
	return e.finish(true)
}

func (e *Engine) finish(force bool) (model.GameResult, error) {
	e.mu.Lock()
	if e.status != StatusActive {
		e.mu.Unlock()
		return model.GameResult{}, ErrInvalidState
	}
	if !force && e.pos < len(e.target) {
		e.mu.Unlock()
		return model.GameResult{}, ErrInvalidState
	}
	e.endedAt = e.clock.Now()
	if e.startedAt.IsZero() {
		// Finished without a single keystroke; zero-length session.
		e.startedAt = e.endedAt
	}
	e.status = StatusFinished

	correct := e.correctLocked()
	wpm, acc := stats.Final(correct, e.typed, e.endedAt.Sub(e.startedAt))
	result := model.GameResult{
		Mode:       e.mode,
		Target:     string(e.target),
		Typed:      e.marks[:len(e.marks):len(e.marks)],
		StartedAt:  e.startedAt,
		EndedAt:    e.endedAt,
		WPM:        wpm,
		Accuracy:   acc,
		WordCount:  len(strings.Fields(string(e.target))),
		ErrorCount: e.errCount,
	}
	p := e.poller
	e.poller = nil
	e.mu.Unlock()

	p.halt()
	return result, nil
}

// Cancel transitions Active -> Cancelled. No result is produced; incomplete
// sessions are never recorded. The live-stats poller is stopped as part of
// the same transition.
func (e *Engine) Cancel() error {
	e.mu.Lock()
	if e.status != StatusActive {
		e.mu.Unlock()
		return ErrInvalidState
	}
	e.status = StatusCancelled
	e.endedAt = e.clock.Now()
	p := e.poller
	e.poller = nil
	e.mu.Unlock()

	p.halt()
	return nil
}
