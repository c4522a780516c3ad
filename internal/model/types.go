// Package model defines the shared types for typing sessions, their results
// and user preferences.
package model

import (
	"fmt"
	"time"
)

// Mode is the kind of typing target a session runs against.
type Mode string

// Supported game modes.
const (
	ModeWords  Mode = "words"
	ModePhrase Mode = "phrase"
)

// ParseMode validates and converts a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeWords:
		return ModeWords, nil
	case ModePhrase:
		return ModePhrase, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// CharMark records the outcome of one consumed target character.
type CharMark byte

// Per-character outcomes. Skipped characters come from word skips and count
// neither as correct nor as errors.
const (
	MarkCorrect   CharMark = 'c'
	MarkIncorrect CharMark = 'i'
	MarkSkipped   CharMark = 's'
)

// EncodeMarks renders a mark sequence as a compact string for storage.
func EncodeMarks(marks []CharMark) string {
	b := make([]byte, len(marks))
	for i, m := range marks {
		b[i] = byte(m)
	}
	return string(b)
}

// DecodeMarks parses a stored mark string, rejecting unknown symbols.
func DecodeMarks(s string) ([]CharMark, error) {
	marks := make([]CharMark, len(s))
	for i := 0; i < len(s); i++ {
		switch CharMark(s[i]) {
		case MarkCorrect, MarkIncorrect, MarkSkipped:
			marks[i] = CharMark(s[i])
		default:
			return nil, fmt.Errorf("bad mark %q at offset %d", s[i], i)
		}
	}
	return marks, nil
}

// GameState is an immutable snapshot of an in-flight session. Typed holds one
// mark per consumed target character; snapshots taken earlier never observe
// later input.
type GameState struct {
	Target   string
	Position int
	Typed    []CharMark
	Errors   int
	Elapsed  time.Duration
}

// Correct counts the correctly typed characters in the snapshot.
func (s GameState) Correct() int {
	n := 0
	for _, m := range s.Typed {
		if m == MarkCorrect {
			n++
		}
	}
	return n
}

// GameResult is the frozen outcome of a finished session.
type GameResult struct {
	Mode       Mode
	Target     string
	Typed      []CharMark
	StartedAt  time.Time
	EndedAt    time.Time
	WPM        float64
	Accuracy   float64
	WordCount  int
	ErrorCount int
}

// Duration is the session length from first keystroke to finish.
func (r GameResult) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// TrendDirection classifies recent WPM movement.
type TrendDirection string

// Trend directions.
const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

// TrendSummary is the outcome of comparing recent sessions against the ones
// before them. Magnitude is the signed WPM delta.
type TrendSummary struct {
	Direction TrendDirection
	Magnitude float64
	Window    int
}

// TypingStats aggregates a whole result history.
type TypingStats struct {
	SessionCount    int
	AverageWPM      float64
	BestWPM         float64
	AverageAccuracy float64
	Trend           TrendSummary
}

// LiveStats is the periodically refreshed in-session readout.
type LiveStats struct {
	WPM      float64
	Accuracy float64
	Elapsed  time.Duration
	Typed    int
	Total    int
}

// Word count bounds for generated targets.
const (
	MinWordCount     = 5
	MaxWordCount     = 200
	DefaultWordCount = 20
)

// Preferences are the persisted practice settings.
type Preferences struct {
	WordCount         int
	SeparatorSkips    bool
	SkipCountsAsError bool
}

// DefaultPreferences returns the out-of-the-box settings.
func DefaultPreferences() Preferences {
	return Preferences{WordCount: DefaultWordCount, SeparatorSkips: true}
}

// Validate checks the preferences against their documented bounds.
func (p Preferences) Validate() error {
	if p.WordCount < MinWordCount || p.WordCount > MaxWordCount {
		return fmt.Errorf("word count %d out of range [%d, %d]", p.WordCount, MinWordCount, MaxWordCount)
	}
	return nil
}
