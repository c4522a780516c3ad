package generator

import (
	"strings"
	"testing"
)

func TestWordsTarget(t *testing.T) {
	pool := []string{"alpha", "beta", "gamma"}
	g := NewSeeded(1)

	target := g.WordsTarget(pool, 20)
	fields := strings.Fields(target)
	if len(fields) != 20 {
		t.Fatalf("expected 20 words, got %d", len(fields))
	}
	for _, w := range fields {
		switch w {
		case "alpha", "beta", "gamma":
		default:
			t.Errorf("word %q not in pool", w)
		}
	}
}

func TestWordsTargetDeterministicPerSeed(t *testing.T) {
	pool := []string{"alpha", "beta", "gamma", "delta"}
	a := NewSeeded(42).WordsTarget(pool, 10)
	b := NewSeeded(42).WordsTarget(pool, 10)
	if a != b {
		t.Errorf("same seed diverged: %q vs %q", a, b)
	}
}

func TestWordsTargetEmptyInputs(t *testing.T) {
	g := NewSeeded(1)
	if got := g.WordsTarget(nil, 10); got != "" {
		t.Errorf("expected empty target for empty pool, got %q", got)
	}
	if got := g.WordsTarget([]string{"alpha"}, 0); got != "" {
		t.Errorf("expected empty target for zero count, got %q", got)
	}
}

func TestPhraseTarget(t *testing.T) {
	pool := []string{"the quick brown fox", "pack my box"}
	g := NewSeeded(7)

	got := g.PhraseTarget(pool)
	if got != pool[0] && got != pool[1] {
		t.Errorf("phrase %q not in pool", got)
	}
	if g.PhraseTarget(nil) != "" {
		t.Error("expected empty phrase for empty pool")
	}
}
