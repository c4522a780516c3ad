package tui

import (
	"testing"

	"github.com/termtypr/termtypr/internal/model"
)

func TestBuildStyledRunesCursor(t *testing.T) {
	target := []rune("ab")
	marks := []model.CharMark{model.MarkCorrect}
	cursorIndex := len(marks)

	runes := buildStyledRunes(target, marks, cursorIndex)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected underlined cursor style for second rune")
	}
}

func TestBuildStyledRunesNoCursorWhenComplete(t *testing.T) {
	target := []rune("a")
	marks := []model.CharMark{model.MarkCorrect}

	runes := buildStyledRunes(target, marks, -1)
	if len(runes) != 1 {
		t.Fatalf("expected 1 rune, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for completed rune")
	}
}

func TestBuildStyledRunesKeepsTargetOnMistype(t *testing.T) {
	target := []rune("ab")
	marks := []model.CharMark{model.MarkCorrect, model.MarkIncorrect}
	cursorIndex := -1

	runes := buildStyledRunes(target, marks, cursorIndex)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style for second rune")
	}
}

func TestBuildStyledRunesSkippedWord(t *testing.T) {
	target := []rune("cat dog")
	marks := []model.CharMark{
		model.MarkCorrect, model.MarkSkipped, model.MarkSkipped, model.MarkCorrect,
	}
	cursorIndex := len(marks)

	runes := buildStyledRunes(target, marks, cursorIndex)
	if runes[1].s != skippedStyle.Render("a") {
		t.Fatalf("expected skipped style for skipped rune")
	}
	if runes[2].s != skippedStyle.Render("t") {
		t.Fatalf("expected skipped style for skipped rune")
	}
	if runes[3].s != correctStyle.Render(" ") {
		t.Fatalf("expected correct style for consumed separator")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	target := []rune("one two")
	marks := []model.CharMark{model.MarkCorrect}
	cursorIndex := len(marks)

	runes := buildStyledRunes(target, marks, cursorIndex)
	if runes[0].s != correctStyle.Render("o") {
		t.Fatalf("expected correct style for typed rune")
	}
	if runes[1].s != currentWordStyle.Underline(true).Render("n") {
		t.Fatalf("expected underlined current word style at cursor")
	}
	if runes[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if runes[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
	if runes[6].s != pendingStyle.Render("o") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesWrongSpaceDot(t *testing.T) {
	target := []rune("a b")
	marks := []model.CharMark{model.MarkCorrect, model.MarkIncorrect}
	cursorIndex := len(marks)

	runes := buildStyledRunes(target, marks, cursorIndex)
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if runes[1].s != incorrectStyle.Render("•") {
		t.Fatalf("expected red dot for wrong space")
	}
}
