// Package generator builds typing targets from the word and phrase pools.
package generator

import (
	"math/rand"
	"strings"
	"time"
)

// Generator produces randomized typing targets.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed, for tests.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// WordsTarget selects count words uniformly from the pool and joins them
// with single spaces.
func (g *Generator) WordsTarget(pool []string, count int) string {
	if len(pool) == 0 || count <= 0 {
		return ""
	}
	selected := make([]string, 0, count)
	for i := 0; i < count; i++ {
		selected = append(selected, pool[g.rnd.Intn(len(pool))])
	}
	return strings.Join(selected, " ")
}

// PhraseTarget picks one phrase uniformly from the pool.
func (g *Generator) PhraseTarget(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[g.rnd.Intn(len(pool))]
}
