// Package generator picks the next kana to practice.
package generator

import (
	"math/rand"
	"sort"
	"time"

	"github.com/verte-zerg/kana/internal/kana"
)

// DefaultWeakTop is the size of the weak-focus pool.
const DefaultWeakTop = 5

// Generator selects prompts from a practice set.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Next returns the glyph with the highest miss count, or a uniformly random
// glyph when nothing has been missed. Ties go to the earliest glyph in catalog order.
func (g *Generator) Next(set kana.PracticeSet, misses func(string) int) (kana.Entry, bool) {
	if set.IsEmpty() {
		return kana.Entry{}, false
	}
	best := -1
	bestMiss := 0
	for i := 0; i < set.Len(); i++ {
		if m := misses(set.At(i).Glyph); m > bestMiss {
			best = i
			bestMiss = m
		}
	}
	if best >= 0 {
		return set.At(best), true
	}
	return set.At(g.rnd.Intn(set.Len())), true
}

// NextFocused samples uniformly among the top weak glyphs and falls back to
// Next when no glyph has outstanding misses.
func (g *Generator) NextFocused(set kana.PracticeSet, misses func(string) int, top int) (kana.Entry, bool) {
	pool := WeakPool(set, misses, top)
	if len(pool) == 0 {
		return g.Next(set, misses)
	}
	return pool[g.rnd.Intn(len(pool))], true
}

// WeakPool returns up to top glyphs with misses, ordered by miss count
// descending and then catalog order.
func WeakPool(set kana.PracticeSet, misses func(string) int, top int) []kana.Entry {
	if top <= 0 {
		top = DefaultWeakTop
	}
	var pool []kana.Entry
	for _, e := range set.Entries() {
		if misses(e.Glyph) > 0 {
			pool = append(pool, e)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return misses(pool[i].Glyph) > misses(pool[j].Glyph)
	})
	if len(pool) > top {
		pool = pool[:top]
	}
	return pool
}

// Sample draws n entries uniformly with replacement.
func (g *Generator) Sample(set kana.PracticeSet, n int) []kana.Entry {
	if set.IsEmpty() || n <= 0 {
		return nil
	}
	out := make([]kana.Entry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, set.At(g.rnd.Intn(set.Len())))
	}
	return out
}

// Intn exposes the generator's source for template choice.
func (g *Generator) Intn(n int) int {
	return g.rnd.Intn(n)
}
