package generator

import (
	"testing"

	"github.com/verte-zerg/kana/internal/kana"
)

func abcSet() kana.PracticeSet {
	return kana.NewPracticeSet([]kana.Entry{
		{Glyph: "A", Romaji: "a"},
		{Glyph: "B", Romaji: "b"},
		{Glyph: "C", Romaji: "c"},
	})
}

func missMap(m map[string]int) func(string) int {
	return func(g string) int { return m[g] }
}

func TestNextPrefersMostMissed(t *testing.T) {
	gen := NewWithSeed(1)
	got, ok := gen.Next(abcSet(), missMap(map[string]int{"A": 0, "B": 3, "C": 1}))
	if !ok || got.Glyph != "B" {
		t.Fatalf("expected B, got %+v (ok=%v)", got, ok)
	}
}

func TestNextTieBreaksByCatalogOrder(t *testing.T) {
	gen := NewWithSeed(1)
	for i := 0; i < 20; i++ {
		got, _ := gen.Next(abcSet(), missMap(map[string]int{"C": 2, "B": 2}))
		if got.Glyph != "B" {
			t.Fatalf("expected B on tie, got %s", got.Glyph)
		}
	}
}

func TestNextEmptySet(t *testing.T) {
	gen := NewWithSeed(1)
	if _, ok := gen.Next(kana.PracticeSet{}, missMap(nil)); ok {
		t.Fatalf("expected no selection for empty set")
	}
}

func TestNextFallbackCoversSet(t *testing.T) {
	gen := NewWithSeed(42)
	seen := map[string]int{}
	for i := 0; i < 300; i++ {
		got, ok := gen.Next(abcSet(), missMap(nil))
		if !ok {
			t.Fatalf("expected selection")
		}
		seen[got.Glyph]++
	}
	for _, g := range []string{"A", "B", "C"} {
		if seen[g] == 0 {
			t.Fatalf("expected %s to be selected at least once: %v", g, seen)
		}
	}
}

func TestNextFocusedStaysInWeakPool(t *testing.T) {
	gen := NewWithSeed(7)
	misses := missMap(map[string]int{"A": 1, "C": 4})
	seen := map[string]int{}
	for i := 0; i < 200; i++ {
		got, _ := gen.NextFocused(abcSet(), misses, 5)
		seen[got.Glyph]++
	}
	if seen["B"] != 0 {
		t.Fatalf("B has no misses and should not be picked: %v", seen)
	}
	if seen["A"] == 0 || seen["C"] == 0 {
		t.Fatalf("expected both weak glyphs to be sampled: %v", seen)
	}
}

func TestNextFocusedFallsBack(t *testing.T) {
	gen := NewWithSeed(7)
	if _, ok := gen.NextFocused(abcSet(), missMap(nil), 2); !ok {
		t.Fatalf("expected fallback selection")
	}
}

func TestWeakPoolOrderAndLimit(t *testing.T) {
	pool := WeakPool(abcSet(), missMap(map[string]int{"A": 1, "B": 2, "C": 2}), 2)
	if len(pool) != 2 || pool[0].Glyph != "B" || pool[1].Glyph != "C" {
		t.Fatalf("unexpected pool: %+v", pool)
	}
}

func TestSampleWithReplacement(t *testing.T) {
	gen := NewWithSeed(3)
	set := kana.NewPracticeSet([]kana.Entry{{Glyph: "A", Romaji: "a"}})
	got := gen.Sample(set, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for _, e := range got {
		if e.Glyph != "A" {
			t.Fatalf("unexpected entry %+v", e)
		}
	}
	if gen.Sample(kana.PracticeSet{}, 2) != nil {
		t.Fatalf("expected nil sample from empty set")
	}
}
