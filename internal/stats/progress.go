// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"sort"

	"github.com/verte-zerg/kana/internal/model"
)

// Accuracy returns score/total as a percentage. The second result is false
// when nothing has been answered yet.
func Accuracy(m model.Mastery) (float64, bool) {
	if m.Total <= 0 {
		return 0, false
	}
	return float64(m.Score) / float64(m.Total) * 100, true
}

// FormatAccuracy renders Accuracy, using "--" when there is no data.
func FormatAccuracy(m model.Mastery) string {
	acc, ok := Accuracy(m)
	if !ok {
		return "--"
	}
	return fmt.Sprintf("%.1f%%", acc)
}

// PracticedCount counts glyphs answered at least once.
func PracticedCount(m model.Mastery) int {
	n := 0
	for _, c := range m.AttemptCount {
		if c > 0 {
			n++
		}
	}
	return n
}

// WeakCount counts glyphs with outstanding misses.
func WeakCount(m model.Mastery) int {
	n := 0
	for _, c := range m.MissCount {
		if c > 0 {
			n++
		}
	}
	return n
}

// WeakChar is a glyph with its outstanding miss count.
type WeakChar struct {
	Glyph  string
	Misses int
}

// TopWeak returns up to n weak glyphs by miss count, ties ordered by glyph.
func TopWeak(m model.Mastery, n int) []WeakChar {
	if n <= 0 {
		return nil
	}
	items := make([]WeakChar, 0, len(m.MissCount))
	for g, c := range m.MissCount {
		if c > 0 {
			items = append(items, WeakChar{Glyph: g, Misses: c})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Misses == items[j].Misses {
			return items[i].Glyph < items[j].Glyph
		}
		return items[i].Misses > items[j].Misses
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
