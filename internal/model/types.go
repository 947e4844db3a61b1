// Package model defines shared data structures.
package model

import "time"

// Mode selects the practice flow.
type Mode string

const (
	// ModeCharacters shows a glyph and expects its romanization.
	ModeCharacters Mode = "characters"
	// ModeMadLibs shows a sentence with romanized blanks and expects glyphs.
	ModeMadLibs Mode = "madlibs"
)

// Config defines practice settings.
type Config struct {
	Script        string
	Groups        []string
	Mode          Mode
	Difficulty    string
	FocusWeak     bool
	WeakTop       int
	CatalogPath   string
	TemplatesPath string
	Seed          int64
}

// Mastery holds per-glyph counters and running totals for a session.
// Absent map keys read as zero.
type Mastery struct {
	AttemptCount map[string]int
	MissCount    map[string]int
	Score        int
	Total        int
	Streak       int
}

// NewMastery returns empty statistics.
func NewMastery() Mastery {
	return Mastery{
		AttemptCount: map[string]int{},
		MissCount:    map[string]int{},
	}
}

// Attempts returns how many times glyph was answered.
func (m Mastery) Attempts(glyph string) int {
	return m.AttemptCount[glyph]
}

// Misses returns the outstanding miss count for glyph.
func (m Mastery) Misses(glyph string) int {
	return m.MissCount[glyph]
}

// Clone returns a deep copy.
func (m Mastery) Clone() Mastery {
	out := Mastery{
		AttemptCount: make(map[string]int, len(m.AttemptCount)),
		MissCount:    make(map[string]int, len(m.MissCount)),
		Score:        m.Score,
		Total:        m.Total,
		Streak:       m.Streak,
	}
	for k, v := range m.AttemptCount {
		out.AttemptCount[k] = v
	}
	for k, v := range m.MissCount {
		out.MissCount[k] = v
	}
	return out
}

// Attempt is one scored answer written to the session journal.
type Attempt struct {
	SessionID string
	At        time.Time
	Mode      Mode
	Glyph     string
	Expected  string
	Answer    string
	Correct   bool
	LatencyMs int64
}

// CharAggregate aggregates journal attempts for a glyph.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}
