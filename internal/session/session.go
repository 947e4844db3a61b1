// Package session owns the mutable drill state and scores answers.
package session

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"

	"github.com/verte-zerg/kana/internal/kana"
	"github.com/verte-zerg/kana/internal/madlib"
	"github.com/verte-zerg/kana/internal/model"
)

var (
	// ErrNoPrompt is returned by Submit when no prompt is outstanding.
	ErrNoPrompt = errors.New("no prompt is outstanding")
	// ErrUnknownPrompt is returned when a prompt is not in the active practice set.
	ErrUnknownPrompt = errors.New("prompt is not in the active practice set")
)

// Selector chooses the next prompt from a practice set.
type Selector interface {
	Next(set kana.PracticeSet, misses func(string) int) (kana.Entry, bool)
	NextFocused(set kana.PracticeSet, misses func(string) int, top int) (kana.Entry, bool)
}

// Outcome is the result of a scored answer.
type Outcome struct {
	Glyph    string
	Answer   string
	Expected string
	Correct  bool
}

// SentenceResult is the result of a graded sentence.
type SentenceResult struct {
	Blanks  []Outcome
	Correct int
}

// AllCorrect reports whether every blank was right.
func (r SentenceResult) AllCorrect() bool {
	return r.Correct == len(r.Blanks)
}

// Session holds one learner's statistics, active practice set and prompt.
// It is not safe for concurrent use; give each learner their own Session.
type Session struct {
	sel       Selector
	mastery   model.Mastery
	set       kana.PracticeSet
	prompt    kana.Entry
	hasPrompt bool
	focusWeak bool
	weakTop   int
}

// New returns an empty session.
func New(sel Selector) *Session {
	return &Session{sel: sel, mastery: model.NewMastery()}
}

// SetFocus restricts selection to the top weak glyphs when enabled.
func (s *Session) SetFocus(enabled bool, top int) {
	s.focusWeak = enabled
	s.weakTop = top
}

// FocusWeak reports whether weak focus is on.
func (s *Session) FocusWeak() bool {
	return s.focusWeak
}

// SetPracticeSet replaces the active set. An outstanding prompt outside the
// new set is dropped.
func (s *Session) SetPracticeSet(set kana.PracticeSet) {
	s.set = set
	if s.hasPrompt && !set.Contains(s.prompt) {
		s.clearPrompt()
	}
}

// PracticeSet returns the active set.
func (s *Session) PracticeSet() kana.PracticeSet {
	return s.set
}

// Current returns the outstanding prompt, selecting one if none is set.
// It returns false when the practice set is empty.
func (s *Session) Current() (kana.Entry, bool) {
	if s.hasPrompt {
		return s.prompt, true
	}
	var (
		next kana.Entry
		ok   bool
	)
	if s.focusWeak {
		next, ok = s.sel.NextFocused(s.set, s.mastery.Misses, s.weakTop)
	} else {
		next, ok = s.sel.Next(s.set, s.mastery.Misses)
	}
	if !ok {
		return kana.Entry{}, false
	}
	s.prompt = next
	s.hasPrompt = true
	return next, true
}

// Prompt returns the outstanding prompt without selecting a new one.
func (s *Session) Prompt() (kana.Entry, bool) {
	return s.prompt, s.hasPrompt
}

// Skip drops the outstanding prompt without scoring it.
func (s *Session) Skip() {
	s.clearPrompt()
}

// Submit scores an answer for the outstanding prompt.
func (s *Session) Submit(submitted string) (Outcome, bool, error) {
	if !s.hasPrompt {
		return Outcome{}, false, ErrNoPrompt
	}
	return s.Record(s.prompt, submitted)
}

// Record scores submitted against prompt's romanization. Blank input is
// ignored and reported with ok=false. The outstanding prompt is cleared
// after a scored answer.
func (s *Session) Record(prompt kana.Entry, submitted string) (Outcome, bool, error) {
	answer := NormalizeRomaji(submitted)
	if answer == "" {
		return Outcome{}, false, nil
	}
	if !s.set.Contains(prompt) {
		return Outcome{}, false, ErrUnknownPrompt
	}
	correct := answer == NormalizeRomaji(prompt.Romaji)
	s.apply(prompt.Glyph, correct)
	if correct {
		s.mastery.Score++
		s.mastery.Streak++
	} else {
		s.mastery.Streak = 0
	}
	s.mastery.Total++
	s.clearPrompt()
	return Outcome{
		Glyph:    prompt.Glyph,
		Answer:   answer,
		Expected: prompt.Romaji,
		Correct:  correct,
	}, true, nil
}

// GradeSentence scores every blank of a sentence as one batch. Nothing is
// recorded for a sentence without blanks or unless every answer is non-blank. The streak moves once per
// sentence: up when all blanks are right, back to zero otherwise.
func (s *Session) GradeSentence(sentence madlib.Sentence, answers []string) (SentenceResult, bool, error) {
	if len(sentence.Blanks) == 0 || !sentence.Complete(answers) {
		return SentenceResult{}, false, nil
	}
	for _, e := range sentence.Blanks {
		if !s.set.Contains(e) {
			return SentenceResult{}, false, ErrUnknownPrompt
		}
	}
	graded := sentence.Grade(answers)
	res := SentenceResult{Blanks: make([]Outcome, len(graded))}
	for i, ok := range graded {
		e := sentence.Blanks[i]
		s.apply(e.Glyph, ok)
		if ok {
			res.Correct++
		}
		res.Blanks[i] = Outcome{
			Glyph:    e.Glyph,
			Answer:   madlib.NormalizeGlyph(answers[i]),
			Expected: e.Glyph,
			Correct:  ok,
		}
	}
	s.mastery.Score += res.Correct
	s.mastery.Total += len(graded)
	if res.AllCorrect() {
		s.mastery.Streak++
	} else {
		s.mastery.Streak = 0
	}
	return res, true, nil
}

// Reset returns the session to its initial state. The practice set and
// focus settings are kept.
func (s *Session) Reset() {
	s.mastery = model.NewMastery()
	s.clearPrompt()
}

// Mastery returns a copy of the statistics.
func (s *Session) Mastery() model.Mastery {
	return s.mastery.Clone()
}

// Misses returns the outstanding miss count for glyph.
func (s *Session) Misses(glyph string) int {
	return s.mastery.Misses(glyph)
}

func (s *Session) apply(glyph string, correct bool) {
	s.mastery.AttemptCount[glyph]++
	if correct {
		if s.mastery.MissCount[glyph] > 0 {
			s.mastery.MissCount[glyph]--
		}
		return
	}
	s.mastery.MissCount[glyph]++
}

func (s *Session) clearPrompt() {
	s.prompt = kana.Entry{}
	s.hasPrompt = false
}

// NormalizeRomaji trims, narrows full-width letters and case-folds input.
func NormalizeRomaji(s string) string {
	return cases.Fold().String(width.Narrow.String(strings.TrimSpace(s)))
}
