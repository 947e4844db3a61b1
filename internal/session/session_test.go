package session

import (
	"errors"
	"testing"

	"github.com/verte-zerg/kana/internal/generator"
	"github.com/verte-zerg/kana/internal/kana"
	"github.com/verte-zerg/kana/internal/madlib"
	"github.com/verte-zerg/kana/internal/model"
)

var (
	entryA  = kana.Entry{Glyph: "あ", Romaji: "a", Script: kana.Hiragana}
	entryKa = kana.Entry{Glyph: "か", Romaji: "ka", Script: kana.Hiragana}
	entrySi = kana.Entry{Glyph: "し", Romaji: "shi", Script: kana.Hiragana}
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := New(generator.NewWithSeed(1))
	s.SetPracticeSet(kana.NewPracticeSet([]kana.Entry{entryA, entryKa, entrySi}))
	return s
}

func checkInvariants(t *testing.T, m model.Mastery) {
	t.Helper()
	if m.Score > m.Total {
		t.Fatalf("score %d exceeds total %d", m.Score, m.Total)
	}
	for g, n := range m.MissCount {
		if n < 0 {
			t.Fatalf("negative miss count for %s: %d", g, n)
		}
	}
}

func TestRecordCorrectNormalizesInput(t *testing.T) {
	s := newTestSession(t)
	s.mastery.MissCount["あ"] = 2

	out, ok, err := s.Record(entryA, " A ")
	if err != nil || !ok {
		t.Fatalf("record: ok=%v err=%v", ok, err)
	}
	if !out.Correct || out.Expected != "a" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	m := s.Mastery()
	if m.Score != 1 || m.Total != 1 || m.Streak != 1 {
		t.Fatalf("unexpected totals: %+v", m)
	}
	if m.Misses("あ") != 1 || m.Attempts("あ") != 1 {
		t.Fatalf("unexpected counters: misses=%d attempts=%d", m.Misses("あ"), m.Attempts("あ"))
	}
}

func TestRecordFullWidthInput(t *testing.T) {
	s := newTestSession(t)
	out, _, err := s.Record(entrySi, "ＳＨＩ")
	if err != nil || !out.Correct {
		t.Fatalf("expected full-width input to match: %+v err=%v", out, err)
	}
}

func TestRecordCorrectFloorsMissCount(t *testing.T) {
	s := newTestSession(t)
	if _, _, err := s.Record(entryA, "a"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := s.Misses("あ"); got != 0 {
		t.Fatalf("expected miss count floored at 0, got %d", got)
	}
}

func TestRecordIncorrect(t *testing.T) {
	s := newTestSession(t)
	out, ok, err := s.Record(entryKa, "ga")
	if err != nil || !ok {
		t.Fatalf("record: ok=%v err=%v", ok, err)
	}
	if out.Correct || out.Expected != "ka" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	m := s.Mastery()
	if m.Score != 0 || m.Total != 1 || m.Streak != 0 || m.Misses("か") != 1 {
		t.Fatalf("unexpected state: %+v", m)
	}
}

func TestRecordBlankIsNoop(t *testing.T) {
	s := newTestSession(t)
	prompt, _ := s.Current()
	for _, in := range []string{"", "   ", "\t\n"} {
		_, ok, err := s.Submit(in)
		if ok || err != nil {
			t.Fatalf("blank %q should be ignored: ok=%v err=%v", in, ok, err)
		}
	}
	m := s.Mastery()
	if m.Total != 0 || len(m.AttemptCount) != 0 {
		t.Fatalf("blank input changed state: %+v", m)
	}
	if got, _ := s.Current(); got != prompt {
		t.Fatalf("blank input should keep the prompt")
	}
}

func TestRecordUnknownPrompt(t *testing.T) {
	s := newTestSession(t)
	_, ok, err := s.Record(kana.Entry{Glyph: "ア", Romaji: "a"}, "a")
	if ok || !errors.Is(err, ErrUnknownPrompt) {
		t.Fatalf("expected ErrUnknownPrompt, got ok=%v err=%v", ok, err)
	}
	if s.Mastery().Total != 0 {
		t.Fatalf("rejected prompt changed state")
	}
}

func TestSubmitWithoutPrompt(t *testing.T) {
	s := newTestSession(t)
	if _, _, err := s.Submit("a"); !errors.Is(err, ErrNoPrompt) {
		t.Fatalf("expected ErrNoPrompt, got %v", err)
	}
}

func TestSubmitClearsPromptAndReselects(t *testing.T) {
	s := newTestSession(t)
	first, ok := s.Current()
	if !ok {
		t.Fatalf("expected a prompt")
	}
	again, _ := s.Current()
	if again != first {
		t.Fatalf("prompt changed without an answer")
	}
	if _, _, err := s.Submit("wrong"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if s.hasPrompt {
		t.Fatalf("prompt should be cleared after scoring")
	}
	// The missed glyph is the only weak one, so it comes back next.
	next, _ := s.Current()
	if next != first {
		t.Fatalf("expected missed glyph %s to be reselected, got %s", first.Glyph, next.Glyph)
	}
	if s.Mastery().Total != 1 {
		t.Fatalf("expected exactly one scored attempt")
	}
}

func TestStreakResetAndRebuild(t *testing.T) {
	s := newTestSession(t)
	for i := 0; i < 5; i++ {
		if _, _, err := s.Record(entryA, "a"); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if got := s.Mastery().Streak; got != 5 {
		t.Fatalf("expected streak 5, got %d", got)
	}
	if _, _, err := s.Record(entryKa, "ko"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := s.Mastery().Streak; got != 0 {
		t.Fatalf("expected streak reset, got %d", got)
	}
	if _, _, err := s.Record(entryKa, "ka"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := s.Mastery().Streak; got != 1 {
		t.Fatalf("expected streak 1, got %d", got)
	}
	checkInvariants(t, s.Mastery())
}

func TestReset(t *testing.T) {
	s := newTestSession(t)
	s.Current()
	if _, _, err := s.Submit("zzz"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	s.Current()
	s.Reset()
	m := s.Mastery()
	if m.Score != 0 || m.Total != 0 || m.Streak != 0 {
		t.Fatalf("expected zero totals, got %+v", m)
	}
	if len(m.AttemptCount) != 0 || len(m.MissCount) != 0 {
		t.Fatalf("expected empty counters, got %+v", m)
	}
	if s.hasPrompt {
		t.Fatalf("expected prompt to be unset")
	}
	if s.PracticeSet().Len() != 3 {
		t.Fatalf("reset should keep the practice set")
	}
}

func TestSetPracticeSetDropsForeignPrompt(t *testing.T) {
	s := New(generator.NewWithSeed(1))
	s.SetPracticeSet(kana.NewPracticeSet([]kana.Entry{entryA}))
	if _, ok := s.Current(); !ok {
		t.Fatalf("expected prompt")
	}
	s.SetPracticeSet(kana.NewPracticeSet([]kana.Entry{entryKa}))
	got, _ := s.Current()
	if got != entryKa {
		t.Fatalf("expected prompt from new set, got %+v", got)
	}
}

func TestCurrentEmptySet(t *testing.T) {
	s := New(generator.NewWithSeed(1))
	if _, ok := s.Current(); ok {
		t.Fatalf("expected no prompt for empty set")
	}
}

func TestFocusWeakSelectsFromWeakPool(t *testing.T) {
	s := newTestSession(t)
	s.SetFocus(true, 2)
	s.mastery.MissCount["か"] = 1
	s.mastery.MissCount["し"] = 1
	for i := 0; i < 50; i++ {
		got, _ := s.Current()
		if got.Glyph == "あ" {
			t.Fatalf("glyph without misses picked under weak focus")
		}
		s.Skip()
	}
}

func newSentence(t *testing.T, blanks ...kana.Entry) madlib.Sentence {
	t.Helper()
	tpl := ""
	for i := range blanks {
		if i > 0 {
			tpl += " と "
		}
		tpl += madlib.DefaultMarker
	}
	sentence, err := madlib.NewSentence(tpl, madlib.DefaultMarker, blanks)
	if err != nil {
		t.Fatalf("new sentence: %v", err)
	}
	return sentence
}

func TestGradeSentenceBatchScoring(t *testing.T) {
	s := newTestSession(t)
	sentence := newSentence(t, entryA, entryA)
	res, ok, err := s.GradeSentence(sentence, []string{"あ", "あ"})
	if err != nil || !ok {
		t.Fatalf("grade: ok=%v err=%v", ok, err)
	}
	if !res.AllCorrect() {
		t.Fatalf("expected all correct: %+v", res)
	}
	m := s.Mastery()
	if m.Total != 2 || m.Score != 2 {
		t.Fatalf("expected score/total 2/2, got %d/%d", m.Score, m.Total)
	}
	if m.Streak != 1 {
		t.Fatalf("expected streak 1, got %d", m.Streak)
	}
	if m.Attempts("あ") != 2 {
		t.Fatalf("expected two attempts for あ, got %d", m.Attempts("あ"))
	}
}

func TestGradeSentencePartial(t *testing.T) {
	s := newTestSession(t)
	s.mastery.Streak = 3
	res, ok, err := s.GradeSentence(newSentence(t, entryA, entryKa), []string{"あ", "ka"})
	if err != nil || !ok {
		t.Fatalf("grade: ok=%v err=%v", ok, err)
	}
	if res.Correct != 1 || res.AllCorrect() {
		t.Fatalf("unexpected result: %+v", res)
	}
	m := s.Mastery()
	if m.Score != 1 || m.Total != 2 || m.Streak != 0 || m.Misses("か") != 1 {
		t.Fatalf("unexpected state: %+v", m)
	}
	checkInvariants(t, m)
}

func TestGradeSentenceIncompleteIsNoop(t *testing.T) {
	s := newTestSession(t)
	_, ok, err := s.GradeSentence(newSentence(t, entryA, entryKa), []string{"あ", " "})
	if ok || err != nil {
		t.Fatalf("expected incomplete sentence to be ignored: ok=%v err=%v", ok, err)
	}
	if s.Mastery().Total != 0 {
		t.Fatalf("incomplete sentence changed state")
	}
}

func TestGradeSentenceWithoutBlanksIsNoop(t *testing.T) {
	s := newTestSession(t)
	sentence := madlib.Sentence{Template: "no blanks here", Marker: "___"}
	_, ok, err := s.GradeSentence(sentence, nil)
	if ok || err != nil {
		t.Fatalf("expected sentence without blanks to be ignored: ok=%v err=%v", ok, err)
	}
	if m := s.Mastery(); m.Total != 0 || m.Streak != 0 {
		t.Fatalf("sentence without blanks changed state: %+v", m)
	}
}

func TestPromptDoesNotSelect(t *testing.T) {
	s := newTestSession(t)
	if _, ok := s.Prompt(); ok {
		t.Fatalf("expected no outstanding prompt")
	}
	first, _ := s.Current()
	if got, ok := s.Prompt(); !ok || got != first {
		t.Fatalf("expected outstanding prompt %v, got %v (ok=%v)", first, got, ok)
	}
}

func TestGradeSentenceUnknownEntry(t *testing.T) {
	s := newTestSession(t)
	foreign := kana.Entry{Glyph: "ア", Romaji: "a", Script: kana.Katakana}
	_, ok, err := s.GradeSentence(newSentence(t, foreign), []string{"ア"})
	if ok || !errors.Is(err, ErrUnknownPrompt) {
		t.Fatalf("expected ErrUnknownPrompt, got ok=%v err=%v", ok, err)
	}
}

func TestMasteryIsACopy(t *testing.T) {
	s := newTestSession(t)
	m := s.Mastery()
	m.MissCount["あ"] = 10
	if s.Misses("あ") != 0 {
		t.Fatalf("mutating the copy leaked into the session")
	}
}
