package stats

import (
	"reflect"
	"testing"

	"github.com/verte-zerg/kana/internal/model"
)

func TestAccuracyNoData(t *testing.T) {
	m := model.NewMastery()
	if acc, ok := Accuracy(m); ok || acc != 0 {
		t.Fatalf("expected no data, got %v (ok=%v)", acc, ok)
	}
	if got := FormatAccuracy(m); got != "--" {
		t.Fatalf("expected --, got %q", got)
	}
}

func TestAccuracy(t *testing.T) {
	m := model.NewMastery()
	m.Score = 3
	m.Total = 4
	acc, ok := Accuracy(m)
	if !ok || acc != 75 {
		t.Fatalf("expected 75, got %v (ok=%v)", acc, ok)
	}
	if got := FormatAccuracy(m); got != "75.0%" {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestPracticedAndWeakCounts(t *testing.T) {
	m := model.NewMastery()
	m.AttemptCount["あ"] = 3
	m.AttemptCount["い"] = 1
	m.AttemptCount["う"] = 0
	m.MissCount["あ"] = 0
	m.MissCount["い"] = 2
	if got := PracticedCount(m); got != 2 {
		t.Fatalf("expected 2 practiced, got %d", got)
	}
	if got := WeakCount(m); got != 1 {
		t.Fatalf("expected 1 weak, got %d", got)
	}
}

func TestTopWeak(t *testing.T) {
	m := model.NewMastery()
	m.MissCount["う"] = 2
	m.MissCount["あ"] = 2
	m.MissCount["い"] = 5
	m.MissCount["え"] = 0
	m.MissCount["お"] = 1

	got := TopWeak(m, 3)
	want := []WeakChar{{"い", 5}, {"あ", 2}, {"う", 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected top weak: %v", got)
	}
	if got := TopWeak(m, 10); len(got) != 4 {
		t.Fatalf("expected only glyphs with misses, got %v", got)
	}
	if got := TopWeak(m, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}
