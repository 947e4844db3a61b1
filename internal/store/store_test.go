package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/kana/internal/model"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func sampleAttempts(sessionID string) []model.Attempt {
	base := time.Unix(0, 0).UTC()
	return []model.Attempt{
		{SessionID: sessionID, At: base, Mode: model.ModeCharacters, Glyph: "か", Expected: "ka", Answer: "ka", Correct: true, LatencyMs: 900},
		{SessionID: sessionID, At: base.Add(time.Second), Mode: model.ModeCharacters, Glyph: "し", Expected: "shi", Answer: "si", Correct: false, LatencyMs: 1500},
		{SessionID: sessionID, At: base.Add(2 * time.Second), Mode: model.ModeMadLibs, Glyph: "か", Expected: "か", Answer: "が", Correct: false},
	}
}

func TestInsertAndAggregate(t *testing.T) {
	st := openTestStore(t, filepath.Join(t.TempDir(), "journal.db"))
	ctx := context.Background()
	if err := st.InsertAttempts(ctx, sampleAttempts("s1")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.InsertAttempts(ctx, sampleAttempts("s2")[:1]); err != nil {
		t.Fatalf("insert: %v", err)
	}

	aggs, err := st.ListCharAggregates(ctx, "s1")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 glyphs, got %+v", aggs)
	}
	ka := aggs[0]
	if ka.Char != "か" || ka.Correct != 1 || ka.Incorrect != 1 || ka.LatencySumMs != 900 || ka.LatencyCount != 1 {
		t.Fatalf("unexpected aggregate for か: %+v", ka)
	}

	attempts, err := st.ListAttempts(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(attempts) != 3 || attempts[1].Glyph != "し" || attempts[1].Correct || attempts[2].Mode != model.ModeMadLibs {
		t.Fatalf("unexpected attempts: %+v", attempts)
	}
	if !attempts[0].At.Equal(time.Unix(0, 0)) {
		t.Fatalf("unexpected timestamp: %v", attempts[0].At)
	}
}

func TestMemoryStoreAndDelete(t *testing.T) {
	st := openTestStore(t, MemoryPath)
	ctx := context.Background()
	if err := st.InsertAttempts(ctx, sampleAttempts("s1")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	attempts, err := st.ListAttempts(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(attempts) != 0 {
		t.Fatalf("expected no attempts after delete, got %d", len(attempts))
	}
}
