package statsui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/kana/internal/model"
	"github.com/verte-zerg/kana/internal/store"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	err = st.InsertAttempts(context.Background(), []model.Attempt{
		{SessionID: "s", At: time.Unix(0, 0), Mode: model.ModeCharacters, Glyph: "し", Expected: "shi", Answer: "si", LatencyMs: 1200},
		{SessionID: "s", At: time.Unix(1, 0), Mode: model.ModeCharacters, Glyph: "し", Expected: "shi", Answer: "shi", Correct: true, LatencyMs: 800},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	mastery := model.NewMastery()
	mastery.Score, mastery.Total = 1, 2
	mastery.AttemptCount["し"] = 2
	mastery.MissCount["つ"] = 2
	return NewModel(st, "s", mastery, 100, 30)
}

func TestOverviewShowsSessionTotals(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	for _, want := range []string{"1/2", "50.0%", "Top weak kana", "つ  2"} {
		if !strings.Contains(view, want) {
			t.Fatalf("overview missing %q:\n%s", want, view)
		}
	}
}

func TestKanaTableTab(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabCharTable {
		t.Fatalf("expected kana table tab")
	}
	if !strings.Contains(m.View(), "し") {
		t.Fatalf("expected journal glyph in table:\n%s", m.View())
	}
}

func TestEscClosesView(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected close command")
	}
	if _, ok := cmd().(CloseMsg); !ok {
		t.Fatalf("expected CloseMsg")
	}
}
