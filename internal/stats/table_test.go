package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Kana", "Romaji", "Misses"}
	rows := [][]string{
		{"あ", "a", "12"},
		{"きゃ", "kya", "3"},
	}
	rightAlign := map[int]bool{2: true}

	lines := FormatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Kana Romaji Misses" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "あ   a          12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "きゃ kya         3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideHeadersAndCells(t *testing.T) {
	headers := []string{"仮名", "ローマ字"}
	rows := [][]string{
		{"ア", "ａ"},
		{"ぎょ", "gyo", "extra"},
	}

	lines := FormatTable(headers, rows, nil)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	want := []string{
		"仮名 ローマ字      ",
		"ア   ａ            ",
		"ぎょ gyo      extra",
	}
	for i, line := range lines {
		if line != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, line, want[i])
		}
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := FormatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected no lines, got %q", lines)
	}
}
