package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/kana/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// RollingAccuracy returns the windowed accuracy percentage after each attempt.
func RollingAccuracy(attempts []model.Attempt, window int) []float64 {
	values := make([]float64, len(attempts))
	for i, a := range attempts {
		if a.Correct {
			values[i] = 100
		}
	}
	return MovingAverage(values, window)
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the running totals of a session.
func RenderSummary(w io.Writer, m model.Mastery) error {
	if m.Total == 0 {
		_, err := fmt.Fprintln(w, "No answers recorded.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Score: %d/%d", m.Score, m.Total),
		fmt.Sprintf("Accuracy: %s", FormatAccuracy(m)),
		fmt.Sprintf("Streak: %d", m.Streak),
		fmt.Sprintf("Practiced: %d kana", PracticedCount(m)),
		fmt.Sprintf("Needing practice: %d", WeakCount(m)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// CharRow is a display row for a per-glyph aggregate.
type CharRow struct {
	Char      string
	Accuracy  float64
	LatencyMs float64
	Correct   int
	Incorrect int
}

// CharRows converts aggregates to rows sorted by lowest accuracy first.
func CharRows(aggs []model.CharAggregate) []CharRow {
	rows := make([]CharRow, 0, len(aggs))
	for _, agg := range aggs {
		total := agg.Correct + agg.Incorrect
		acc := 0.0
		if total > 0 {
			acc = float64(agg.Correct) / float64(total) * 100
		}
		lat := 0.0
		if agg.LatencyCount > 0 {
			lat = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		rows = append(rows, CharRow{
			Char:      agg.Char,
			Accuracy:  acc,
			LatencyMs: lat,
			Correct:   agg.Correct,
			Incorrect: agg.Incorrect,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Accuracy == rows[j].Accuracy {
			return rows[i].Char < rows[j].Char
		}
		return rows[i].Accuracy < rows[j].Accuracy
	})
	return rows
}

// RenderCharTable prints per-glyph aggregates.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Character"); err != nil {
		return err
	}
	headers := []string{"Kana", "Accuracy", "Avg Latency (ms)", "Correct", "Incorrect"}
	tableRows := make([][]string, 0, len(aggs))
	for _, r := range CharRows(aggs) {
		tableRows = append(tableRows, []string{
			r.Char,
			fmt.Sprintf("%.2f%%", r.Accuracy),
			fmt.Sprintf("%.1f", r.LatencyMs),
			fmt.Sprintf("%d", r.Correct),
			fmt.Sprintf("%d", r.Incorrect),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range FormatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
