// Package madlib builds and grades sentence-blank exercises.
package madlib

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/verte-zerg/kana/internal/kana"
)

//go:embed templates.toml
var defaultTemplates string

// DefaultMarker marks a blank in a template.
const DefaultMarker = "___"

// Templates maps a difficulty to its sentence templates.
type Templates struct {
	Marker string
	byDiff map[string][]string
	order  []string
}

type templatesFile struct {
	Blank     string              `toml:"blank"`
	Templates map[string][]string `toml:"templates"`
}

// DefaultTemplates returns the built-in templates.
func DefaultTemplates() *Templates {
	t, err := ParseTemplates(defaultTemplates)
	if err != nil {
		panic(fmt.Sprintf("madlib: built-in templates: %v", err))
	}
	return t
}

// LoadTemplates reads templates from a TOML file.
func LoadTemplates(path string) (*Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}
	return ParseTemplates(string(data))
}

// ParseTemplates decodes a templates document. Templates without a blank are dropped.
func ParseTemplates(doc string) (*Templates, error) {
	var file templatesFile
	if _, err := toml.Decode(doc, &file); err != nil {
		return nil, fmt.Errorf("failed to decode templates: %w", err)
	}
	marker := file.Blank
	if marker == "" {
		marker = DefaultMarker
	}
	t := &Templates{Marker: marker, byDiff: map[string][]string{}}
	for diff, lines := range file.Templates {
		diff = strings.ToLower(strings.TrimSpace(diff))
		for _, line := range lines {
			if strings.Count(line, marker) == 0 {
				continue
			}
			t.byDiff[diff] = append(t.byDiff[diff], line)
		}
	}
	for diff := range t.byDiff {
		t.order = append(t.order, diff)
	}
	sort.Slice(t.order, func(i, j int) bool {
		return difficultyRank(t.order[i]) < difficultyRank(t.order[j]) ||
			(difficultyRank(t.order[i]) == difficultyRank(t.order[j]) && t.order[i] < t.order[j])
	})
	if len(t.order) == 0 {
		return nil, fmt.Errorf("no templates with %q blanks", marker)
	}
	return t, nil
}

func difficultyRank(d string) int {
	switch d {
	case "easy":
		return 0
	case "medium":
		return 1
	case "hard":
		return 2
	default:
		return 3
	}
}

// Difficulties lists available difficulties, easiest first.
func (t *Templates) Difficulties() []string {
	return append([]string(nil), t.order...)
}

// For returns the templates of a difficulty.
func (t *Templates) For(difficulty string) []string {
	return append([]string(nil), t.byDiff[strings.ToLower(difficulty)]...)
}

// Pick chooses a template of the difficulty; intn must return a value in [0, n).
func (t *Templates) Pick(difficulty string, intn func(int) int) (string, error) {
	lines := t.byDiff[strings.ToLower(difficulty)]
	if len(lines) == 0 {
		return "", fmt.Errorf("no templates for difficulty %q", difficulty)
	}
	return lines[intn(len(lines))], nil
}

// BlankCount returns the number of blanks in template.
func (t *Templates) BlankCount(template string) int {
	return strings.Count(template, t.Marker)
}

// Sentence is a template with one entry drawn per blank.
type Sentence struct {
	Template string
	Marker   string
	Blanks   []kana.Entry
}

// NewSentence pairs a template with its fill entries.
func NewSentence(template, marker string, blanks []kana.Entry) (Sentence, error) {
	if n := strings.Count(template, marker); n != len(blanks) {
		return Sentence{}, fmt.Errorf("template has %d blanks, got %d entries", n, len(blanks))
	}
	return Sentence{Template: template, Marker: marker, Blanks: blanks}, nil
}

// Render substitutes each blank with fill(i, entry).
func (s Sentence) Render(fill func(int, kana.Entry) string) string {
	parts := strings.Split(s.Template, s.Marker)
	var b strings.Builder
	for i, part := range parts {
		b.WriteString(part)
		if i < len(s.Blanks) {
			b.WriteString(fill(i, s.Blanks[i]))
		}
	}
	return b.String()
}

// Complete reports whether every answer is non-blank and the count matches.
func (s Sentence) Complete(answers []string) bool {
	if len(answers) != len(s.Blanks) {
		return false
	}
	for _, a := range answers {
		if strings.TrimSpace(a) == "" {
			return false
		}
	}
	return true
}

// Grade compares each answer with the glyph of its blank.
func (s Sentence) Grade(answers []string) []bool {
	out := make([]bool, len(s.Blanks))
	for i, e := range s.Blanks {
		if i < len(answers) {
			out[i] = NormalizeGlyph(answers[i]) == NormalizeGlyph(e.Glyph)
		}
	}
	return out
}

// NormalizeGlyph trims input, widens half-width kana and composes to NFC.
func NormalizeGlyph(s string) string {
	return norm.NFC.String(width.Widen.String(strings.TrimSpace(s)))
}
