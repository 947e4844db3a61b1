package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/kana/internal/kana"
	"github.com/verte-zerg/kana/internal/madlib"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildSentenceRunes styles a sentence for display. Blanks show their romaji;
// after grading they show the expected glyph in the correct or incorrect style.
func buildSentenceRunes(sentence madlib.Sentence, focus int, graded []bool) []styledRune {
	parts := strings.Split(sentence.Template, sentence.Marker)
	out := make([]styledRune, 0, len(sentence.Template))
	for i, part := range parts {
		for _, r := range part {
			out = append(out, styledRune{
				s:       sentenceStyle.Render(string(r)),
				width:   runewidth.RuneWidth(r),
				isSpace: r == ' ' || r == '　',
			})
		}
		if i >= len(sentence.Blanks) {
			continue
		}
		out = append(out, blankRune(sentence.Blanks[i], i, focus, graded))
	}
	return out
}

func blankRune(e kana.Entry, i, focus int, graded []bool) styledRune {
	label := fmt.Sprintf("[%s]", e.Romaji)
	style := blankStyle
	switch {
	case i < len(graded) && graded[i]:
		label = e.Glyph
		style = correctStyle
	case i < len(graded):
		label = fmt.Sprintf("%s(%s)", e.Glyph, e.Romaji)
		style = incorrectStyle
	case i == focus:
		style = blankStyle.Underline(true)
	}
	return styledRune{s: style.Render(label), width: runewidth.StringWidth(label)}
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
