// Package kana provides the character catalog and practice-set filtering.
package kana

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed catalog.toml
var defaultCatalog string

// Script identifies a syllabary selection.
type Script int

const (
	// Hiragana selects the hiragana table.
	Hiragana Script = iota
	// Katakana selects the katakana table.
	Katakana
	// Both selects hiragana and katakana.
	Both
)

// Scripts lists the selectable scripts in UI order.
var Scripts = []Script{Hiragana, Katakana, Both}

func (s Script) String() string {
	switch s {
	case Hiragana:
		return "Hiragana"
	case Katakana:
		return "Katakana"
	case Both:
		return "Both"
	default:
		return fmt.Sprintf("Script(%d)", int(s))
	}
}

// Includes reports whether a selection covers the single-table script t.
func (s Script) Includes(t Script) bool {
	return s == Both || s == t
}

// ParseScript parses a script name, case-insensitively.
func ParseScript(name string) (Script, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hiragana":
		return Hiragana, nil
	case "katakana":
		return Katakana, nil
	case "both":
		return Both, nil
	default:
		return 0, fmt.Errorf("unknown script %q (want hiragana, katakana or both)", name)
	}
}

// Entry is an immutable glyph/romanization pair.
type Entry struct {
	Glyph  string
	Romaji string
	Script Script
}

// Catalog holds both syllabary tables and the group membership table.
type Catalog struct {
	entries []Entry
	index   map[string]int
	groups  []string
	members map[string]map[string]struct{}
}

type catalogFile struct {
	Sets []catalogSet `toml:"set"`
}

type catalogSet struct {
	Script string   `toml:"script"`
	Group  string   `toml:"group"`
	Glyphs []string `toml:"glyphs"`
	Romaji []string `toml:"romaji"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	cat, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("kana: built-in catalog: %v", err))
	}
	return cat
}

// Load reads a catalog from a TOML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes a catalog document.
func Parse(doc string) (*Catalog, error) {
	var file catalogFile
	if _, err := toml.Decode(doc, &file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	cat := &Catalog{
		index:   map[string]int{},
		members: map[string]map[string]struct{}{},
	}
	for i, set := range file.Sets {
		if err := cat.addSet(set); err != nil {
			return nil, fmt.Errorf("set %d: %w", i+1, err)
		}
	}
	if len(cat.entries) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return cat, nil
}

func (c *Catalog) addSet(set catalogSet) error {
	script, err := ParseScript(set.Script)
	if err != nil {
		return err
	}
	if script == Both {
		return fmt.Errorf("set script must be hiragana or katakana")
	}
	group := strings.TrimSpace(set.Group)
	if group == "" {
		return fmt.Errorf("group is empty")
	}
	if len(set.Glyphs) != len(set.Romaji) {
		return fmt.Errorf("group %q has %d glyphs but %d romaji", group, len(set.Glyphs), len(set.Romaji))
	}
	if _, ok := c.members[group]; !ok {
		c.groups = append(c.groups, group)
		c.members[group] = map[string]struct{}{}
	}
	for i, glyph := range set.Glyphs {
		romaji := strings.TrimSpace(set.Romaji[i])
		if glyph == "" || romaji == "" {
			return fmt.Errorf("group %q: empty glyph or romaji at position %d", group, i+1)
		}
		if idx, ok := c.index[glyph]; ok {
			prev := c.entries[idx]
			if prev.Romaji != romaji || prev.Script != script {
				return fmt.Errorf("glyph %s is listed as %q and %q", glyph, prev.Romaji, romaji)
			}
		} else {
			c.index[glyph] = len(c.entries)
			c.entries = append(c.entries, Entry{Glyph: glyph, Romaji: romaji, Script: script})
		}
		c.members[group][glyph] = struct{}{}
	}
	return nil
}

// Groups returns group names in catalog order.
func (c *Catalog) Groups() []string {
	return append([]string(nil), c.groups...)
}

// GroupSize returns the number of glyphs in a group for the given script.
func (c *Catalog) GroupSize(group string, script Script) int {
	n := 0
	for glyph := range c.members[group] {
		if script.Includes(c.entries[c.index[glyph]].Script) {
			n++
		}
	}
	return n
}

// Len returns the total number of glyphs.
func (c *Catalog) Len() int {
	return len(c.entries)
}
