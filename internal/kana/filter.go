package kana

// PracticeSet is the glyph/romanization mapping eligible for selection,
// kept in catalog order.
type PracticeSet struct {
	entries []Entry
	index   map[string]int
}

// Filter builds the practice set for a script selection and group names.
// No groups yields an empty set; unknown group names are ignored.
func (c *Catalog) Filter(script Script, groups []string) PracticeSet {
	set := PracticeSet{index: map[string]int{}}
	if len(groups) == 0 {
		return set
	}
	valid := make([]map[string]struct{}, 0, len(groups))
	for _, g := range groups {
		if members, ok := c.members[g]; ok {
			valid = append(valid, members)
		}
	}
	for _, entry := range c.entries {
		if !script.Includes(entry.Script) {
			continue
		}
		for _, members := range valid {
			if _, ok := members[entry.Glyph]; ok {
				set.index[entry.Glyph] = len(set.entries)
				set.entries = append(set.entries, entry)
				break
			}
		}
	}
	return set
}

// NewPracticeSet builds a set from entries, keeping the first of duplicate glyphs.
func NewPracticeSet(entries []Entry) PracticeSet {
	set := PracticeSet{index: map[string]int{}}
	for _, e := range entries {
		if _, ok := set.index[e.Glyph]; ok {
			continue
		}
		set.index[e.Glyph] = len(set.entries)
		set.entries = append(set.entries, e)
	}
	return set
}

// Len returns the number of glyphs.
func (s PracticeSet) Len() int {
	return len(s.entries)
}

// IsEmpty reports whether nothing can be practiced.
func (s PracticeSet) IsEmpty() bool {
	return len(s.entries) == 0
}

// At returns the i-th entry in catalog order.
func (s PracticeSet) At(i int) Entry {
	return s.entries[i]
}

// Entries returns a copy of the entries in catalog order.
func (s PracticeSet) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Lookup returns the entry for glyph.
func (s PracticeSet) Lookup(glyph string) (Entry, bool) {
	idx, ok := s.index[glyph]
	if !ok {
		return Entry{}, false
	}
	return s.entries[idx], true
}

// Contains reports whether e is a member with the same romanization.
func (s PracticeSet) Contains(e Entry) bool {
	got, ok := s.Lookup(e.Glyph)
	return ok && got.Romaji == e.Romaji
}

// Position returns the catalog-order position of glyph, or -1.
func (s PracticeSet) Position(glyph string) int {
	idx, ok := s.index[glyph]
	if !ok {
		return -1
	}
	return idx
}
