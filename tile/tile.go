package tile

import "strings"

// Kind separates the two letter pools.
type Kind string

const (
	KindVowel     Kind = "VOWEL"
	KindConsonant Kind = "CONSONANT"
)

// Tile is a single letter owned by one player slot.
//
// Letter and Kind never change after creation; Revealed and Disabled are the
// only fields clue cards may flip.
type Tile struct {
	ID       string `json:"id"`
	Letter   string `json:"letter"`
	Kind     Kind   `json:"kind"`
	Revealed bool   `json:"revealed"`
	Disabled bool   `json:"disabled"`
}

// List is an ordered hand of tiles.
type List []Tile

// Clone returns an independent copy of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Count returns how many tiles carry letter. Disabled tiles are skipped when
// activeOnly is set.
func (l List) Count(letter string, activeOnly bool) int {
	n := 0
	for _, t := range l {
		if t.Letter != letter {
			continue
		}
		if activeOnly && t.Disabled {
			continue
		}
		n++
	}
	return n
}

// Has reports whether any tile carries letter.
func (l List) Has(letter string, activeOnly bool) bool {
	return l.Count(letter, activeOnly) > 0
}

// IndexOf returns the position of the tile with the given id, or -1.
func (l List) IndexOf(id string) int {
	for i, t := range l {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// CountKind returns the number of tiles of kind k.
func (l List) CountKind(k Kind) int {
	n := 0
	for _, t := range l {
		if t.Kind == k {
			n++
		}
	}
	return n
}

// Letters returns the tile letters in order.
func (l List) Letters() []string {
	out := make([]string, len(l))
	for i, t := range l {
		out[i] = t.Letter
	}
	return out
}

// CanSpell reports whether word can be built from the tiles, using each tile
// at most once.
func (l List) CanSpell(word string) bool {
	avail := make(map[string]int, len(l))
	for _, t := range l {
		avail[t.Letter]++
	}
	for _, r := range word {
		k := string(r)
		if avail[k] == 0 {
			return false
		}
		avail[k]--
	}
	return true
}

// MarkRevealed flags the first unrevealed tile carrying letter and reports
// whether one was found.
func (l List) MarkRevealed(letter string) bool {
	for i := range l {
		if l[i].Letter == letter && !l[i].Revealed {
			l[i].Revealed = true
			return true
		}
	}
	return false
}

// DisableLetters flags every tile whose letter is in letters.
func (l List) DisableLetters(letters []string) int {
	if len(letters) == 0 {
		return 0
	}
	set := make(map[string]bool, len(letters))
	for _, x := range letters {
		set[x] = true
	}
	n := 0
	for i := range l {
		if set[l[i].Letter] && !l[i].Disabled {
			l[i].Disabled = true
			n++
		}
	}
	return n
}

// String renders the letters as a compact word, e.g. "CATOEIRSNLU".
func (l List) String() string {
	return strings.Join(l.Letters(), "")
}
