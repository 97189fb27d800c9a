package card

// List is an ordered set of cards, e.g. a match deck.
type List []Card

// Count returns the number of cards in the list.
func (l List) Count() int {
	return len(l)
}

// Find returns the card with the given id.
func (l List) Find(id string) (Card, bool) {
	for _, c := range l {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// Contains reports whether a card with the given id is in the list.
func (l List) Contains(id string) bool {
	_, ok := l.Find(id)
	return ok
}

// CountCategory returns how many cards belong to cat.
func (l List) CountCategory(cat Category) int {
	n := 0
	for _, c := range l {
		if c.Category == cat {
			n++
		}
	}
	return n
}

// Filter returns the cards in cat, preserving order.
func (l List) Filter(cat Category) List {
	out := make(List, 0, len(l))
	for _, c := range l {
		if c.Category == cat {
			out = append(out, c)
		}
	}
	return out
}

// IDs returns the card ids in order.
func (l List) IDs() []string {
	out := make([]string, len(l))
	for i, c := range l {
		out[i] = c.ID
	}
	return out
}

// Clone returns an independent copy.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}
