package card

const (
	DeckVanilla = 4
	DeckSpicy   = 4
	DeckSize    = DeckVanilla + DeckSpicy
)

// Shuffler is satisfied by *rand.Rand from math/rand and golang.org/x/exp/rand.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// BuildDeck draws a match deck: each category is shuffled on its own and the
// first four of each are kept, vanilla first.
func BuildDeck(r Shuffler) List {
	vanilla := Catalog().Filter(Vanilla)
	spicy := Catalog().Filter(Spicy)
	shuffle(r, vanilla)
	shuffle(r, spicy)

	deck := make(List, 0, DeckSize)
	deck = append(deck, vanilla[:DeckVanilla]...)
	deck = append(deck, spicy[:DeckSpicy]...)
	return deck
}

func shuffle(r Shuffler, l List) {
	r.Shuffle(len(l), func(i, j int) {
		l[i], l[j] = l[j], l[i]
	})
}
