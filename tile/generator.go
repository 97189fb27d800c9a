package tile

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

// Generator draws tiles from the fixed pools. Pools are sampled with
// replacement, so supply is unlimited.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a generator seeded with seed (0 => time-based).
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// DrawHand returns a shuffled hand of 5 vowels and 6 consonants.
func (g *Generator) DrawHand() List {
	g.mu.Lock()
	defer g.mu.Unlock()

	hand := make(List, 0, HandSize)
	for i := 0; i < HandVowels; i++ {
		hand = append(hand, g.drawLocked(KindVowel))
	}
	for i := 0; i < HandConsonants; i++ {
		hand = append(hand, g.drawLocked(KindConsonant))
	}
	g.shuffleLocked(hand)
	return hand
}

// DrawReplacement returns one fresh tile of kind k.
func (g *Generator) DrawReplacement(k Kind) Tile {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.drawLocked(k)
}

// HandForWord builds a hand that spells word and is topped up from the pools
// to the usual 5/6 split. Used for bot players so their word is always
// playable.
func (g *Generator) HandForWord(word string) (List, error) {
	word = strings.ToUpper(strings.TrimSpace(word))
	if word == "" {
		return nil, fmt.Errorf("empty word")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	hand := make(List, 0, HandSize)
	vowels, consonants := 0, 0
	for _, r := range word {
		letter := string(r)
		k := KindOf(letter)
		if k == KindVowel {
			vowels++
		} else {
			consonants++
		}
		hand = append(hand, newTile(letter, k))
	}
	if vowels > HandVowels || consonants > HandConsonants {
		return nil, fmt.Errorf("word %q needs %d vowels and %d consonants (max %d/%d)",
			word, vowels, consonants, HandVowels, HandConsonants)
	}
	for ; vowels < HandVowels; vowels++ {
		hand = append(hand, g.drawLocked(KindVowel))
	}
	for ; consonants < HandConsonants; consonants++ {
		hand = append(hand, g.drawLocked(KindConsonant))
	}
	g.shuffleLocked(hand)
	return hand, nil
}

// Shuffle returns a shuffled copy of l.
func (g *Generator) Shuffle(l List) List {
	out := l.Clone()
	g.mu.Lock()
	g.shuffleLocked(out)
	g.mu.Unlock()
	return out
}

// Intn exposes the generator's source for callers that must share its
// sequence (deck shuffles, room codes).
func (g *Generator) Intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}

func (g *Generator) drawLocked(k Kind) Tile {
	pool := poolRunes(k)
	return newTile(string(pool[g.rng.Intn(len(pool))]), k)
}

func (g *Generator) shuffleLocked(l List) {
	g.rng.Shuffle(len(l), func(i, j int) {
		l[i], l[j] = l[j], l[i]
	})
}

func newTile(letter string, k Kind) Tile {
	return Tile{
		ID:     uuid.NewString(),
		Letter: letter,
		Kind:   k,
	}
}
