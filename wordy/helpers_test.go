package wordy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/FCamaggi/aLittleWordy/card"
	"github.com/FCamaggi/aLittleWordy/tile"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newClock() *clock {
	return &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func newTestMatch(t *testing.T, clk *clock) *Match {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Now = clk.Now
	m, err := NewMatch("abcd", cfg)
	require.NoError(t, err)
	return m
}

// startMatch returns a match in GAME_LOOP where seat 0 ("Ana") hides word0
// and seat 1 ("Beto") hides word1. Every catalog card is playable.
func startMatch(t *testing.T, word0, word1 string) (*Match, *clock) {
	t.Helper()
	clk := newClock()
	m := newTestMatch(t, clk)

	a, err := m.Join("Ana", false)
	require.NoError(t, err)
	b, err := m.Join("Beto", false)
	require.NoError(t, err)

	g := tile.NewGenerator(5)
	handA, err := g.HandForWord(word0)
	require.NoError(t, err)
	handB, err := g.HandForWord(word1)
	require.NoError(t, err)
	require.NoError(t, m.AssignHand(a, handA))
	require.NoError(t, m.AssignHand(b, handB))

	require.NoError(t, m.Ready(a))
	require.NoError(t, m.Ready(b))
	require.NoError(t, m.SubmitWord(a, word0))
	require.NoError(t, m.SubmitWord(b, word1))
	require.Equal(t, PhaseGameLoop, m.Phase())

	m.deck = card.Catalog()
	return m, clk
}

func tilesOf(letters string) tile.List {
	out := make(tile.List, 0, len(letters))
	for i, r := range []rune(letters) {
		l := string(r)
		out = append(out, tile.Tile{ID: l + string(rune('a'+i)), Letter: l, Kind: tile.KindOf(l)})
	}
	return out
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "error %v", err)
}
