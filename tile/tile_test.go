package tile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDrawHand_AlwaysFiveVowelsSixConsonants(t *testing.T) {
	g := NewGenerator(7)
	for i := 0; i < 200; i++ {
		hand := g.DrawHand()
		require.Len(t, hand, HandSize)
		require.Equal(t, HandVowels, hand.CountKind(KindVowel))
		require.Equal(t, HandConsonants, hand.CountKind(KindConsonant))

		ids := make(map[string]bool, len(hand))
		for _, tl := range hand {
			require.True(t, InPool(tl.Kind, tl.Letter), "letter %q not in %s pool", tl.Letter, tl.Kind)
			require.False(t, tl.Revealed)
			require.False(t, tl.Disabled)
			require.False(t, ids[tl.ID], "duplicate tile id")
			ids[tl.ID] = true
		}
	}
}

func TestPools_RuneLengths(t *testing.T) {
	require.Len(t, []rune(VowelPool), 43)
	require.Len(t, []rune(ConsonantPool), 52)
	require.Len(t, ConsonantPool, 53)
	require.NotContains(t, ConsonantPool, "K")
	require.NotContains(t, ConsonantPool, "W")
}

func TestDrawReplacement_KeepsKind(t *testing.T) {
	g := NewGenerator(3)
	for i := 0; i < 50; i++ {
		v := g.DrawReplacement(KindVowel)
		require.Equal(t, KindVowel, v.Kind)
		require.True(t, IsVowel(v.Letter))

		c := g.DrawReplacement(KindConsonant)
		require.Equal(t, KindConsonant, c.Kind)
		require.True(t, InPool(KindConsonant, c.Letter))
	}
}

func TestHandForWord_SpellsWord(t *testing.T) {
	g := NewGenerator(11)
	hand, err := g.HandForWord("montaña")
	require.NoError(t, err)
	require.Len(t, hand, HandSize)
	require.Equal(t, HandVowels, hand.CountKind(KindVowel))
	require.True(t, hand.CanSpell("MONTAÑA"))
}

func TestHandForWord_RejectsTooManyVowels(t *testing.T) {
	g := NewGenerator(11)
	_, err := g.HandForWord("AEIOUA")
	require.Error(t, err)
}

func TestCanSpell_RespectsMultiplicity(t *testing.T) {
	hand := List{
		{Letter: "C"}, {Letter: "A"}, {Letter: "T"}, {Letter: "O"},
	}
	require.True(t, hand.CanSpell("CAT"))
	require.True(t, hand.CanSpell("TACO"))
	require.False(t, hand.CanSpell("CATT"))
	require.False(t, hand.CanSpell("DOG"))
}

func TestMarkRevealedAndDisable(t *testing.T) {
	hand := List{{Letter: "A"}, {Letter: "A"}, {Letter: "B"}}

	require.True(t, hand.MarkRevealed("A"))
	require.True(t, hand[0].Revealed)
	require.False(t, hand[1].Revealed)
	require.True(t, hand.MarkRevealed("A"))
	require.False(t, hand.MarkRevealed("A"))

	require.Equal(t, 2, hand.DisableLetters([]string{"A"}))
	require.Equal(t, 0, hand.Count("A", true))
	require.Equal(t, 1, hand.Count("B", true))
}
