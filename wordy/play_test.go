package wordy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/FCamaggi/aLittleWordy/card"
	"github.com/FCamaggi/aLittleWordy/tile"
)

func TestEveryCatalogActionHasHandler(t *testing.T) {
	for _, c := range card.Catalog() {
		h, ok := handlers[c.Action]
		require.True(t, ok, "no handler for %s", c.Action)
		require.NotNil(t, h.resolve, c.ID)
		if !c.SelfResolving() {
			require.NotNil(t, h.prompt, c.ID)
		}
	}
}

func TestUseCard_SelfResolvingFlipsTurn(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")
	histLen := len(m.Snapshot().History)

	res, err := m.UseCard(0, card.Woody, "")
	require.NoError(t, err)
	require.False(t, res.Pending)
	require.Equal(t, 4, res.Cost)
	require.Equal(t, "The first letter is P.", res.Result)

	s := m.Snapshot()
	require.Equal(t, Seat(1), s.Turn)
	require.Equal(t, 4, s.Players[1].Tokens)
	require.Equal(t, 0, s.Players[0].Tokens)
	require.Equal(t, []RevealedPosition{{Letter: "P", Index: 0}}, s.Players[1].RevealedPositions)
	require.Equal(t, []string{"P"}, s.Players[1].RevealedLetters)
	require.Equal(t, 1, countRevealed(s.Players[0].Tiles, "P"))

	require.Len(t, s.History, histLen+2)
	require.Contains(t, s.History[0], "Woody Woodpecker")
	require.Equal(t, res.Result, s.History[1])
}

func TestUseCard_PendingKeepsTurnUntilResponse(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")

	res, err := m.UseCard(0, card.Jose, "r")
	require.NoError(t, err)
	require.True(t, res.Pending)
	require.Equal(t, "Is the letter R in your word?", res.Prompt)
	require.Equal(t, Seat(1), res.Target)

	s := m.Snapshot()
	require.Equal(t, Seat(0), s.Turn)
	require.NotNil(t, s.Pending)
	require.Equal(t, "R", s.Pending.Input)

	_, err = m.UseCard(0, card.Woody, "")
	require.ErrorIs(t, err, ErrPendingAction)
	_, err = m.Guess(0, "PERRO")
	require.ErrorIs(t, err, ErrPendingAction)
	_, err = m.UseCard(1, card.Woody, "")
	require.ErrorIs(t, err, ErrNotYourTurn)
	_, err = m.Respond(0, "yes")
	require.ErrorIs(t, err, ErrNotTarget)

	done, err := m.Respond(1, "ok")
	require.NoError(t, err)
	require.Equal(t, "Yes, R is in the word.", done.Result)
	require.Equal(t, 2, done.Cost)

	s = m.Snapshot()
	require.Nil(t, s.Pending)
	require.Equal(t, Seat(1), s.Turn)
	require.Equal(t, 2, s.Players[1].Tokens)

	_, err = m.Respond(1, "again")
	require.ErrorIs(t, err, ErrNoPendingAction)
}

func TestUseCard_RejectionsLeaveStateUntouched(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")
	m.players[0].Tiles = tilesOf("PERROAEIXZL")
	m.players[1].Tiles = tilesOf("GATOAEIUSLN")
	v := m.Version()

	cases := []struct {
		name  string
		card  string
		input string
		kind  Kind
	}{
		{"unknown card", "mickey", "", KindNotFound},
		{"two letters", card.Jose, "AB", KindValidation},
		{"no letter", card.Henery, "", KindValidation},
		{"digit", card.Jose, "7", KindValidation},
		{"flit common letter", card.Flit, "A", KindValidation},
		{"word not in hand", card.Yakky, "GATO", KindValidation},
		{"word too long", card.Calimero, "PERROPERROPE", KindValidation},
		{"heckle single copy", card.Heckle, "P", KindConflict},
		{"scuttle absent from opponent", card.Scuttle, "X", KindConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.UseCard(0, tc.card, tc.input)
			requireKind(t, err, tc.kind)
			require.Equal(t, v, m.Version())
		})
	}

	m.deck = m.deck.Filter(card.Vanilla)
	_, err := m.UseCard(0, card.Flit, "Z")
	require.ErrorIs(t, err, ErrCardNotInDeck)
}

func TestUseCard_WrongPhase(t *testing.T) {
	m := newTestMatch(t, newClock())
	a, _ := m.Join("Ana", false)
	_, err := m.UseCard(a, card.Woody, "")
	require.ErrorIs(t, err, ErrWrongPhase)
}

func TestScrooge_CostIsSharedDistinctLetters(t *testing.T) {
	m, _ := startMatch(t, "SOL", "GATO")
	m.players[0].Tiles = tilesOf("PERROAEIXZL")

	res, err := m.UseCard(0, card.Scrooge, "perro")
	require.NoError(t, err)
	require.True(t, res.Pending)

	done, err := m.Respond(1, "")
	require.NoError(t, err)
	require.Equal(t, 1, done.Cost)
	require.Equal(t, "Not in the word: E, P, R.", done.Result)

	s := m.Snapshot()
	require.Equal(t, 1, s.Players[1].Tokens)
	for _, tl := range s.Players[0].Tiles {
		switch tl.Letter {
		case "P", "E", "R":
			require.True(t, tl.Disabled, tl.Letter)
		default:
			require.False(t, tl.Disabled, tl.Letter)
		}
	}
}

func TestYakky_FixedCostAndDisable(t *testing.T) {
	m, _ := startMatch(t, "SOL", "GATO")
	m.players[0].Tiles = tilesOf("GATOAEIXZLR")

	_, err := m.UseCard(0, card.Yakky, "GATO")
	require.NoError(t, err)
	done, err := m.Respond(1, "")
	require.NoError(t, err)
	require.Equal(t, 4, done.Cost)
	require.Equal(t, "Every letter of GATO is in the word.", done.Result)
	for _, tl := range m.Snapshot().Players[0].Tiles {
		require.False(t, tl.Disabled)
	}
}

func TestCalimero_ComparesLength(t *testing.T) {
	m, _ := startMatch(t, "SOL", "GATO")
	m.players[0].Tiles = tilesOf("GATOAEIXZLR")

	_, err := m.UseCard(0, card.Calimero, "TAL")
	require.NoError(t, err)
	done, err := m.Respond(1, "")
	require.NoError(t, err)
	require.Equal(t, "The word is LONGER than TAL.", done.Result)
}

func TestHenery_RevealsFirstIndex(t *testing.T) {
	m, _ := startMatch(t, "SOL", "PERRO")

	_, err := m.UseCard(0, card.Henery, "R")
	require.NoError(t, err)
	done, err := m.Respond(1, "")
	require.NoError(t, err)
	require.Equal(t, "R is at position 3.", done.Result)
	require.Equal(t, []RevealedPosition{{Letter: "R", Index: 2}}, m.Snapshot().Players[1].RevealedPositions)
	require.Equal(t, 3, m.Snapshot().Players[1].Tokens)
}

func TestHeckleAndScuttle(t *testing.T) {
	m, _ := startMatch(t, "SOL", "PERRO")
	m.players[0].Tiles = tilesOf("PERROAEIXZL")
	m.players[1].Tiles = tilesOf("SOLAEIURTNC")

	_, err := m.UseCard(0, card.Heckle, "R")
	require.NoError(t, err)
	done, err := m.Respond(1, "")
	require.NoError(t, err)
	require.Equal(t, "R appears 2 time(s) in the word.", done.Result)

	// back to seat 0
	_, err = m.UseCard(1, card.Woodstock, "")
	require.NoError(t, err)

	_, err = m.UseCard(0, card.Scuttle, "P")
	require.Error(t, err)
	_, err = m.UseCard(0, card.Scuttle, "L")
	require.NoError(t, err)
	done, err = m.Respond(1, "")
	require.NoError(t, err)
	require.Equal(t, "L appears 0 time(s) in Beto's word and 1 time(s) in Ana's word.", done.Result)
}

func TestHeckle_IgnoresDisabledTiles(t *testing.T) {
	m, _ := startMatch(t, "SOL", "PERRO")
	m.players[0].Tiles = tilesOf("PERROAEIXZL")
	m.players[0].Tiles.DisableLetters([]string{"R"})

	_, err := m.UseCard(0, card.Heckle, "R")
	requireKind(t, err, KindConflict)
}

func TestFoghorn_RevealsVowelsThenRunsOut(t *testing.T) {
	m, _ := startMatch(t, "GATO", "SOL")

	res, err := m.UseCard(0, card.Foghorn, "")
	require.NoError(t, err)
	require.Equal(t, "Vowel O is at position 2.", res.Result)

	_, err = m.UseCard(1, card.Woodstock, "")
	require.NoError(t, err)

	res, err = m.UseCard(0, card.Foghorn, "")
	require.NoError(t, err)
	require.Equal(t, "No vowels left to reveal.", res.Result)

	s := m.Snapshot()
	require.Equal(t, 2, s.Players[1].Tokens)
	require.Equal(t, Seat(1), s.Turn)
	require.Len(t, s.Players[1].RevealedPositions, 1)
}

func TestZazu_MutualReveal(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")

	_, err := m.UseCard(0, card.Zazu, "")
	require.NoError(t, err)
	done, err := m.Respond(1, "")
	require.NoError(t, err)
	require.Equal(t, "Ana reveals G at position 1; Beto reveals P at position 1.", done.Result)

	s := m.Snapshot()
	require.Equal(t, []RevealedPosition{{Letter: "G", Index: 0}}, s.Players[0].RevealedPositions)
	require.Equal(t, []RevealedPosition{{Letter: "P", Index: 0}}, s.Players[1].RevealedPositions)
	require.Equal(t, 1, countRevealed(s.Players[1].Tiles, "G"))
	require.Equal(t, 1, countRevealed(s.Players[0].Tiles, "P"))
	require.Equal(t, 1, s.Players[1].Tokens)
}

func TestIago_NeedsAnswer(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")

	_, err := m.UseCard(0, card.Iago, "")
	require.NoError(t, err)
	_, err = m.Respond(1, "   ")
	require.ErrorIs(t, err, ErrEmptyResponse)
	_, err = m.Respond(1, "this answer is definitely longer than forty runes")
	requireKind(t, err, KindValidation)

	done, err := m.Respond(1, "cerro")
	require.NoError(t, err)
	require.Equal(t, "Beto answered: cerro", done.Result)
	require.Equal(t, 5, m.Snapshot().Players[1].Tokens)
}

func TestExpirePending(t *testing.T) {
	m, clk := startMatch(t, "GATO", "PERRO")
	_, err := m.UseCard(0, card.Iago, "")
	require.NoError(t, err)

	clk.now = clk.now.Add(time.Minute)
	_, expired := m.ExpirePending(clk.now)
	require.False(t, expired)

	clk.now = clk.now.Add(2 * time.Minute)
	res, expired := m.ExpirePending(clk.now)
	require.True(t, expired)
	require.Equal(t, "Beto answered: "+NoAnswer, res.Result)

	s := m.Snapshot()
	require.Nil(t, s.Pending)
	require.Equal(t, Seat(1), s.Turn)
	require.Equal(t, 5, s.Players[1].Tokens)
}

func countRevealed(l tile.List, letter string) int {
	n := 0
	for _, tl := range l {
		if tl.Letter == letter && tl.Revealed {
			n++
		}
	}
	return n
}

func TestLetterAnswers_RecordRevealedLetters(t *testing.T) {
	t.Run("jose yes", func(t *testing.T) {
		m, _ := startMatch(t, "GATO", "PERRO")
		_, err := m.UseCard(0, card.Jose, "R")
		require.NoError(t, err)
		done, err := m.Respond(1, "ok")
		require.NoError(t, err)
		require.Equal(t, "Yes, R is in the word.", done.Result)

		s := m.Snapshot()
		require.Equal(t, []string{"R"}, s.Players[1].RevealedLetters)
		require.Empty(t, s.Players[1].RevealedPositions)
	})

	t.Run("jose no", func(t *testing.T) {
		m, _ := startMatch(t, "GATO", "PERRO")
		_, err := m.UseCard(0, card.Jose, "A")
		require.NoError(t, err)
		done, err := m.Respond(1, "")
		require.NoError(t, err)
		require.Equal(t, "No, A is not in the word.", done.Result)
		require.Empty(t, m.Snapshot().Players[1].RevealedLetters)
	})

	t.Run("heckle", func(t *testing.T) {
		m, _ := startMatch(t, "SOL", "PERRO")
		m.players[0].Tiles = tilesOf("PERROAEIXZL")
		_, err := m.UseCard(0, card.Heckle, "R")
		require.NoError(t, err)
		_, err = m.Respond(1, "")
		require.NoError(t, err)
		require.Equal(t, []string{"R"}, m.Snapshot().Players[1].RevealedLetters)
	})

	t.Run("heckle absent", func(t *testing.T) {
		m, _ := startMatch(t, "SOL", "PERRO")
		m.players[0].Tiles = tilesOf("PERROAEIXZL")
		_, err := m.UseCard(0, card.Heckle, "A")
		requireKind(t, err, KindConflict)
		m.players[0].Tiles = tilesOf("AAEIOPRSTLN")
		_, err = m.UseCard(0, card.Heckle, "A")
		require.NoError(t, err)
		done, err := m.Respond(1, "")
		require.NoError(t, err)
		require.Equal(t, "A appears 0 time(s) in the word.", done.Result)
		require.Empty(t, m.Snapshot().Players[1].RevealedLetters)
	})

	t.Run("scuttle", func(t *testing.T) {
		m, _ := startMatch(t, "SOL", "LORO")
		m.players[0].Tiles = tilesOf("SOLAEIURTNC")
		m.players[1].Tiles = tilesOf("LOROAEIUTNC")
		_, err := m.UseCard(0, card.Scuttle, "O")
		require.NoError(t, err)
		done, err := m.Respond(1, "")
		require.NoError(t, err)
		require.Equal(t, "O appears 2 time(s) in Beto's word and 1 time(s) in Ana's word.", done.Result)

		s := m.Snapshot()
		require.Equal(t, []string{"O"}, s.Players[1].RevealedLetters)
		require.Equal(t, []string{"O"}, s.Players[0].RevealedLetters)
	})

	t.Run("scuttle one side", func(t *testing.T) {
		m, _ := startMatch(t, "SOL", "PERRO")
		m.players[0].Tiles = tilesOf("PERROAEIXZL")
		m.players[1].Tiles = tilesOf("SOLAEIURTNC")
		_, err := m.UseCard(0, card.Scuttle, "L")
		require.NoError(t, err)
		_, err = m.Respond(1, "")
		require.NoError(t, err)

		s := m.Snapshot()
		require.Empty(t, s.Players[1].RevealedLetters)
		require.Equal(t, []string{"L"}, s.Players[0].RevealedLetters)
	})

	t.Run("flit", func(t *testing.T) {
		m, _ := startMatch(t, "GATO", "ZORRO")
		_, err := m.UseCard(0, card.Flit, "z")
		require.NoError(t, err)
		done, err := m.Respond(1, "")
		require.NoError(t, err)
		require.Equal(t, "Yes, Z is in the word.", done.Result)
		require.Equal(t, []string{"Z"}, m.Snapshot().Players[1].RevealedLetters)
	})

	t.Run("disclosed letters stay sorted and unique", func(t *testing.T) {
		m, _ := startMatch(t, "GATO", "PERRO")
		for _, l := range []string{"R", "E", "R"} {
			_, err := m.UseCard(m.Turn(), card.Jose, l)
			require.NoError(t, err)
			_, err = m.Respond(m.Turn().Other(), "")
			require.NoError(t, err)
			if m.Turn() != 0 {
				_, err = m.UseCard(1, card.Woodstock, "")
				require.NoError(t, err)
			}
		}
		require.Equal(t, []string{"E", "R"}, m.Snapshot().Players[1].RevealedLetters)
	})
}

func TestCardResults(t *testing.T) {
	cases := []struct {
		name   string
		word   string
		card   string
		input  string
		result string
	}{
		{"beaky counts vowels with enie", "AÑO", card.Beaky, "", "The word has 2 vowel(s)."},
		{"daffy counts enie as consonant", "AÑO", card.Daffy, "", "The word has 1 consonant(s)."},
		{"beaky", "PERRO", card.Beaky, "", "The word has 2 vowel(s)."},
		{"daffy", "PERRO", card.Daffy, "", "The word has 3 consonant(s)."},
		{"woodstock", "PERRO", card.Woodstock, "", "The last letter is O."},
		{"woodstock enie", "NIÑO", card.Woodstock, "", "The last letter is O."},
		{"chilly", "PERRO", card.Chilly, "", "The word has 5 letters."},
		{"chilly counts runes", "AÑO", card.Chilly, "", "The word has 3 letters."},
		{"flit rare yes", "ZORRO", card.Flit, "Z", "Yes, Z is in the word."},
		{"flit rare no", "PERRO", card.Flit, "K", "No, K is not in the word."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := startMatch(t, "GATO", tc.word)
			res, err := m.UseCard(0, tc.card, tc.input)
			require.NoError(t, err)
			if res.Pending {
				res, err = m.Respond(1, "")
				require.NoError(t, err)
			}
			require.Equal(t, tc.result, res.Result)
			require.Equal(t, Seat(1), m.Turn())
		})
	}
}

func TestFlit_OnlyRareLetters(t *testing.T) {
	m, _ := startMatch(t, "GATO", "ZORRO")
	v := m.Version()
	for _, in := range []string{"A", "R", "Ñ", "ZZ", ""} {
		_, err := m.UseCard(0, card.Flit, in)
		requireKind(t, err, KindValidation)
		require.Equal(t, v, m.Version())
	}
	for _, in := range []string{"Z", "j", "Q", "x", "K"} {
		_, err := m.UseCard(0, card.Flit, in)
		require.NoError(t, err, in)
		_, err = m.Respond(1, "")
		require.NoError(t, err)
		_, err = m.UseCard(1, card.Woodstock, "")
		require.NoError(t, err)
	}
}
