package wordy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FCamaggi/aLittleWordy/card"
)

func TestGuess_LengthCheckedBeforeState(t *testing.T) {
	m := newTestMatch(t, newClock())
	_, err := m.Guess(0, "")
	require.ErrorIs(t, err, ErrWordLength)
	_, err = m.Guess(0, "ABCDEFGHIJKL")
	require.ErrorIs(t, err, ErrWordLength)

	_, err = m.Guess(0, "GATO")
	require.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestGuess_WrongPaysPenaltyAndFlipsTurn(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")

	res, err := m.Guess(0, "perra")
	require.NoError(t, err)
	require.False(t, res.Correct)
	require.False(t, res.GameOver)

	s := m.Snapshot()
	require.Equal(t, 2, s.Players[1].Tokens)
	require.Equal(t, Seat(1), s.Turn)
	require.Equal(t, []string{"PERRA"}, s.Players[0].Guesses)

	_, err = m.Guess(0, "perro")
	require.ErrorIs(t, err, ErrNotYourTurn)
}

func TestGuess_ImmediateWinWhenAhead(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")
	m.players[0].Tokens = 60
	m.players[1].Tokens = 50

	res, err := m.Guess(0, "PERRO")
	require.NoError(t, err)
	require.True(t, res.Correct)
	require.True(t, res.GameOver)
	require.False(t, res.Waiting)

	s := m.Snapshot()
	require.Equal(t, PhaseGameOver, s.Phase)
	require.Equal(t, Seat(0), s.Winner)
	require.Equal(t, ReasonAhead, s.WinReason)
	require.False(t, s.Waiting)

	_, err = m.UseCard(0, card.Woody, "")
	require.ErrorIs(t, err, ErrGameOver)
	_, err = m.Guess(1, "GATO")
	require.ErrorIs(t, err, ErrGameOver)
}

func TestGuess_TiedTokensIsNotAhead(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")

	res, err := m.Guess(0, "PERRO")
	require.NoError(t, err)
	require.True(t, res.Correct)
	require.True(t, res.Waiting)
	require.False(t, res.GameOver)
}

func TestScenario2_OvertakeWhileWaiting(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")
	m.players[0].Tokens = 40
	m.players[1].Tokens = 50

	res, err := m.Guess(0, "PERRO")
	require.NoError(t, err)
	require.True(t, res.Correct)
	require.True(t, res.Waiting)

	s := m.Snapshot()
	require.Equal(t, PhaseGameLoop, s.Phase)
	require.True(t, s.Waiting)
	require.True(t, s.Players[0].HasGuessedCorrectly)
	require.Equal(t, Seat(1), s.Turn)

	// the waiting player takes no further actions
	_, err = m.UseCard(0, card.Woody, "")
	require.ErrorIs(t, err, ErrNotYourTurn)

	_, err = m.UseCard(1, card.Chilly, "")
	require.NoError(t, err)
	s = m.Snapshot()
	require.Equal(t, 43, s.Players[0].Tokens)
	require.Equal(t, PhaseGameLoop, s.Phase)
	require.Equal(t, Seat(1), s.Turn)

	// the waiting player still answers cards aimed at them
	_, err = m.UseCard(1, card.Iago, "")
	require.NoError(t, err)
	_, err = m.Respond(0, "pato")
	require.NoError(t, err)
	s = m.Snapshot()
	require.Equal(t, 48, s.Players[0].Tokens)
	require.Equal(t, Seat(1), s.Turn)

	done, err := m.UseCard(1, card.Woody, "")
	require.NoError(t, err)
	require.True(t, done.GameOver)

	s = m.Snapshot()
	require.Equal(t, 52, s.Players[0].Tokens)
	require.Equal(t, PhaseGameOver, s.Phase)
	require.Equal(t, Seat(0), s.Winner)
	require.Equal(t, ReasonOvertook, s.WinReason)
}

func TestScenario2_WrongGuessCanHandTheWin(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")
	m.players[0].Tokens = 40
	m.players[1].Tokens = 41

	_, err := m.Guess(0, "PERRO")
	require.NoError(t, err)

	res, err := m.Guess(1, "GOTA")
	require.NoError(t, err)
	require.False(t, res.Correct)
	require.True(t, res.GameOver)
	require.Equal(t, Seat(0), res.Winner)
	require.Equal(t, ReasonOvertook, m.Snapshot().WinReason)
}

func TestScenario2_WrongGuessKeepsTurnWhileWaiting(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")
	m.players[0].Tokens = 10
	m.players[1].Tokens = 30

	_, err := m.Guess(0, "PERRO")
	require.NoError(t, err)
	_, err = m.Guess(1, "GOTA")
	require.NoError(t, err)

	s := m.Snapshot()
	require.Equal(t, 12, s.Players[0].Tokens)
	require.Equal(t, Seat(1), s.Turn)
	require.Equal(t, PhaseGameLoop, s.Phase)
}

func TestScenario2_GuessBackWins(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")
	m.players[0].Tokens = 10
	m.players[1].Tokens = 30

	_, err := m.Guess(0, "PERRO")
	require.NoError(t, err)

	res, err := m.Guess(1, "gato")
	require.NoError(t, err)
	require.True(t, res.Correct)
	require.True(t, res.GameOver)
	require.Equal(t, Seat(1), res.Winner)
	require.Equal(t, ReasonGuessedBack, m.Snapshot().WinReason)
}

func TestBlockedCardsOnceOpponentGuessed(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")
	m.players[0].Tokens = 10

	_, err := m.UseCard(0, card.Woodstock, "")
	require.NoError(t, err)
	res, err := m.Guess(1, "GATO")
	require.NoError(t, err)
	require.True(t, res.Waiting)
	require.Equal(t, Seat(0), m.Turn())

	v := m.Version()
	_, err = m.UseCard(0, card.Zazu, "")
	require.ErrorIs(t, err, ErrCardBlocked)
	_, err = m.UseCard(0, card.Scuttle, "R")
	require.ErrorIs(t, err, ErrCardBlocked)
	require.Equal(t, v, m.Version())

	_, err = m.UseCard(0, card.Chilly, "")
	require.NoError(t, err)
}
