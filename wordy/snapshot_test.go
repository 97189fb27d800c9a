package wordy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FCamaggi/aLittleWordy/card"
)

func TestViewFor_HidesOpponentSecrets(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")

	v := m.ViewFor(0)
	require.Equal(t, Seat(0), v.Viewer)
	require.Equal(t, "GATO", v.Players[0].SecretWord)
	require.NotEmpty(t, v.Players[0].OriginalTiles)
	require.Empty(t, v.Players[1].SecretWord)
	require.Empty(t, v.Players[1].OriginalTiles)
	require.True(t, v.Players[1].WordSubmitted)
	require.NotEmpty(t, v.Players[0].Tiles)

	pub := m.PublicView()
	require.Equal(t, NoSeat, pub.Viewer)
	require.Empty(t, pub.Players[0].SecretWord)
	require.Empty(t, pub.Players[1].SecretWord)

	// redaction never leaks back into the match
	require.Equal(t, "PERRO", m.Snapshot().Players[1].SecretWord)
}

func TestViewFor_GameOverShowsEverything(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")
	m.players[0].Tokens = 3
	_, err := m.Guess(0, "PERRO")
	require.NoError(t, err)

	pub := m.PublicView()
	require.Equal(t, "GATO", pub.Players[0].SecretWord)
	require.Equal(t, "PERRO", pub.Players[1].SecretWord)
}

func TestPublicView_Idempotent(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")
	_, err := m.UseCard(0, card.Jose, "O")
	require.NoError(t, err)

	a, err := json.Marshal(m.PublicView())
	require.NoError(t, err)
	b, err := json.Marshal(m.PublicView())
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestVersion_OnlyAcceptedActionsBump(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")
	v := m.Version()

	_, err := m.UseCard(1, card.Woody, "")
	require.Error(t, err)
	require.Equal(t, v, m.Version())

	_, err = m.UseCard(0, card.Jose, "O")
	require.NoError(t, err)
	require.Equal(t, v+1, m.Version())
	_, err = m.Respond(1, "")
	require.NoError(t, err)
	require.Equal(t, v+2, m.Version())
}

func TestRestore_RoundTrip(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")
	_, err := m.UseCard(0, card.Henery, "R")
	require.NoError(t, err)

	raw, err := json.Marshal(m.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	restored, err := Restore(snap, DefaultConfig())
	require.NoError(t, err)

	again, err := json.Marshal(restored.Snapshot())
	require.NoError(t, err)
	require.JSONEq(t, string(raw), string(again))

	// the restored match keeps playing
	res, err := restored.Respond(1, "")
	require.NoError(t, err)
	require.Equal(t, "R is at position 3.", res.Result)
}

func TestRestore_RejectsBrokenSnapshot(t *testing.T) {
	_, err := Restore(Snapshot{Code: "ABCD", Phase: "PLAYING"}, DefaultConfig())
	require.Error(t, err)

	_, err = Restore(Snapshot{Code: "ABCD", Phase: PhaseGameLoop, Players: make([]Player, 2), Turn: NoSeat}, DefaultConfig())
	require.Error(t, err)

	_, err = Restore(Snapshot{Phase: PhaseLobby}, DefaultConfig())
	require.Error(t, err)
}

func TestRestore_RejectsInconsistentGame(t *testing.T) {
	m, _ := startMatch(t, "GATO", "PERRO")
	_, err := m.UseCard(0, card.Jose, "R")
	require.NoError(t, err)
	good := m.Snapshot()
	_, err = Restore(good, DefaultConfig())
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{"missing secret", func(s *Snapshot) { s.Players[1].SecretWord = "" }},
		{"pending from no seat", func(s *Snapshot) { s.Pending.UsedBy = NoSeat }},
		{"pending target out of range", func(s *Snapshot) { s.Pending.Target = 7 }},
		{"pending aimed at its author", func(s *Snapshot) { s.Pending.Target = s.Pending.UsedBy }},
		{"pending unknown card", func(s *Snapshot) { s.Pending.CardID = "mickey" }},
		{"pending outside the game", func(s *Snapshot) { s.Phase = PhaseSetup }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := m.Snapshot()
			tc.mutate(&s)
			_, err := Restore(s, DefaultConfig())
			require.Error(t, err)
		})
	}
}
