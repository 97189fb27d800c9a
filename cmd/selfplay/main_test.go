package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FCamaggi/aLittleWordy/wordy"
)

func TestRun_PlaysToGameOver(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3} {
		var out bytes.Buffer
		snap, err := run(&out, options{Seed: seed, First: "bot", Second: "reckless", MaxMoves: 5000})
		require.NoError(t, err, "seed %d", seed)
		require.Equal(t, wordy.PhaseGameOver, snap.Phase)
		require.NotEqual(t, wordy.NoSeat, snap.Winner)
		require.Contains(t, out.String(), "Winner: ")
	}
}

func TestRun_IsReproducible(t *testing.T) {
	var a, b bytes.Buffer
	_, err := run(&a, options{Seed: 9, First: "bot", Second: "cautious", MaxMoves: 5000})
	require.NoError(t, err)
	_, err = run(&b, options{Seed: 9, First: "bot", Second: "cautious", MaxMoves: 5000})
	require.NoError(t, err)
	require.Equal(t, a.String(), b.String())
}
