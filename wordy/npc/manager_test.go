package npc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/FCamaggi/aLittleWordy/wordy"
)

func TestManager_SpawnAndPrepare(t *testing.T) {
	mgr := NewManager(nil, 9, time.Second, 3*time.Second)
	m, err := wordy.NewMatch("bots", wordy.DefaultConfig())
	require.NoError(t, err)

	human, err := m.Join("Ana", false)
	require.NoError(t, err)
	bot, err := mgr.Spawn(m, "cautious")
	require.NoError(t, err)
	require.Equal(t, wordy.Seat(1), bot.Seat)
	require.True(t, mgr.IsBot("BOTS", 1))
	require.False(t, mgr.IsBot("BOTS", human))

	snap := m.Snapshot()
	me := snap.Players[bot.Seat]
	require.True(t, me.Bot)
	require.True(t, me.Ready)
	require.True(t, me.OriginalTiles.CanSpell(bot.word))
	require.Contains(t, Words, bot.word)

	changed, err := mgr.Prepare(m)
	require.NoError(t, err)
	require.False(t, changed)

	require.NoError(t, m.Ready(human))
	require.Equal(t, wordy.PhaseSetup, m.Phase())
	changed, err = mgr.Prepare(m)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, bot.word, m.Snapshot().Players[bot.Seat].SecretWord)

	mgr.Despawn("bots")
	require.Nil(t, mgr.Get("BOTS"))
}

func TestManager_SpawnIntoReadyLobby(t *testing.T) {
	mgr := NewManager(nil, 4, 0, 0)
	m, err := wordy.NewMatch("late", wordy.DefaultConfig())
	require.NoError(t, err)
	human, _ := m.Join("Ana", false)
	require.NoError(t, m.Ready(human))

	bot, err := mgr.Spawn(m, "")
	require.NoError(t, err)
	snap := m.Snapshot()
	require.Equal(t, wordy.PhaseSetup, snap.Phase)
	require.True(t, snap.Players[bot.Seat].WordSubmitted)
	require.True(t, snap.Players[bot.Seat].OriginalTiles.CanSpell(snap.Players[bot.Seat].SecretWord))
}

func TestManager_ThinkDelayWithinBounds(t *testing.T) {
	mgr := NewManager(nil, 1, time.Second, 3*time.Second)
	for i := 0; i < 100; i++ {
		d := mgr.ThinkDelay()
		require.GreaterOrEqual(t, d, time.Second)
		require.Less(t, d, 3*time.Second)
	}
}

func TestManager_AdoptRestoredBot(t *testing.T) {
	mgr := NewManager(nil, 11, 0, 0)
	m, err := wordy.NewMatch("keep", wordy.DefaultConfig())
	require.NoError(t, err)
	human, _ := m.Join("Ana", false)
	spawned, err := mgr.Spawn(m, "reckless")
	require.NoError(t, err)
	require.NoError(t, m.Ready(human))
	_, err = mgr.Prepare(m)
	require.NoError(t, err)

	restored, err := wordy.Restore(m.Snapshot(), wordy.DefaultConfig())
	require.NoError(t, err)

	other := NewManager(nil, 12, 0, 0)
	_, err = other.Adopt(restored, human)
	require.Error(t, err)

	bot, err := other.Adopt(restored, spawned.Seat)
	require.NoError(t, err)
	require.Equal(t, "reckless", bot.Persona.ID)
	require.Equal(t, spawned.word, bot.word)
	require.True(t, other.IsBot("KEEP", spawned.Seat))

	changed, err := other.Prepare(restored)
	require.NoError(t, err)
	require.False(t, changed)
}
