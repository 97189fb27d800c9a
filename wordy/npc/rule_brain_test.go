package npc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FCamaggi/aLittleWordy/card"
	"github.com/FCamaggi/aLittleWordy/tile"
	"github.com/FCamaggi/aLittleWordy/wordy"
)

func TestWordsFitAHand(t *testing.T) {
	g := tile.NewGenerator(3)
	for _, w := range Words {
		require.True(t, fits(w), w)
		hand, err := g.HandForWord(w)
		require.NoError(t, err, w)
		require.True(t, hand.CanSpell(w), w)
	}
}

func TestRhyme(t *testing.T) {
	require.Equal(t, "PERRO", Rhyme("CERRO"))
	require.Equal(t, fallbackRhyme, Rhyme("X"))
	require.NotEqual(t, "GATO", Rhyme("GATO"))
}

func TestRuleBrain_AnswersPendingCards(t *testing.T) {
	b := NewRuleBrain(&Persona{Name: "t", Brain: DefaultProfile}, 1)
	d := b.Decide(GameView{
		Phase:   wordy.PhaseGameLoop,
		MyWord:  "CIELO",
		Pending: &wordy.PendingAction{Action: card.ActionRhyme},
	})
	require.Equal(t, DecideRespond, d.Kind)
	require.NotEmpty(t, d.Response)

	d = b.Decide(GameView{
		Phase:   wordy.PhaseGameLoop,
		Pending: &wordy.PendingAction{Action: card.ActionCheckLetter},
	})
	require.Equal(t, DecideRespond, d.Kind)
}

func TestRuleBrain_IdleWhenNotItsTurn(t *testing.T) {
	b := NewRuleBrain(&Persona{Name: "t", Brain: DefaultProfile}, 1)
	require.Equal(t, DecideNothing, b.Decide(GameView{Phase: wordy.PhaseGameLoop}).Kind)
	require.Equal(t, DecideNothing, b.Decide(GameView{Phase: wordy.PhaseSetup, MyTurn: true}).Kind)
	require.Equal(t, DecideNothing, b.Decide(GameView{Phase: wordy.PhaseGameLoop, MyTurn: true, IGuessed: true}).Kind)
}

func TestRuleBrain_GuessRateFollowsProfile(t *testing.T) {
	view := GameView{
		Phase:        wordy.PhaseGameLoop,
		MyTurn:       true,
		Deck:         card.Catalog(),
		Hand:         tilesOf("GATOAEIRRSL"),
		OpponentHand: tilesOf("PERROAEISLN"),
		OpponentWord: "GATO",
	}

	never := NewRuleBrain(&Persona{Name: "never", Brain: Profile{}}, 7)
	always := NewRuleBrain(&Persona{Name: "always", Brain: Profile{GuessBase: 1, Accuracy: 1}}, 7)
	for i := 0; i < 500; i++ {
		require.Equal(t, DecideCard, never.Decide(view).Kind)

		d := always.Decide(view)
		require.Equal(t, DecideGuess, d.Kind)
		require.Equal(t, "GATO", d.Word)
	}
}

func TestRuleBrain_SkipsBlockedCards(t *testing.T) {
	view := GameView{
		Phase:         wordy.PhaseGameLoop,
		MyTurn:        true,
		Deck:          card.List{mustCard(t, card.Zazu), mustCard(t, card.Scuttle)},
		Hand:          tilesOf("GATOAEIRRSL"),
		OpponentHand:  tilesOf("PERROAEISLN"),
		OpponentWord:  "GATO",
		OpponentKnows: true,
	}
	b := NewRuleBrain(&Persona{Name: "t", Brain: Profile{}}, 3)
	for i := 0; i < 50; i++ {
		require.Equal(t, DecideGuess, b.Decide(view).Kind)
	}
}

func TestTwoBrains_PlayAFullMatch(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		cfg := wordy.DefaultConfig()
		cfg.Seed = seed
		m, err := wordy.NewMatch("SELF", cfg)
		require.NoError(t, err)

		g := tile.NewGenerator(seed)
		words := []string{"CIELO", "MONTAÑA"}
		brains := []*RuleBrain{
			NewRuleBrain(&Persona{Name: "A", Brain: DefaultProfile}, seed*2),
			NewRuleBrain(&Persona{Name: "B", Brain: DefaultProfile}, seed*2+1),
		}
		for i, w := range words {
			seat, err := m.Join(brains[i].Name(), true)
			require.NoError(t, err)
			hand, err := g.HandForWord(w)
			require.NoError(t, err)
			require.NoError(t, m.AssignHand(seat, hand))
		}
		require.Equal(t, wordy.PhaseSetup, m.Phase())
		for i, w := range words {
			require.NoError(t, m.SubmitWord(wordy.Seat(i), w))
		}

		for step := 0; m.Phase() == wordy.PhaseGameLoop; step++ {
			require.Less(t, step, 1000, "match did not finish")
			snap := m.Snapshot()
			acted := false
			for i, b := range brains {
				seat := wordy.Seat(i)
				d := b.Decide(BuildView(snap, seat))
				if d.Kind == DecideNothing {
					continue
				}
				require.NoError(t, Apply(m, seat, d), "seed %d step %d decision %+v", seed, step, d)
				acted = true
				break
			}
			require.True(t, acted, "no bot could act")
		}
		require.Equal(t, wordy.PhaseGameOver, m.Phase())
	}
}

func mustCard(t *testing.T, id string) card.Card {
	t.Helper()
	c, ok := card.ByID(id)
	require.True(t, ok)
	return c
}

func tilesOf(letters string) tile.List {
	out := make(tile.List, 0, len(letters))
	for _, r := range letters {
		l := string(r)
		out = append(out, tile.Tile{ID: l, Letter: l, Kind: tile.KindOf(l)})
	}
	return out
}
