package npc

import (
	"strings"

	"golang.org/x/exp/rand"

	"github.com/FCamaggi/aLittleWordy/card"
	"github.com/FCamaggi/aLittleWordy/wordy"
)

// RuleBrain picks weighted-randomly between guessing and playing a card.
type RuleBrain struct {
	Persona *Persona
	rng     *rand.Rand
}

// NewRuleBrain creates a RuleBrain from a persona definition.
func NewRuleBrain(persona *Persona, seed uint64) *RuleBrain {
	return &RuleBrain{
		Persona: persona,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (b *RuleBrain) Name() string { return b.Persona.Name }

// Decide implements Brain.
func (b *RuleBrain) Decide(view GameView) Decision {
	if view.Phase != wordy.PhaseGameLoop {
		return Decision{}
	}
	if view.Pending != nil {
		return b.respond(view)
	}
	if !view.MyTurn || view.IGuessed {
		return Decision{}
	}

	p := b.Persona.Brain
	if b.rng.Float64() < p.GuessBase+p.GuessPerEntry*float64(view.History) {
		return b.guess(view)
	}
	if d, ok := b.pickCard(view); ok {
		return d
	}
	return b.guess(view)
}

func (b *RuleBrain) respond(view GameView) Decision {
	d := Decision{Kind: DecideRespond, Response: "ok"}
	if view.Pending.Action == card.ActionRhyme {
		d.Response = Rhyme(view.MyWord)
	}
	return d
}

func (b *RuleBrain) guess(view GameView) Decision {
	p := b.Persona.Brain
	if b.rng.Float64() < p.Accuracy || (p.SureAfter > 0 && view.History > p.SureAfter) {
		return Decision{Kind: DecideGuess, Word: view.OpponentWord}
	}
	return Decision{Kind: DecideGuess, Word: OtherWord(b.rng, view.OpponentWord)}
}

// pickCard walks the deck in random order and plays the first card it can
// build a legal input for.
func (b *RuleBrain) pickCard(view GameView) (Decision, bool) {
	order := b.rng.Perm(len(view.Deck))
	for _, i := range order {
		c := view.Deck[i]
		if c.BlockedOnceOpponentGuessed() && view.OpponentKnows {
			continue
		}
		input, ok := b.inputFor(c, view)
		if !ok {
			continue
		}
		return Decision{Kind: DecideCard, CardID: c.ID, Input: input}, true
	}
	return Decision{}, false
}

func (b *RuleBrain) inputFor(c card.Card, view GameView) (string, bool) {
	active := activeLetters(view)
	switch c.Input() {
	case card.InputNone:
		return "", true
	case card.InputRareLetter:
		return string(card.RareLetters[b.rng.Intn(len(card.RareLetters))]), true
	case card.InputWord:
		if len(active) == 0 {
			return "", false
		}
		n := 2 + b.rng.Intn(4)
		if n > len(active) {
			n = len(active)
		}
		var sb strings.Builder
		for _, i := range b.rng.Perm(len(active))[:n] {
			sb.WriteString(active[i])
		}
		return sb.String(), true
	case card.InputLetter:
		var candidates []string
		for _, l := range unique(active) {
			switch c.Action {
			case card.ActionCountDuplicates:
				if view.Hand.Count(l, true) < 2 {
					continue
				}
			case card.ActionSharedLetter:
				if !view.OpponentHand.Has(l, false) {
					continue
				}
			}
			candidates = append(candidates, l)
		}
		if len(candidates) == 0 {
			return "", false
		}
		return candidates[b.rng.Intn(len(candidates))], true
	}
	return "", false
}

func activeLetters(view GameView) []string {
	out := make([]string, 0, len(view.Hand))
	for _, t := range view.Hand {
		if !t.Disabled {
			out = append(out, t.Letter)
		}
	}
	return out
}

func unique(xs []string) []string {
	seen := make(map[string]bool, len(xs))
	out := xs[:0:0]
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}
