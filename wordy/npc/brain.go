package npc

import (
	"github.com/FCamaggi/aLittleWordy/card"
	"github.com/FCamaggi/aLittleWordy/tile"
	"github.com/FCamaggi/aLittleWordy/wordy"
)

// GameView is the projection of a match a bot decides on. Bots run server
// side and are allowed to see the opponent's word; accuracy is a dice roll.
type GameView struct {
	Phase   wordy.Phase
	MySeat  wordy.Seat
	MyTurn  bool
	History int

	Hand          tile.List // my guessing hand
	OpponentHand  tile.List // my original letters, held by the opponent
	Deck          card.List
	OpponentWord  string
	MyWord        string
	MyGuesses     []string
	IGuessed      bool
	OpponentKnows bool // opponent already guessed my word

	// Pending card action waiting on my answer, if any.
	Pending *wordy.PendingAction
}

type DecisionKind int

const (
	DecideNothing DecisionKind = iota
	DecideGuess
	DecideCard
	DecideRespond
)

// Decision is what a Brain returns.
type Decision struct {
	Kind     DecisionKind
	CardID   string
	Input    string
	Word     string
	Response string
}

// Brain is implemented by every bot type.
type Brain interface {
	Decide(view GameView) Decision
	Name() string
}

// BuildView projects snap for seat.
func BuildView(snap wordy.Snapshot, seat wordy.Seat) GameView {
	v := GameView{
		Phase:   snap.Phase,
		MySeat:  seat,
		MyTurn:  snap.Phase == wordy.PhaseGameLoop && snap.Turn == seat && snap.Pending == nil,
		History: len(snap.History),
		Deck:    snap.ActiveCards,
	}
	if int(seat) < 0 || int(seat) >= len(snap.Players) {
		return v
	}
	me := snap.Players[seat]
	v.Hand = me.Tiles
	v.MyWord = me.SecretWord
	v.MyGuesses = me.Guesses
	v.IGuessed = me.HasGuessedCorrectly
	if opp := int(seat.Other()); opp < len(snap.Players) {
		v.OpponentHand = snap.Players[opp].Tiles
		v.OpponentWord = snap.Players[opp].SecretWord
		v.OpponentKnows = snap.Players[opp].HasGuessedCorrectly
	}
	if snap.Pending != nil && snap.Pending.Target == seat {
		pa := *snap.Pending
		v.Pending = &pa
	}
	return v
}
