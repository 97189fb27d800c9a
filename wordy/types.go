package wordy

import (
	"time"

	"github.com/FCamaggi/aLittleWordy/card"
	"github.com/FCamaggi/aLittleWordy/tile"
)

// Phase is the match lifecycle stage. Phases only move forward; Reset is the
// single way back to PhaseLobby.
type Phase string

const (
	PhaseLobby    Phase = "LOBBY"
	PhaseSetup    Phase = "SETUP"
	PhaseGameLoop Phase = "GAME_LOOP"
	PhaseGameOver Phase = "GAME_OVER"
)

func (p Phase) valid() bool {
	switch p {
	case PhaseLobby, PhaseSetup, PhaseGameLoop, PhaseGameOver:
		return true
	}
	return false
}

// Seat indexes one of the two player slots.
type Seat int

const NoSeat Seat = -1

const MaxPlayers = 2

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	if s == 0 {
		return 1
	}
	if s == 1 {
		return 0
	}
	return NoSeat
}

func (s Seat) valid() bool { return s == 0 || s == 1 }

// Win reasons.
const (
	ReasonAhead       = "guessed correctly while ahead on tokens"
	ReasonOvertook    = "overtook opponent's tokens while waiting"
	ReasonGuessedBack = "guessed back while opponent was waiting"
)

// NoAnswer is recorded when a pending card times out.
const NoAnswer = "(no answer)"

// RevealedPosition is a letter disclosed at a 0-based index of a secret word.
type RevealedPosition struct {
	Letter string `json:"letter"`
	Index  int    `json:"index"`
}

// Player is one slot of the match.
type Player struct {
	Name   string `json:"name"`
	Bot    bool   `json:"isBot"`
	Online bool   `json:"online"`
	Ready  bool   `json:"isReady"`

	// OriginalTiles is the hand drawn for this player; the secret word is
	// built from it. Tiles is the hand used for guessing, i.e. the opponent's
	// original tiles after the swap.
	OriginalTiles tile.List `json:"originalTiles"`
	Tiles         tile.List `json:"tiles"`

	SecretWord    string `json:"secretWord"`
	WordSubmitted bool   `json:"wordSubmitted"`

	Tokens              int  `json:"tokens"`
	HasGuessedCorrectly bool `json:"hasGuessedCorrectly"`

	// Letters of this player's own word disclosed to the opponent.
	RevealedLetters   []string           `json:"revealedLetters"`
	RevealedPositions []RevealedPosition `json:"revealedPositions"`

	SwapsRemaining int      `json:"swapsRemaining"`
	Guesses        []string `json:"guesses"`
}

func (p *Player) clone() Player {
	c := *p
	c.OriginalTiles = p.OriginalTiles.Clone()
	c.Tiles = p.Tiles.Clone()
	c.RevealedLetters = append([]string(nil), p.RevealedLetters...)
	c.RevealedPositions = append([]RevealedPosition(nil), p.RevealedPositions...)
	c.Guesses = append([]string(nil), p.Guesses...)
	return c
}

func (p *Player) positionRevealed(idx int) bool {
	for _, rp := range p.RevealedPositions {
		if rp.Index == idx {
			return true
		}
	}
	return false
}

// PendingAction is the open two-step interaction of a card that needs the
// target to answer. At most one exists per match.
type PendingAction struct {
	CardID    string      `json:"cardId"`
	Action    card.Action `json:"actionCategory"`
	UsedBy    Seat        `json:"usedBy"`
	Target    Seat        `json:"targetPlayer"`
	Input     string      `json:"input,omitempty"`
	Prompt    string      `json:"prompt"`
	Response  string      `json:"response,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// CardResult describes an accepted card play or resolution.
type CardResult struct {
	Card    card.Card `json:"card"`
	UsedBy  Seat      `json:"usedBy"`
	Target  Seat      `json:"target"`
	Pending bool      `json:"pending"`
	Prompt  string    `json:"prompt,omitempty"`
	Cost    int       `json:"cost"`
	Result  string    `json:"result,omitempty"`

	GameOver bool `json:"gameOver"`
}

// GuessResult describes an accepted guess.
type GuessResult struct {
	Word     string `json:"word"`
	Correct  bool   `json:"isCorrect"`
	Waiting  bool   `json:"waitingForOpponentGuess"`
	GameOver bool   `json:"gameOver"`
	Winner   Seat   `json:"winner"`
}
