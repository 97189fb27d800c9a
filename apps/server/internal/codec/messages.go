package codec

import (
	"github.com/FCamaggi/aLittleWordy/card"
	"github.com/FCamaggi/aLittleWordy/wordy"
)

// Client message types.
const (
	TypeJoinRoom      = "join_room"
	TypePlayerReady   = "player_ready"
	TypeSubmitWord    = "submit_word"
	TypeSwapTiles     = "swap_tiles"
	TypeUseCard       = "use_card"
	TypeRespondToCard = "respond_to_card"
	TypeGuessWord     = "guess_word"
	TypeResetRoom     = "reset_room"
	TypeGetState      = "get_state"
)

// Server envelope types.
const (
	TypeJoinedRoom          = "joined_room"
	TypePlayerReadyUpdated  = "player_ready_updated"
	TypeGameStarting        = "game_starting"
	TypeWordSubmitted       = "word_submitted"
	TypeGameStarted         = "game_started"
	TypeTilesSwapped        = "tiles_swapped"
	TypeCardUsed            = "card_used"
	TypeCardActionRequired  = "card_action_required"
	TypeCardActionCompleted = "card_action_completed"
	TypeGuessMade           = "guess_made"
	TypeRoomReset           = "room_reset"
	TypePlayerPresence      = "player_presence"
	TypeRoomState           = "room_state"
	TypeRoomClosed          = "room_closed"
	TypeError               = "error"
)

// RoomUpdate carries the viewer's copy of the room.
type RoomUpdate struct {
	Room wordy.View `json:"room"`
}

type JoinedRoom struct {
	Room     wordy.View `json:"room"`
	PlayerID wordy.Seat `json:"playerId"`
}

type CardUsed struct {
	Room    wordy.View `json:"room"`
	Card    card.Card  `json:"card"`
	UsedBy  wordy.Seat `json:"usedBy"`
	Cost    int        `json:"cost"`
	Pending bool       `json:"pending"`
}

// CardActionRequired goes to the target of a pending card only.
type CardActionRequired struct {
	Card           card.Card   `json:"card"`
	ActionCategory card.Action `json:"actionCategory"`
	Prompt         string      `json:"prompt"`
	Input          string      `json:"input,omitempty"`
}

type CardActionCompleted struct {
	Room     wordy.View `json:"room"`
	Card     card.Card  `json:"card"`
	UsedBy   wordy.Seat `json:"usedBy"`
	Cost     int        `json:"cost"`
	Result   string     `json:"result"`
	GameOver bool       `json:"gameOver"`
}

type GuessMade struct {
	Room      wordy.View `json:"room"`
	PlayerID  wordy.Seat `json:"playerId"`
	Word      string     `json:"word"`
	IsCorrect bool       `json:"isCorrect"`
	GameOver  bool       `json:"gameOver"`
}

type Presence struct {
	Room     wordy.View `json:"room"`
	PlayerID wordy.Seat `json:"playerId"`
	Online   bool       `json:"online"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}
