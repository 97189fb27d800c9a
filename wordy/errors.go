package wordy

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected request.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a rule violation. It never implies a partial mutation.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Internal wraps a failure outside the rules engine (storage, transport).
func Internal(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

var (
	ErrEmptyName     = &Error{KindValidation, "player name is required"}
	ErrNameTooLong   = &Error{KindValidation, "player name is too long"}
	ErrWordLength    = &Error{KindValidation, "word length out of range"}
	ErrWordNotInHand = &Error{KindValidation, "word cannot be built from your tiles"}
	ErrInvalidWord   = &Error{KindValidation, "word is not valid"}
	ErrUnknownTile   = &Error{KindValidation, "unknown tile"}
	ErrEmptyResponse = &Error{KindValidation, "response is required"}

	ErrRoomNotFound   = &Error{KindNotFound, "room not found"}
	ErrPlayerNotFound = &Error{KindNotFound, "player not found"}
	ErrCardNotInDeck  = &Error{KindNotFound, "card is not in this match's deck"}

	ErrRoomFull         = &Error{KindConflict, "room is full"}
	ErrNameTaken        = &Error{KindConflict, "name already taken in this room"}
	ErrGameStarted      = &Error{KindConflict, "game already started"}
	ErrWrongPhase       = &Error{KindConflict, "action not allowed in this phase"}
	ErrGameOver         = &Error{KindConflict, "game is over"}
	ErrNotGameOver      = &Error{KindConflict, "game is not over"}
	ErrAlreadyReady     = &Error{KindConflict, "already ready"}
	ErrWordSubmitted    = &Error{KindConflict, "word already submitted"}
	ErrNoSwapsLeft      = &Error{KindConflict, "not enough swaps left"}
	ErrNotYourTurn      = &Error{KindConflict, "not your turn"}
	ErrPendingAction    = &Error{KindConflict, "a card action is pending"}
	ErrNoPendingAction  = &Error{KindConflict, "no card action is pending"}
	ErrNotTarget        = &Error{KindConflict, "only the targeted player may respond"}
	ErrAlreadyGuessed   = &Error{KindConflict, "you already guessed correctly, wait for your opponent"}
	ErrCardBlocked      = &Error{KindConflict, "card is blocked once your opponent has guessed correctly"}
	ErrHandLocked       = &Error{KindConflict, "hand can no longer be replaced"}
	ErrMatchInitialized = &Error{KindConflict, "match already has players"}

	ErrInternal = &Error{KindInternal, "internal error"}
)

// KindOf classifies err. Errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
