package wordy

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/FCamaggi/aLittleWordy/card"
)

// UseCard plays cardID on seat's turn. input carries the letter or word the
// card asks for and is ignored by cards without input. Self-resolving cards
// resolve immediately; the rest open a pending action for the opponent.
func (m *Match) UseCard(seat Seat, cardID string, input string) (CardResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.player(seat)
	if p == nil {
		return CardResult{}, ErrPlayerNotFound
	}
	if err := m.checkCanAct(seat); err != nil {
		return CardResult{}, err
	}
	c, ok := card.ByID(cardID)
	if !ok || !m.deck.Contains(c.ID) {
		return CardResult{}, ErrCardNotInDeck
	}
	if c.BlockedOnceOpponentGuessed() && m.players[seat.Other()].HasGuessedCorrectly {
		return CardResult{}, ErrCardBlocked
	}
	input, err := m.checkInput(seat, c, input)
	if err != nil {
		return CardResult{}, err
	}
	h := handlers[c.Action]
	if h.check != nil {
		if err := h.check(m, seat, input); err != nil {
			return CardResult{}, err
		}
	}

	pa := &PendingAction{
		CardID:    c.ID,
		Action:    c.Action,
		UsedBy:    seat,
		Target:    seat.Other(),
		Input:     input,
		CreatedAt: m.cfg.Now(),
	}
	if c.SelfResolving() {
		return m.resolve(pa), nil
	}

	pa.Prompt = h.prompt(input)
	m.pending = pa
	m.touch()
	return CardResult{
		Card:    c,
		UsedBy:  seat,
		Target:  pa.Target,
		Pending: true,
		Prompt:  pa.Prompt,
		Cost:    c.Cost.Value,
	}, nil
}

// Respond answers the pending card action. Only its target may respond. The
// answer is computed from the secret words; the text only matters for rhymes.
func (m *Match) Respond(seat Seat, response string) (CardResult, error) {
	response = strings.TrimSpace(response)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.player(seat) == nil {
		return CardResult{}, ErrPlayerNotFound
	}
	if err := m.checkInGame(); err != nil {
		return CardResult{}, err
	}
	pa := m.pending
	if pa == nil {
		return CardResult{}, ErrNoPendingAction
	}
	if pa.Target != seat {
		return CardResult{}, ErrNotTarget
	}
	if pa.Action == card.ActionRhyme {
		if response == "" {
			return CardResult{}, ErrEmptyResponse
		}
		if utf8.RuneCountInString(response) > m.cfg.MaxResponseLen {
			return CardResult{}, validationf("response must be at most %d characters", m.cfg.MaxResponseLen)
		}
	}
	pa.Response = response
	return m.resolve(pa), nil
}

// ExpirePending resolves a pending action older than the configured timeout
// as if the target had acknowledged it.
func (m *Match) ExpirePending(now time.Time) (CardResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending == nil || m.phase != PhaseGameLoop || m.cfg.PendingTimeout <= 0 {
		return CardResult{}, false
	}
	if now.Sub(m.pending.CreatedAt) < m.cfg.PendingTimeout {
		return CardResult{}, false
	}
	m.pending.Response = NoAnswer
	return m.resolve(m.pending), true
}

// Pending returns a copy of the open card action, if any.
func (m *Match) Pending() (PendingAction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return PendingAction{}, false
	}
	return *m.pending, true
}

func (m *Match) checkInGame() error {
	switch m.phase {
	case PhaseGameLoop:
		return nil
	case PhaseGameOver:
		return ErrGameOver
	default:
		return ErrWrongPhase
	}
}

func (m *Match) checkCanAct(seat Seat) error {
	if err := m.checkInGame(); err != nil {
		return err
	}
	if m.turn != seat {
		return ErrNotYourTurn
	}
	if m.pending != nil {
		return ErrPendingAction
	}
	if m.players[seat].HasGuessedCorrectly {
		return ErrAlreadyGuessed
	}
	return nil
}

func (m *Match) checkInput(seat Seat, c card.Card, raw string) (string, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	switch c.Input() {
	case card.InputLetter, card.InputRareLetter:
		if utf8.RuneCountInString(raw) != 1 || !isLetters(raw) {
			return "", validationf("%s needs a single letter", c.Name)
		}
		if c.Input() == card.InputRareLetter && !strings.Contains(card.RareLetters, raw) {
			return "", validationf("%s only accepts one of %s", c.Name, card.RareLetters)
		}
		return raw, nil
	case card.InputWord:
		n := utf8.RuneCountInString(raw)
		if n < 1 || n > m.cfg.MaxWordLen || !isLetters(raw) {
			return "", validationf("%s needs a word of 1-%d letters", c.Name, m.cfg.MaxWordLen)
		}
		if !m.players[seat].Tiles.CanSpell(raw) {
			return "", ErrWordNotInHand
		}
		return raw, nil
	default:
		return "", nil
	}
}

// resolve applies a card's effect and cost, logs it and passes the turn.
func (m *Match) resolve(pa *PendingAction) CardResult {
	c, _ := card.ByID(pa.CardID)
	h := handlers[pa.Action]
	result, dynamicCost := h.resolve(m, pa)
	cost := c.Cost.Value
	if c.Cost.Variable {
		cost = dynamicCost
	}

	asker, target := m.players[pa.UsedBy], m.players[pa.Target]
	target.Tokens += cost
	m.pending = nil
	m.log(
		fmt.Sprintf("%s used %s; %s receives %d token(s).", asker.Name, c.Name, target.Name, cost),
		result,
	)
	if m.waiting {
		m.turn = m.nonWaitingSeat()
	} else {
		m.turn = pa.Target
	}
	over := m.checkOvertake()
	m.touch()

	return CardResult{
		Card:     c,
		UsedBy:   pa.UsedBy,
		Target:   pa.Target,
		Cost:     cost,
		Result:   result,
		GameOver: over,
	}
}

func isLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
