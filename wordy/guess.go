package wordy

import "fmt"

// Guess checks word against the opponent's secret.
//
// A wrong guess pays the opponent GuessPenalty tokens. A correct guess wins at
// once when the guesser leads on tokens; otherwise the guesser waits while the
// opponent keeps playing, and wins as soon as their tokens overtake the
// opponent's. If the opponent guesses back first, the opponent wins.
func (m *Match) Guess(seat Seat, word string) (GuessResult, error) {
	word, err := m.normalizeWord(word)
	if err != nil {
		return GuessResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.player(seat)
	if p == nil {
		return GuessResult{}, ErrPlayerNotFound
	}
	if err := m.checkCanAct(seat); err != nil {
		return GuessResult{}, err
	}

	opp := m.players[seat.Other()]
	p.Guesses = append(p.Guesses, word)
	res := GuessResult{Word: word, Winner: NoSeat}

	if word != opp.SecretWord {
		opp.Tokens += m.cfg.GuessPenalty
		m.log(fmt.Sprintf("%s guessed %s and missed; %s receives %d token(s).",
			p.Name, word, opp.Name, m.cfg.GuessPenalty))
		if !m.waiting {
			m.turn = seat.Other()
		}
		res.GameOver = m.checkOvertake()
		res.Waiting = m.waiting
		res.Winner = m.winner
		m.touch()
		return res, nil
	}

	res.Correct = true
	switch {
	case m.waiting:
		m.log(fmt.Sprintf("%s guessed %s's word!", p.Name, opp.Name))
		m.finish(seat, ReasonGuessedBack)
	case p.Tokens > opp.Tokens:
		m.log(fmt.Sprintf("%s guessed %s's word!", p.Name, opp.Name))
		m.finish(seat, ReasonAhead)
	default:
		p.HasGuessedCorrectly = true
		m.waiting = true
		m.turn = seat.Other()
		m.log(fmt.Sprintf("%s guessed correctly but trails on tokens (%d vs %d). %s keeps playing.",
			p.Name, p.Tokens, opp.Tokens, opp.Name))
	}
	res.GameOver = m.phase == PhaseGameOver
	res.Waiting = m.waiting
	res.Winner = m.winner
	m.touch()
	return res, nil
}

// checkOvertake ends the match when a waiting guesser has more tokens than
// the opponent.
func (m *Match) checkOvertake() bool {
	if !m.waiting || m.phase != PhaseGameLoop {
		return false
	}
	for i, p := range m.players {
		s := Seat(i)
		if p.HasGuessedCorrectly && p.Tokens > m.players[s.Other()].Tokens {
			m.finish(s, ReasonOvertook)
			return true
		}
	}
	return false
}

func (m *Match) nonWaitingSeat() Seat {
	for i, p := range m.players {
		if !p.HasGuessedCorrectly {
			return Seat(i)
		}
	}
	return NoSeat
}
