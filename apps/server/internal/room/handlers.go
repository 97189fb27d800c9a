package room

import (
	"github.com/FCamaggi/aLittleWordy/apps/server/internal/codec"
	"github.com/FCamaggi/aLittleWordy/card"
	"github.com/FCamaggi/aLittleWordy/wordy"
	"github.com/FCamaggi/aLittleWordy/wordy/npc"
)

func (r *Room) handleJoin(name string) (wordy.Seat, error) {
	seat := wordy.NoSeat
	err := r.mutateLocked(func(m *wordy.Match) error {
		var err error
		if seat, err = m.Join(name, false); err != nil {
			return err
		}
		return r.prepareBotLocked(m)
	})
	if err != nil {
		return wordy.NoSeat, err
	}
	r.log.Info().Str("player", name).Int("seat", int(seat)).Msg("player joined")
	r.broadcastRoomLocked(phaseEvent(r.match.Phase(), codec.TypeRoomState))
	return seat, nil
}

// handleAttach binds a new connection of seat: it goes online and receives a
// full resync, plus the open prompt when a card waits on it.
func (r *Room) handleAttach(seat wordy.Seat, exclusive bool) error {
	changed := false
	err := r.mutateLocked(func(m *wordy.Match) error {
		if !m.HasSeat(seat) {
			return wordy.ErrPlayerNotFound
		}
		p := m.Snapshot().Players[seat]
		if p.Bot || (exclusive && p.Online) {
			return ErrSeatInUse
		}
		changed = m.SetOnline(seat, true)
		return nil
	})
	if err != nil {
		return err
	}
	if changed {
		r.broadcastPresenceLocked(seat, true)
	}
	r.sendLocked(seat, codec.TypeJoinedRoom, codec.JoinedRoom{Room: r.match.ViewFor(seat), PlayerID: seat})
	if pa, ok := r.match.Pending(); ok && pa.Target == seat {
		r.sendActionRequiredLocked(pa)
	}
	return nil
}

func (r *Room) handlePresence(seat wordy.Seat, online bool) error {
	changed := false
	err := r.mutateLocked(func(m *wordy.Match) error {
		changed = m.SetOnline(seat, online)
		return nil
	})
	if err != nil || !changed {
		return err
	}
	r.broadcastPresenceLocked(seat, online)
	return nil
}

func (r *Room) handleReady(seat wordy.Seat) error {
	err := r.mutateLocked(func(m *wordy.Match) error {
		if err := m.Ready(seat); err != nil {
			return err
		}
		return r.prepareBotLocked(m)
	})
	if err != nil {
		return err
	}
	typ := codec.TypePlayerReadyUpdated
	if r.match.Phase() != wordy.PhaseLobby {
		typ = codec.TypeGameStarting
		r.log.Info().Msg("setup started")
	}
	r.broadcastRoomLocked(typ)
	return nil
}

func (r *Room) handleSubmitWord(seat wordy.Seat, word string) error {
	err := r.mutateLocked(func(m *wordy.Match) error {
		return m.SubmitWord(seat, word)
	})
	if err != nil {
		return err
	}
	typ := codec.TypeWordSubmitted
	if r.match.Phase() == wordy.PhaseGameLoop {
		typ = codec.TypeGameStarted
		r.log.Info().Msg("game started")
	}
	r.broadcastRoomLocked(typ)
	return nil
}

func (r *Room) handleSwapTiles(seat wordy.Seat, ids []string) error {
	err := r.mutateLocked(func(m *wordy.Match) error {
		return m.SwapTiles(seat, ids)
	})
	if err != nil {
		return err
	}
	r.broadcastRoomLocked(codec.TypeTilesSwapped)
	return nil
}

func (r *Room) handleUseCard(seat wordy.Seat, cardID, input string) error {
	var res wordy.CardResult
	err := r.mutateLocked(func(m *wordy.Match) error {
		var err error
		res, err = m.UseCard(seat, cardID, input)
		return err
	})
	if err != nil {
		return err
	}
	if !res.Pending {
		r.broadcastCardCompletedLocked(res)
		return nil
	}
	r.broadcastLocked(codec.TypeCardUsed, func(v wordy.View) any {
		return codec.CardUsed{Room: v, Card: res.Card, UsedBy: res.UsedBy, Cost: res.Cost, Pending: true}
	})
	if pa, ok := r.match.Pending(); ok {
		r.sendActionRequiredLocked(pa)
	}
	return nil
}

func (r *Room) handleRespond(seat wordy.Seat, response string) error {
	var res wordy.CardResult
	err := r.mutateLocked(func(m *wordy.Match) error {
		var err error
		res, err = m.Respond(seat, response)
		return err
	})
	if err != nil {
		return err
	}
	r.broadcastCardCompletedLocked(res)
	return nil
}

func (r *Room) handleGuess(seat wordy.Seat, word string) error {
	var res wordy.GuessResult
	err := r.mutateLocked(func(m *wordy.Match) error {
		var err error
		res, err = m.Guess(seat, word)
		return err
	})
	if err != nil {
		return err
	}
	if res.GameOver {
		r.logGameOverLocked()
	}
	r.broadcastLocked(codec.TypeGuessMade, func(v wordy.View) any {
		return codec.GuessMade{Room: v, PlayerID: seat, Word: res.Word, IsCorrect: res.Correct, GameOver: res.GameOver}
	})
	return nil
}

func (r *Room) handleReset(seat wordy.Seat) error {
	err := r.mutateLocked(func(m *wordy.Match) error {
		if err := m.Reset(seat); err != nil {
			return err
		}
		return r.prepareBotLocked(m)
	})
	if err != nil {
		return err
	}
	r.log.Info().Msg("room reset")
	r.broadcastRoomLocked(codec.TypeRoomReset)
	return nil
}

func (r *Room) handleBotMove(e Event) error {
	r.botScheduled = false
	if r.match.Version() != e.Version {
		return nil
	}
	var err error
	switch e.Decision.Kind {
	case npc.DecideGuess:
		err = r.handleGuess(e.Seat, e.Decision.Word)
	case npc.DecideCard:
		err = r.handleUseCard(e.Seat, e.Decision.CardID, e.Decision.Input)
	case npc.DecideRespond:
		err = r.handleRespond(e.Seat, e.Decision.Response)
	}
	if err != nil {
		r.log.Warn().Err(err).Int("kind", int(e.Decision.Kind)).Msg("bot move rejected")
	}
	return nil
}

func (r *Room) broadcastCardCompletedLocked(res wordy.CardResult) {
	if res.GameOver {
		r.logGameOverLocked()
	}
	r.broadcastLocked(codec.TypeCardActionCompleted, func(v wordy.View) any {
		return codec.CardActionCompleted{
			Room: v, Card: res.Card, UsedBy: res.UsedBy, Cost: res.Cost, Result: res.Result, GameOver: res.GameOver,
		}
	})
}

func (r *Room) sendActionRequiredLocked(pa wordy.PendingAction) {
	c, _ := card.ByID(pa.CardID)
	r.sendLocked(pa.Target, codec.TypeCardActionRequired, codec.CardActionRequired{
		Card:           c,
		ActionCategory: pa.Action,
		Prompt:         pa.Prompt,
		Input:          pa.Input,
	})
}

func (r *Room) logGameOverLocked() {
	snap := r.match.Snapshot()
	r.log.Info().Int("winner", int(snap.Winner)).Str("reason", snap.WinReason).Msg("game over")
}

func phaseEvent(p wordy.Phase, fallback string) string {
	if p == wordy.PhaseSetup {
		return codec.TypeGameStarting
	}
	return fallback
}
