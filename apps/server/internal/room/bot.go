package room

import (
	"time"

	"github.com/FCamaggi/aLittleWordy/wordy"
)

// prepareBotLocked lets the room's bot catch up with setup chores after a
// human action. Bot failures never fail the human's action.
func (r *Room) prepareBotLocked(m *wordy.Match) error {
	if r.opts.Bots == nil {
		return nil
	}
	if _, err := r.opts.Bots.Prepare(m); err != nil {
		r.log.Error().Err(err).Msg("bot prepare failed")
	}
	return nil
}

// scheduleBotLocked asks the bot for its next move and injects it back into
// the actor after a think delay. At most one move is in flight.
func (r *Room) scheduleBotLocked() {
	if r.closed || r.botScheduled || r.opts.Bots == nil {
		return
	}
	bot := r.opts.Bots.Get(r.code)
	if bot == nil {
		return
	}
	snap := r.match.Snapshot()
	d, ok := r.opts.Bots.Decide(r.code, snap)
	if !ok {
		return
	}
	r.botScheduled = true
	delay := r.opts.Bots.ThinkDelay()
	seat := bot.Seat
	version := snap.Version

	go func() {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.done:
				return
			}
		}
		_, _ = r.SubmitEvent(Event{Type: EventBotMove, Seat: seat, Decision: d, Version: version})
	}()
}
