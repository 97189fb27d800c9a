package room

import (
	"context"
	"encoding/json"
	"time"

	"github.com/FCamaggi/aLittleWordy/apps/server/internal/codec"
	"github.com/FCamaggi/aLittleWordy/apps/server/internal/store"
	"github.com/FCamaggi/aLittleWordy/wordy"
)

// broadcastLocked sends one envelope per seat, each carrying that seat's
// view, and appends the public rendition to the event log. The envelope seq is
// the match version, so it only grows and survives restarts.
func (r *Room) broadcastLocked(typ string, build func(v wordy.View) any) {
	seq := r.match.Version()
	snap := r.match.Snapshot()
	for i := range snap.Players {
		seat := wordy.Seat(i)
		env, err := codec.WrapServerEnvelope(r.code, seq, typ, build(r.match.ViewFor(seat)))
		if err != nil {
			r.log.Error().Err(err).Str("type", typ).Msg("wrap envelope failed")
			return
		}
		r.opts.Deliver(r.code, seat, env)
	}
	r.appendEventLocked(seq, typ, build(r.match.PublicView()))
}

func (r *Room) broadcastRoomLocked(typ string) {
	r.broadcastLocked(typ, func(v wordy.View) any { return codec.RoomUpdate{Room: v} })
}

func (r *Room) broadcastPresenceLocked(seat wordy.Seat, online bool) {
	r.broadcastLocked(codec.TypePlayerPresence, func(v wordy.View) any {
		return codec.Presence{Room: v, PlayerID: seat, Online: online}
	})
}

func (r *Room) broadcastClosedLocked() {
	snap := r.match.Snapshot()
	for i := range snap.Players {
		r.sendLocked(wordy.Seat(i), codec.TypeRoomClosed, nil)
	}
}

// sendLocked targets a single seat. It reuses the current seq and is not
// logged.
func (r *Room) sendLocked(seat wordy.Seat, typ string, payload any) {
	env, err := codec.WrapServerEnvelope(r.code, r.match.Version(), typ, payload)
	if err != nil {
		r.log.Error().Err(err).Str("type", typ).Msg("wrap envelope failed")
		return
	}
	r.opts.Deliver(r.code, seat, env)
}

func (r *Room) appendEventLocked(seq uint64, typ string, payload any) {
	if r.opts.Store == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		r.log.Error().Err(err).Str("type", typ).Msg("encode event failed")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	err = r.opts.Store.AppendEvent(ctx, store.EventRecord{
		Room:       r.code,
		Seq:        seq,
		Type:       typ,
		Payload:    raw,
		ServerTsMs: time.Now().UnixMilli(),
	})
	if err != nil {
		r.log.Error().Err(err).Uint64("seq", seq).Str("type", typ).Msg("append event failed")
	}
}
