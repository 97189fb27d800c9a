package room

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/FCamaggi/aLittleWordy/apps/server/internal/codec"
	"github.com/FCamaggi/aLittleWordy/apps/server/internal/store"
	"github.com/FCamaggi/aLittleWordy/wordy"
	"github.com/FCamaggi/aLittleWordy/wordy/npc"
)

var ErrRoomClosed = &wordy.Error{Kind: wordy.KindNotFound, Msg: "room closed"}

// ErrSeatInUse rejects an exclusive attach to a seat that is already online.
var ErrSeatInUse = &wordy.Error{Kind: wordy.KindConflict, Msg: "seat is already connected"}

const (
	defaultTickInterval = 500 * time.Millisecond
	storeTimeout        = 3 * time.Second
)

// Deliver hands an envelope to every connection bound to seat of room. It
// must not block.
type Deliver func(room string, seat wordy.Seat, env codec.Envelope)

// Options wires a room to the rest of the server.
type Options struct {
	// Rules are needed to rebuild the match when a write has to be undone.
	Rules   wordy.Config
	Store   store.Service
	Bots    *npc.Manager
	Deliver Deliver

	TickInterval time.Duration
}

// Room serializes every mutation of one match through a single goroutine.
type Room struct {
	code string
	opts Options
	log  zerolog.Logger

	mu       sync.RWMutex
	match    *wordy.Match
	closed   bool
	stopOnce sync.Once

	events chan Event
	done   chan struct{}

	botScheduled bool
}

// EventType enumerates what the actor accepts.
type EventType int

const (
	EventJoin EventType = iota
	EventAttach
	EventPresence
	EventReady
	EventSubmitWord
	EventSwapTiles
	EventUseCard
	EventRespond
	EventGuess
	EventReset
	EventBotMove
	EventClose
)

func (t EventType) String() string {
	switch t {
	case EventJoin:
		return "join"
	case EventAttach:
		return "attach"
	case EventPresence:
		return "presence"
	case EventReady:
		return "ready"
	case EventSubmitWord:
		return "submit_word"
	case EventSwapTiles:
		return "swap_tiles"
	case EventUseCard:
		return "use_card"
	case EventRespond:
		return "respond"
	case EventGuess:
		return "guess"
	case EventReset:
		return "reset"
	case EventBotMove:
		return "bot_move"
	case EventClose:
		return "close"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is a message to the room actor.
type Event struct {
	Type EventType
	Seat wordy.Seat
	Name string

	Word     string
	CardID   string
	Input    string
	Response string
	TileIDs  []string
	Online   bool

	// Exclusive attaches only succeed while the seat is offline.
	Exclusive bool

	// Bot moves are dropped when the match moved past Version.
	Decision npc.Decision
	Version  uint64

	Timestamp time.Time
	Reply     chan Reply
}

// Reply is the actor's answer to a submitted event.
type Reply struct {
	Seat wordy.Seat
	Err  error
}

// New starts the actor for match. The match must already be persisted.
func New(match *wordy.Match, opts Options) *Room {
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}
	if opts.Deliver == nil {
		opts.Deliver = func(string, wordy.Seat, codec.Envelope) {}
	}
	r := &Room{
		code:   match.Code(),
		opts:   opts,
		log:    log.With().Str("room", match.Code()).Logger(),
		match:  match,
		events: make(chan Event, 256),
		done:   make(chan struct{}),
	}
	go r.run()

	r.mu.Lock()
	r.scheduleBotLocked()
	r.mu.Unlock()

	r.log.Info().Str("phase", string(match.Phase())).Msg("room actor started")
	return r
}

func (r *Room) run() {
	ticker := time.NewTicker(r.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case e := <-r.events:
			seat, err := r.handleEvent(e)
			if e.Reply != nil {
				e.Reply <- Reply{Seat: seat, Err: err}
			}
		case <-ticker.C:
			r.tick()
		case <-r.done:
			r.log.Info().Msg("room actor stopped")
			return
		}
	}
}

func (r *Room) handleEvent(e Event) (wordy.Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed && e.Type != EventClose {
		return wordy.NoSeat, ErrRoomClosed
	}

	var (
		seat = e.Seat
		err  error
	)
	switch e.Type {
	case EventJoin:
		seat, err = r.handleJoin(e.Name)
	case EventAttach:
		err = r.handleAttach(e.Seat, e.Exclusive)
	case EventPresence:
		err = r.handlePresence(e.Seat, e.Online)
	case EventReady:
		err = r.handleReady(e.Seat)
	case EventSubmitWord:
		err = r.handleSubmitWord(e.Seat, e.Word)
	case EventSwapTiles:
		err = r.handleSwapTiles(e.Seat, e.TileIDs)
	case EventUseCard:
		err = r.handleUseCard(e.Seat, e.CardID, e.Input)
	case EventRespond:
		err = r.handleRespond(e.Seat, e.Response)
	case EventGuess:
		err = r.handleGuess(e.Seat, e.Word)
	case EventReset:
		err = r.handleReset(e.Seat)
	case EventBotMove:
		err = r.handleBotMove(e)
	case EventClose:
		r.broadcastClosedLocked()
		r.stopLocked()
		return wordy.NoSeat, nil
	default:
		return wordy.NoSeat, fmt.Errorf("unknown event type: %d", e.Type)
	}

	if err != nil {
		r.log.Debug().Err(err).Str("event", e.Type.String()).Int("seat", int(e.Seat)).Msg("action rejected")
	}
	r.scheduleBotLocked()
	return seat, err
}

func (r *Room) tick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if _, ok := r.match.Pending(); !ok {
		return
	}
	var (
		res     wordy.CardResult
		expired bool
	)
	err := r.mutateLocked(func(m *wordy.Match) error {
		res, expired = m.ExpirePending(time.Now())
		return nil
	})
	if err != nil {
		r.log.Error().Err(err).Msg("pending expiry failed")
		return
	}
	if !expired {
		return
	}
	r.log.Info().Str("card", res.Card.ID).Int("target", int(res.Target)).Msg("pending card expired")
	r.broadcastCardCompletedLocked(res)
	r.scheduleBotLocked()
}

// mutateLocked runs fn and persists the result. When fn changed nothing the
// store is not touched. When the store fails, the match is rebuilt from the
// pre-mutation snapshot.
func (r *Room) mutateLocked(fn func(m *wordy.Match) error) error {
	before := r.match.Snapshot()
	if err := fn(r.match); err != nil {
		return err
	}
	if r.match.Version() == before.Version {
		return nil
	}
	if r.opts.Store == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := r.opts.Store.SaveRoom(ctx, r.match.Snapshot()); err != nil {
		r.log.Error().Err(err).Uint64("version", before.Version).Msg("persist failed, rolling back")
		restored, rerr := wordy.Restore(before, r.opts.Rules)
		if rerr != nil {
			r.log.Error().Err(rerr).Msg("rollback failed")
		} else {
			r.match = restored
		}
		return wordy.Internal(err)
	}
	return nil
}

// SubmitEvent sends an event to the actor and waits for its reply.
func (r *Room) SubmitEvent(e Event) (Reply, error) {
	e.Timestamp = time.Now()
	if e.Reply == nil {
		e.Reply = make(chan Reply, 1)
	}

	r.mu.RLock()
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return Reply{Seat: wordy.NoSeat}, ErrRoomClosed
	}

	select {
	case r.events <- e:
	case <-r.done:
		return Reply{Seat: wordy.NoSeat}, ErrRoomClosed
	}

	select {
	case rep := <-e.Reply:
		return rep, rep.Err
	case <-r.done:
		return Reply{Seat: wordy.NoSeat}, ErrRoomClosed
	}
}

// Attach binds a connection to seat and resyncs it.
func (r *Room) Attach(seat wordy.Seat, exclusive bool) error {
	_, err := r.SubmitEvent(Event{Type: EventAttach, Seat: seat, Exclusive: exclusive})
	return err
}

// SetPresence marks seat online or offline.
func (r *Room) SetPresence(seat wordy.Seat, online bool) error {
	_, err := r.SubmitEvent(Event{Type: EventPresence, Seat: seat, Online: online})
	return err
}

// Join seats a human player and returns the seat.
func (r *Room) Join(name string) (wordy.Seat, error) {
	rep, err := r.SubmitEvent(Event{Type: EventJoin, Name: name})
	return rep.Seat, err
}

// Stop shuts the actor down without notifying connections.
func (r *Room) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

// Close notifies every connection and stops the actor.
func (r *Room) Close() {
	if _, err := r.SubmitEvent(Event{Type: EventClose}); err != nil && !errors.Is(err, ErrRoomClosed) {
		r.log.Warn().Err(err).Msg("close failed")
	}
}

func (r *Room) stopLocked() {
	r.closed = true
	r.stopOnce.Do(func() {
		if r.opts.Bots != nil {
			r.opts.Bots.Despawn(r.code)
		}
		close(r.done)
	})
}

func (r *Room) Code() string { return r.code }

// Version is the current match version, the seq of the latest broadcast.
func (r *Room) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.match.Version()
}

func (r *Room) IsClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

// IsIdleFor reports whether nothing happened in the room for ttl as of now.
func (r *Room) IsIdleFor(now time.Time, ttl time.Duration) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return true
	}
	return now.Sub(r.match.UpdatedAt()) >= ttl
}

// Snapshot returns the full document, secrets included.
func (r *Room) Snapshot() wordy.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.match.Snapshot()
}

// View returns the room as seen by seat.
func (r *Room) View(seat wordy.Seat) wordy.View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.match.ViewFor(seat)
}

// PublicView returns the room with both secrets hidden.
func (r *Room) PublicView() wordy.View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.match.PublicView()
}

// SeatByName resolves a player name to a seat.
func (r *Room) SeatByName(name string) (wordy.Seat, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.match.SeatByName(name)
}
