package lobby

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/FCamaggi/aLittleWordy/apps/server/internal/room"
	"github.com/FCamaggi/aLittleWordy/apps/server/internal/store"
	"github.com/FCamaggi/aLittleWordy/wordy"
	"github.com/FCamaggi/aLittleWordy/wordy/npc"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 4
	codeAttempts = 10
)

var ErrNoFreeCode = errors.New("could not allocate a room code")

// Options configures a Lobby.
type Options struct {
	Rules        wordy.Config
	Store        store.Service
	Bots         *npc.Manager
	TickInterval time.Duration

	// Seed drives room codes and per-room seeds (0 => time-based).
	Seed uint64
}

// Lobby owns every live room actor and loads rooms back from the store on
// demand.
type Lobby struct {
	opts Options

	mu      sync.RWMutex
	rooms   map[string]*room.Room
	deliver room.Deliver

	rngMu sync.Mutex
	rng   *rand.Rand
}

func New(opts Options) *Lobby {
	if opts.Store == nil {
		opts.Store = store.NewMemoryService()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Lobby{
		opts:  opts,
		rooms: make(map[string]*room.Room),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// SetDeliver installs the transport callback used by rooms started later.
func (l *Lobby) SetDeliver(d room.Deliver) {
	l.mu.Lock()
	l.deliver = d
	l.mu.Unlock()
}

// Create opens a new room with name in seat 0. With vsBot a bot takes seat 1
// at once.
func (l *Lobby) Create(ctx context.Context, name string, vsBot bool, persona string) (*room.Room, wordy.Seat, error) {
	if vsBot && l.opts.Bots == nil {
		return nil, wordy.NoSeat, fmt.Errorf("bot rooms are disabled")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for attempt := 0; attempt < codeAttempts; attempt++ {
		code := l.newCode()
		if _, taken := l.rooms[code]; taken {
			continue
		}
		match, err := wordy.NewMatch(code, l.roomRules())
		if err != nil {
			return nil, wordy.NoSeat, wordy.Internal(err)
		}
		seat, err := match.Join(name, false)
		if err != nil {
			return nil, wordy.NoSeat, err
		}

		err = l.opts.Store.CreateRoom(ctx, match.Snapshot())
		if errors.Is(err, store.ErrExists) {
			continue
		}
		if err != nil {
			return nil, wordy.NoSeat, wordy.Internal(err)
		}

		if vsBot {
			if err := l.seatBot(ctx, match, persona); err != nil {
				_ = l.opts.Store.DeleteRoom(ctx, code)
				return nil, wordy.NoSeat, wordy.Internal(err)
			}
		}

		r := l.startLocked(match)
		log.Info().Str("room", code).Str("player", name).Bool("vsBot", vsBot).Msg("room created")
		return r, seat, nil
	}
	return nil, wordy.NoSeat, wordy.Internal(ErrNoFreeCode)
}

func (l *Lobby) seatBot(ctx context.Context, match *wordy.Match, persona string) error {
	if _, err := l.opts.Bots.Spawn(match, persona); err != nil {
		l.opts.Bots.Despawn(match.Code())
		return err
	}
	if err := l.opts.Store.SaveRoom(ctx, match.Snapshot()); err != nil {
		l.opts.Bots.Despawn(match.Code())
		return err
	}
	return nil
}

// Join seats name in the room with code.
func (l *Lobby) Join(ctx context.Context, code, name string) (*room.Room, wordy.Seat, error) {
	r, err := l.Get(ctx, code)
	if err != nil {
		return nil, wordy.NoSeat, err
	}
	seat, err := r.Join(name)
	if err != nil {
		return nil, wordy.NoSeat, err
	}
	return r, seat, nil
}

// Get returns the live room, restoring it from the store when needed.
func (l *Lobby) Get(ctx context.Context, code string) (*room.Room, error) {
	code = wordy.NormalizeCode(code)
	if code == "" {
		return nil, wordy.ErrRoomNotFound
	}

	l.mu.RLock()
	r := l.rooms[code]
	l.mu.RUnlock()
	if r != nil && !r.IsClosed() {
		return r, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if r := l.rooms[code]; r != nil && !r.IsClosed() {
		return r, nil
	}
	delete(l.rooms, code)

	snap, err := l.opts.Store.LoadRoom(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, wordy.ErrRoomNotFound
	}
	if err != nil {
		return nil, wordy.Internal(err)
	}
	match, err := wordy.Restore(snap, l.roomRules())
	if err != nil {
		return nil, wordy.Internal(err)
	}
	if l.opts.Bots != nil {
		for i, p := range snap.Players {
			if !p.Bot {
				continue
			}
			if _, err := l.opts.Bots.Adopt(match, wordy.Seat(i)); err != nil {
				log.Error().Err(err).Str("room", code).Msg("adopt bot failed")
			}
		}
	}
	log.Info().Str("room", code).Uint64("version", snap.Version).Msg("room restored")
	return l.startLocked(match), nil
}

// Live returns the room only when its actor is running; it never loads.
func (l *Lobby) Live(code string) (*room.Room, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r := l.rooms[wordy.NormalizeCode(code)]
	if r == nil || r.IsClosed() {
		return nil, false
	}
	return r, true
}

// Events returns the persisted broadcast log of a room after seq.
func (l *Lobby) Events(ctx context.Context, code string, after uint64, limit int) ([]store.EventRecord, error) {
	events, err := l.opts.Store.ListEvents(ctx, code, after, limit)
	if errors.Is(err, store.ErrNotFound) {
		return nil, wordy.ErrRoomNotFound
	}
	if err != nil {
		return nil, wordy.Internal(err)
	}
	return events, nil
}

// Delete closes the room and removes its document.
func (l *Lobby) Delete(ctx context.Context, code string) error {
	code = wordy.NormalizeCode(code)

	l.mu.Lock()
	r := l.rooms[code]
	delete(l.rooms, code)
	l.mu.Unlock()

	if r != nil {
		r.Close()
	}
	err := l.opts.Store.DeleteRoom(ctx, code)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if r == nil {
			return wordy.ErrRoomNotFound
		}
	case err != nil:
		return wordy.Internal(err)
	}
	log.Info().Str("room", code).Msg("room deleted")
	return nil
}

// Sweep purges rooms idle for longer than ttl and stops their actors.
func (l *Lobby) Sweep(ctx context.Context, now time.Time, ttl time.Duration) ([]string, error) {
	codes, err := l.opts.Store.PurgeIdle(ctx, now.Add(-ttl))
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	var stale []*room.Room
	for _, code := range codes {
		if r := l.rooms[code]; r != nil {
			stale = append(stale, r)
			delete(l.rooms, code)
		}
	}
	// Rooms the store kept but this process has not touched for ttl are
	// unloaded; Get restores them on demand.
	var unload []*room.Room
	for code, r := range l.rooms {
		switch {
		case r.IsClosed():
			delete(l.rooms, code)
		case r.IsIdleFor(now, ttl):
			unload = append(unload, r)
			delete(l.rooms, code)
		}
	}
	l.mu.Unlock()

	for _, r := range stale {
		r.Close()
	}
	for _, r := range unload {
		r.Stop()
		log.Info().Str("room", r.Code()).Msg("room unloaded")
	}
	for _, code := range codes {
		log.Info().Str("room", code).Dur("ttl", ttl).Msg("room expired")
	}
	return codes, nil
}

// Run sweeps every interval until ctx is done.
func (l *Lobby) Run(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			if _, err := l.Sweep(sctx, now, ttl); err != nil {
				log.Error().Err(err).Msg("room sweep failed")
			}
			cancel()
		}
	}
}

// Codes lists the live rooms.
func (l *Lobby) Codes() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	codes := make([]string, 0, len(l.rooms))
	for code := range l.rooms {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Shutdown stops every actor.
func (l *Lobby) Shutdown() {
	l.mu.Lock()
	rooms := l.rooms
	l.rooms = make(map[string]*room.Room)
	l.mu.Unlock()
	for _, r := range rooms {
		r.Stop()
	}
}

func (l *Lobby) startLocked(match *wordy.Match) *room.Room {
	r := room.New(match, room.Options{
		Rules:        l.opts.Rules,
		Store:        l.opts.Store,
		Bots:         l.opts.Bots,
		Deliver:      l.deliver,
		TickInterval: l.opts.TickInterval,
	})
	l.rooms[match.Code()] = r
	return r
}

func (l *Lobby) roomRules() wordy.Config {
	rules := l.opts.Rules
	l.rngMu.Lock()
	rules.Seed = l.rng.Uint64()
	l.rngMu.Unlock()
	return rules
}

func (l *Lobby) newCode() string {
	l.rngMu.Lock()
	defer l.rngMu.Unlock()
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[l.rng.Intn(len(codeAlphabet))]
	}
	return string(b)
}
