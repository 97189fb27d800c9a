package npc

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/FCamaggi/aLittleWordy/tile"
	"github.com/FCamaggi/aLittleWordy/wordy"
)

// Bot is a seated bot player.
type Bot struct {
	Room    string
	Seat    wordy.Seat
	Persona *Persona
	Brain   Brain

	word string
}

// Manager tracks bots across rooms, one bot per room at most.
type Manager struct {
	registry *PersonaRegistry
	tiles    *tile.Generator

	mu   sync.Mutex
	bots map[string]*Bot // keyed by room code
	rng  *rand.Rand

	thinkMin time.Duration
	thinkMax time.Duration
}

// NewManager creates a bot manager. seed 0 => time-based.
func NewManager(registry *PersonaRegistry, seed uint64, thinkMin, thinkMax time.Duration) *Manager {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if thinkMax < thinkMin {
		thinkMax = thinkMin
	}
	return &Manager{
		registry: registry,
		tiles:    tile.NewGenerator(seed + 1),
		bots:     make(map[string]*Bot),
		rng:      rand.New(rand.NewSource(seed)),
		thinkMin: thinkMin,
		thinkMax: thinkMax,
	}
}

// Spawn seats a bot in match using the given persona (the default one when
// personaID is unknown) and deals its hand.
func (m *Manager) Spawn(match *wordy.Match, personaID string) (*Bot, error) {
	persona := m.registry.Get(personaID)
	if persona == nil {
		persona = &Persona{ID: "bot", Name: "Bot", Brain: DefaultProfile}
	}

	seat, err := match.Join(persona.Name, true)
	if err != nil {
		return nil, fmt.Errorf("spawn bot %s in room %s: %w", persona.Name, match.Code(), err)
	}

	m.mu.Lock()
	bot := &Bot{
		Room:    match.Code(),
		Seat:    seat,
		Persona: persona,
		Brain:   NewRuleBrain(persona, m.rng.Uint64()),
	}
	m.bots[bot.Room] = bot
	m.mu.Unlock()

	if _, err := m.Prepare(match); err != nil {
		return nil, err
	}
	log.Info().Str("room", bot.Room).Str("persona", persona.ID).Int("seat", int(seat)).Msg("bot spawned")
	return bot, nil
}

// Adopt registers the bot already seated at seat of a restored match. The
// persona is matched by display name.
func (m *Manager) Adopt(match *wordy.Match, seat wordy.Seat) (*Bot, error) {
	snap := match.Snapshot()
	if seat < 0 || int(seat) >= len(snap.Players) || !snap.Players[seat].Bot {
		return nil, fmt.Errorf("room %s has no bot at seat %d", match.Code(), seat)
	}
	me := snap.Players[seat]
	persona := &Persona{ID: "bot", Name: me.Name, Brain: DefaultProfile}
	for _, p := range m.registry.All() {
		if p.Name == me.Name {
			persona = p
			break
		}
	}

	m.mu.Lock()
	bot := &Bot{
		Room:    match.Code(),
		Seat:    seat,
		Persona: persona,
		Brain:   NewRuleBrain(persona, m.rng.Uint64()),
		word:    me.SecretWord,
	}
	m.bots[bot.Room] = bot
	m.mu.Unlock()
	return bot, nil
}

// Get returns the bot seated in room, or nil.
func (m *Manager) Get(room string) *Bot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bots[wordy.NormalizeCode(room)]
}

// IsBot reports whether seat of room is played by a bot.
func (m *Manager) IsBot(room string, seat wordy.Seat) bool {
	b := m.Get(room)
	return b != nil && b.Seat == seat
}

// Despawn forgets the bot of room.
func (m *Manager) Despawn(room string) {
	room = wordy.NormalizeCode(room)
	m.mu.Lock()
	bot := m.bots[room]
	delete(m.bots, room)
	m.mu.Unlock()
	if bot != nil {
		log.Info().Str("room", room).Msg("bot despawned")
	}
}

// Prepare runs the bot's setup chores: a hand built from its word in the
// lobby, and the word submission once setup starts. It reports whether the
// match changed.
func (m *Manager) Prepare(match *wordy.Match) (bool, error) {
	bot := m.Get(match.Code())
	if bot == nil {
		return false, nil
	}
	snap := match.Snapshot()
	if int(bot.Seat) >= len(snap.Players) {
		return false, nil
	}
	me := snap.Players[bot.Seat]

	switch snap.Phase {
	case wordy.PhaseLobby:
		if len(me.OriginalTiles) > 0 && me.OriginalTiles.CanSpell(bot.word) {
			return false, nil
		}
		return true, m.deal(match, bot)
	case wordy.PhaseSetup:
		if me.WordSubmitted {
			return false, nil
		}
		if bot.word == "" || !me.OriginalTiles.CanSpell(bot.word) {
			if err := m.deal(match, bot); err != nil {
				return false, err
			}
		}
		if err := match.SubmitWord(bot.Seat, bot.word); err != nil {
			return true, fmt.Errorf("bot submit word: %w", err)
		}
		return true, nil
	}
	return false, nil
}

func (m *Manager) deal(match *wordy.Match, bot *Bot) error {
	m.mu.Lock()
	word := PickWord(m.rng)
	m.mu.Unlock()

	hand, err := m.tiles.HandForWord(word)
	if err != nil {
		return fmt.Errorf("bot hand for %s: %w", word, err)
	}
	if err := match.AssignHand(bot.Seat, hand); err != nil {
		return fmt.Errorf("bot assign hand: %w", err)
	}
	bot.word = word
	return nil
}

// Decide asks the room's bot what to do on snap. ok is false when the bot has
// nothing to do.
func (m *Manager) Decide(room string, snap wordy.Snapshot) (Decision, bool) {
	bot := m.Get(room)
	if bot == nil {
		return Decision{}, false
	}
	d := bot.Brain.Decide(BuildView(snap, bot.Seat))
	if d.Kind == DecideNothing {
		return d, false
	}
	log.Debug().Str("room", bot.Room).Str("bot", bot.Brain.Name()).Int("kind", int(d.Kind)).
		Str("card", d.CardID).Msg("bot decided")
	return d, true
}

// ThinkDelay returns a cosmetic delay before the bot's next move.
func (m *Manager) ThinkDelay() time.Duration {
	span := m.thinkMax - m.thinkMin
	if span <= 0 {
		return m.thinkMin
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.thinkMin + time.Duration(m.rng.Int63n(int64(span)))
}

// Apply executes d directly on match. Used where no room actor is involved.
func Apply(match *wordy.Match, seat wordy.Seat, d Decision) error {
	var err error
	switch d.Kind {
	case DecideGuess:
		_, err = match.Guess(seat, d.Word)
	case DecideCard:
		_, err = match.UseCard(seat, d.CardID, d.Input)
	case DecideRespond:
		_, err = match.Respond(seat, d.Response)
	}
	return err
}
