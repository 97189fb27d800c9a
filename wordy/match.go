package wordy

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/exp/rand"

	"github.com/FCamaggi/aLittleWordy/card"
	"github.com/FCamaggi/aLittleWordy/tile"
)

// Match is the authoritative state of one room. Every exported method is an
// atomic read-modify-write: it validates fully, then mutates, then bumps the
// version. A rejected call leaves the match unchanged.
type Match struct {
	cfg   Config
	rng   *rand.Rand
	tiles *tile.Generator

	mu sync.Mutex

	code    string
	version uint64
	phase   Phase
	players []*Player

	turn    Seat
	deck    card.List
	pending *PendingAction
	history []string // newest first

	winner  Seat
	reason  string
	waiting bool

	createdAt time.Time
	updatedAt time.Time
}

func NewMatch(code string, cfg Config) (*Match, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	code = NormalizeCode(code)
	if code == "" {
		return nil, fmt.Errorf("room code is required")
	}
	now := cfg.Now()
	m := newMatch(cfg)
	m.code = code
	m.phase = PhaseLobby
	m.createdAt = now
	m.updatedAt = now
	return m, nil
}

func newMatch(cfg Config) *Match {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Match{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		tiles:  tile.NewGenerator(seed + 1),
		turn:   NoSeat,
		winner: NoSeat,
	}
}

// NormalizeCode makes room code lookups case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (m *Match) Code() string { return m.code }

func (m *Match) Version() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}

func (m *Match) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

func (m *Match) Turn() Seat {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turn
}

// UpdatedAt is the time of the last accepted mutation.
func (m *Match) UpdatedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updatedAt
}

// SeatByName finds a player's seat by display name (case-insensitive).
func (m *Match) SeatByName(name string) (Seat, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seatByNameLocked(name)
}

func (m *Match) seatByNameLocked(name string) (Seat, bool) {
	name = strings.TrimSpace(name)
	for i, p := range m.players {
		if strings.EqualFold(p.Name, name) {
			return Seat(i), true
		}
	}
	return NoSeat, false
}

// Join seats a new player in the lobby.
func (m *Match) Join(name string, bot bool) (Seat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return NoSeat, ErrEmptyName
	}
	if utf8.RuneCountInString(name) > m.cfg.MaxNameLen {
		return NoSeat, ErrNameTooLong
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseLobby {
		return NoSeat, ErrGameStarted
	}
	if len(m.players) >= MaxPlayers {
		return NoSeat, ErrRoomFull
	}
	if _, taken := m.seatByNameLocked(name); taken {
		return NoSeat, ErrNameTaken
	}
	m.players = append(m.players, &Player{
		Name:           name,
		Bot:            bot,
		Online:         bot,
		Ready:          bot,
		SwapsRemaining: m.cfg.SwapsPerPlayer,
	})
	seat := Seat(len(m.players) - 1)
	m.maybeStartSetup()
	m.touch()
	return seat, nil
}

// HasSeat reports whether seat is occupied.
func (m *Match) HasSeat(seat Seat) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.player(seat) != nil
}

// SetOnline records presence. It reports whether anything changed.
func (m *Match) SetOnline(seat Seat, online bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.player(seat)
	if p == nil || p.Online == online {
		return false
	}
	p.Online = online
	m.touch()
	return true
}

// AssignHand installs a prepared hand for seat before its word is submitted.
// Bots use it so their word is always buildable.
func (m *Match) AssignHand(seat Seat, hand tile.List) error {
	if len(hand) != tile.HandSize ||
		hand.CountKind(tile.KindVowel) != tile.HandVowels ||
		hand.CountKind(tile.KindConsonant) != tile.HandConsonants {
		return validationf("hand must have %d vowels and %d consonants", tile.HandVowels, tile.HandConsonants)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.player(seat)
	if p == nil {
		return ErrPlayerNotFound
	}
	if m.phase != PhaseLobby && m.phase != PhaseSetup {
		return ErrWrongPhase
	}
	if p.WordSubmitted {
		return ErrHandLocked
	}
	p.OriginalTiles = hand.Clone()
	m.touch()
	return nil
}

// Ready marks seat ready. With two ready players the match enters SETUP and
// every player without a hand receives one.
func (m *Match) Ready(seat Seat) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.player(seat)
	if p == nil {
		return ErrPlayerNotFound
	}
	if m.phase != PhaseLobby {
		return ErrGameStarted
	}
	if p.Ready {
		return ErrAlreadyReady
	}
	p.Ready = true
	m.maybeStartSetup()
	m.touch()
	return nil
}

// maybeStartSetup is also run when a bot joins already ready.
func (m *Match) maybeStartSetup() {
	if m.phase != PhaseLobby || len(m.players) != MaxPlayers {
		return
	}
	for _, p := range m.players {
		if !p.Ready {
			return
		}
	}
	for _, p := range m.players {
		if len(p.OriginalTiles) == 0 {
			p.OriginalTiles = m.tiles.DrawHand()
		}
	}
	m.phase = PhaseSetup
	m.log("Both players are ready. Build your secret words.")
}

// SwapTiles replaces the given tiles of seat's original hand with fresh ones of
// the same kind.
func (m *Match) SwapTiles(seat Seat, tileIDs []string) error {
	if len(tileIDs) == 0 {
		return validationf("no tiles to swap")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.player(seat)
	if p == nil {
		return ErrPlayerNotFound
	}
	if m.phase != PhaseSetup {
		return ErrWrongPhase
	}
	if p.WordSubmitted {
		return ErrWordSubmitted
	}
	if len(tileIDs) > p.SwapsRemaining {
		return ErrNoSwapsLeft
	}
	idx := make([]int, 0, len(tileIDs))
	seen := make(map[string]bool, len(tileIDs))
	for _, id := range tileIDs {
		i := p.OriginalTiles.IndexOf(id)
		if i < 0 || seen[id] {
			return ErrUnknownTile
		}
		seen[id] = true
		idx = append(idx, i)
	}

	for _, i := range idx {
		p.OriginalTiles[i] = m.tiles.DrawReplacement(p.OriginalTiles[i].Kind)
	}
	p.SwapsRemaining -= len(idx)
	m.log(fmt.Sprintf("%s swapped %d tile(s).", p.Name, len(idx)))
	m.touch()
	return nil
}

// SubmitWord fixes seat's secret word. When both words are in, tiles are
// swapped, the deck is drawn and the game loop starts with seat 0.
func (m *Match) SubmitWord(seat Seat, word string) error {
	word, err := m.normalizeWord(word)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.player(seat)
	if p == nil {
		return ErrPlayerNotFound
	}
	if m.phase != PhaseSetup {
		return ErrWrongPhase
	}
	if p.WordSubmitted {
		return ErrWordSubmitted
	}
	if !p.OriginalTiles.CanSpell(word) {
		return ErrWordNotInHand
	}
	if m.cfg.ValidWord != nil && !m.cfg.ValidWord(word) {
		return ErrInvalidWord
	}

	p.SecretWord = word
	p.WordSubmitted = true
	m.log(fmt.Sprintf("%s submitted a secret word.", p.Name))
	m.maybeStartGame()
	m.touch()
	return nil
}

func (m *Match) maybeStartGame() {
	if m.phase != PhaseSetup || len(m.players) != MaxPlayers {
		return
	}
	a, b := m.players[0], m.players[1]
	if !a.WordSubmitted || !b.WordSubmitted {
		return
	}
	a.Tiles = m.shuffleTiles(b.OriginalTiles)
	b.Tiles = m.shuffleTiles(a.OriginalTiles)
	m.deck = card.BuildDeck(m.rng)
	m.turn = 0
	m.pending = nil
	m.phase = PhaseGameLoop
	m.log(fmt.Sprintf("The game begins. %s plays first.", a.Name))
}

// Reset starts a rematch with the same players.
func (m *Match) Reset(seat Seat) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.player(seat) == nil {
		return ErrPlayerNotFound
	}
	if m.phase != PhaseGameOver {
		return ErrNotGameOver
	}
	for i, p := range m.players {
		m.players[i] = &Player{
			Name:           p.Name,
			Bot:            p.Bot,
			Online:         p.Online,
			Ready:          p.Bot,
			SwapsRemaining: m.cfg.SwapsPerPlayer,
		}
	}
	m.phase = PhaseLobby
	m.turn = NoSeat
	m.deck = nil
	m.pending = nil
	m.history = nil
	m.winner = NoSeat
	m.reason = ""
	m.waiting = false
	m.log("Rematch! Get ready.")
	m.touch()
	return nil
}

func (m *Match) normalizeWord(word string) (string, error) {
	word = strings.ToUpper(strings.TrimSpace(word))
	n := utf8.RuneCountInString(word)
	if n < 1 || n > m.cfg.MaxWordLen {
		return "", ErrWordLength
	}
	return word, nil
}

func (m *Match) player(seat Seat) *Player {
	if seat < 0 || int(seat) >= len(m.players) {
		return nil
	}
	return m.players[seat]
}

func (m *Match) shuffleTiles(l tile.List) tile.List {
	out := l.Clone()
	m.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func (m *Match) log(lines ...string) {
	h := make([]string, 0, len(lines)+len(m.history))
	h = append(h, lines...)
	m.history = append(h, m.history...)
}

func (m *Match) touch() {
	m.version++
	m.updatedAt = m.cfg.Now()
}

func (m *Match) finish(winner Seat, reason string) {
	m.phase = PhaseGameOver
	m.winner = winner
	m.reason = reason
	m.pending = nil
	m.log(fmt.Sprintf("%s wins: %s. Words were %s and %s.",
		m.players[winner].Name, reason, m.players[0].SecretWord, m.players[1].SecretWord))
}
