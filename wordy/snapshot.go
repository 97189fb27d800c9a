package wordy

import (
	"fmt"
	"time"

	"github.com/FCamaggi/aLittleWordy/card"
)

// Snapshot is the full match document. It is what gets persisted and what
// Restore rebuilds a match from; it carries both secret words.
type Snapshot struct {
	Code    string `json:"roomCode"`
	Version uint64 `json:"version"`
	Phase   Phase  `json:"phase"`

	Players []Player `json:"players"`
	Turn    Seat     `json:"currentTurn"`

	ActiveCards card.List      `json:"activeCards"`
	Pending     *PendingAction `json:"pendingCardAction"`
	History     []string       `json:"history"`

	Winner    Seat   `json:"winner"`
	WinReason string `json:"winReason"`
	Waiting   bool   `json:"waitingForOpponentGuess"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View is a snapshot as seen by one seat (or by nobody, for NoSeat).
type View struct {
	Viewer Seat `json:"viewer"`
	Snapshot
}

func (m *Match) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Match) snapshotLocked() Snapshot {
	s := Snapshot{
		Code:        m.code,
		Version:     m.version,
		Phase:       m.phase,
		Turn:        m.turn,
		ActiveCards: m.deck.Clone(),
		History:     append([]string(nil), m.history...),
		Winner:      m.winner,
		WinReason:   m.reason,
		Waiting:     m.waiting,
		CreatedAt:   m.createdAt,
		UpdatedAt:   m.updatedAt,
	}
	for _, p := range m.players {
		s.Players = append(s.Players, p.clone())
	}
	if m.pending != nil {
		pa := *m.pending
		s.Pending = &pa
	}
	return s
}

// ViewFor hides the opponent's secret word and original tiles until the game
// is over.
func (m *Match) ViewFor(seat Seat) View {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.snapshotLocked()
	if s.Phase != PhaseGameOver {
		for i := range s.Players {
			if Seat(i) != seat {
				redact(&s.Players[i])
			}
		}
	}
	return View{Viewer: seat, Snapshot: s}
}

// PublicView hides both secrets; used for room lookups.
func (m *Match) PublicView() View {
	return m.ViewFor(NoSeat)
}

func redact(p *Player) {
	p.SecretWord = ""
	p.OriginalTiles = nil
}

// Restore rebuilds a match from a persisted snapshot. The RNG is reseeded
// from cfg, so later draws do not replay the original sequence.
func Restore(s Snapshot, cfg Config) (*Match, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if NormalizeCode(s.Code) == "" {
		return nil, fmt.Errorf("snapshot has no room code")
	}
	if !s.Phase.valid() {
		return nil, fmt.Errorf("snapshot has invalid phase %q", s.Phase)
	}
	if len(s.Players) > MaxPlayers {
		return nil, fmt.Errorf("snapshot has %d players", len(s.Players))
	}
	if s.Phase != PhaseLobby && len(s.Players) != MaxPlayers {
		return nil, fmt.Errorf("snapshot in %s needs %d players", s.Phase, MaxPlayers)
	}
	if s.Phase == PhaseGameLoop && !s.Turn.valid() {
		return nil, fmt.Errorf("snapshot in %s has no turn holder", s.Phase)
	}
	if s.Phase == PhaseGameLoop {
		for i, p := range s.Players {
			if p.SecretWord == "" {
				return nil, fmt.Errorf("snapshot in %s has no secret word for seat %d", s.Phase, i)
			}
		}
	}
	if pa := s.Pending; pa != nil {
		if s.Phase != PhaseGameLoop {
			return nil, fmt.Errorf("snapshot in %s has a pending action", s.Phase)
		}
		if !pa.UsedBy.valid() || pa.Target != pa.UsedBy.Other() {
			return nil, fmt.Errorf("snapshot pending action has seats %d -> %d", pa.UsedBy, pa.Target)
		}
		if _, ok := card.ByID(pa.CardID); !ok {
			return nil, fmt.Errorf("snapshot pending action has unknown card %q", pa.CardID)
		}
	}
	for _, c := range s.ActiveCards {
		if _, ok := card.ByID(c.ID); !ok {
			return nil, fmt.Errorf("snapshot has unknown card %q", c.ID)
		}
	}

	m := newMatch(cfg)
	m.code = NormalizeCode(s.Code)
	m.version = s.Version
	m.phase = s.Phase
	for i := range s.Players {
		p := s.Players[i].clone()
		m.players = append(m.players, &p)
	}
	m.turn = s.Turn
	m.deck = s.ActiveCards.Clone()
	if s.Pending != nil {
		pa := *s.Pending
		m.pending = &pa
	}
	m.history = append([]string(nil), s.History...)
	m.winner = s.Winner
	m.reason = s.WinReason
	m.waiting = s.Waiting
	m.createdAt = s.CreatedAt
	m.updatedAt = s.UpdatedAt
	return m, nil
}
