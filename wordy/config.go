package wordy

import (
	"fmt"
	"time"

	"github.com/FCamaggi/aLittleWordy/tile"
)

type Config struct {
	// RNG seed for hands and decks (0 => time-based)
	Seed uint64

	MaxWordLen     int
	MaxNameLen     int
	MaxResponseLen int

	// Tokens paid to the opponent for a wrong guess.
	GuessPenalty int

	// Tiles a player may replace during setup.
	SwapsPerPlayer int

	// Optional: pending card expiry (0 disables)
	PendingTimeout time.Duration

	// Optional word predicate checked at submission; nil accepts any word.
	ValidWord func(string) bool

	Now func() time.Time
}

// DefaultConfig returns the rules used by the server.
func DefaultConfig() Config {
	return Config{
		MaxWordLen:     tile.HandSize,
		MaxNameLen:     20,
		MaxResponseLen: 40,
		GuessPenalty:   2,
		SwapsPerPlayer: 2,
		PendingTimeout: 2 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxWordLen == 0 {
		c.MaxWordLen = d.MaxWordLen
	}
	if c.MaxNameLen == 0 {
		c.MaxNameLen = d.MaxNameLen
	}
	if c.MaxResponseLen == 0 {
		c.MaxResponseLen = d.MaxResponseLen
	}
	if c.GuessPenalty == 0 {
		c.GuessPenalty = d.GuessPenalty
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

func (c Config) validate() error {
	if c.MaxWordLen <= 0 || c.MaxWordLen > tile.HandSize {
		return fmt.Errorf("MaxWordLen must be in 1..%d", tile.HandSize)
	}
	if c.MaxNameLen <= 0 || c.MaxResponseLen <= 0 {
		return fmt.Errorf("length limits must be > 0")
	}
	if c.GuessPenalty < 0 {
		return fmt.Errorf("GuessPenalty must be >= 0")
	}
	if c.SwapsPerPlayer < 0 || c.SwapsPerPlayer > tile.HandSize {
		return fmt.Errorf("SwapsPerPlayer must be in 0..%d", tile.HandSize)
	}
	if c.PendingTimeout < 0 {
		return fmt.Errorf("PendingTimeout must be >= 0")
	}
	return nil
}
