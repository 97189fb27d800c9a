package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/FCamaggi/aLittleWordy/apps/server/internal/config"
	"github.com/FCamaggi/aLittleWordy/wordy"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
)

const (
	defaultEventLimit = 200
	maxEventLimit     = 1000
)

// Service persists room documents and the per-room broadcast log.
type Service interface {
	Close() error

	// CreateRoom inserts a new room and fails with ErrExists when the code is
	// taken.
	CreateRoom(ctx context.Context, snap wordy.Snapshot) error
	// SaveRoom upserts the room document. Older versions never overwrite newer
	// ones.
	SaveRoom(ctx context.Context, snap wordy.Snapshot) error
	LoadRoom(ctx context.Context, code string) (wordy.Snapshot, error)
	DeleteRoom(ctx context.Context, code string) error

	AppendEvent(ctx context.Context, ev EventRecord) error
	ListEvents(ctx context.Context, code string, after uint64, limit int) ([]EventRecord, error)

	// PurgeIdle deletes rooms (and their events) not updated since before and
	// returns their codes.
	PurgeIdle(ctx context.Context, before time.Time) ([]string, error)
}

// EventRecord is one persisted server envelope.
type EventRecord struct {
	Room       string          `json:"room"`
	Seq        uint64          `json:"seq"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	ServerTsMs int64           `json:"tsMs"`
}

// NewFromConfig opens the store selected by cfg.StoreMode.
func NewFromConfig(cfg config.Config) (Service, string, error) {
	switch cfg.StoreMode {
	case config.StoreModeMemory:
		return NewMemoryService(), cfg.StoreMode, nil
	case config.StoreModeSQLite:
		s, err := NewSQLiteService(cfg.SQLitePath)
		if err != nil {
			return nil, cfg.StoreMode, err
		}
		return s, cfg.StoreMode, nil
	case config.StoreModePostgres:
		s, err := NewPostgresService(cfg.DatabaseURL)
		if err != nil {
			return nil, cfg.StoreMode, err
		}
		return s, cfg.StoreMode, nil
	default:
		return nil, cfg.StoreMode, fmt.Errorf("invalid store mode %q", cfg.StoreMode)
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultEventLimit
	}
	if limit > maxEventLimit {
		return maxEventLimit
	}
	return limit
}

func encodeSnapshot(snap wordy.Snapshot) ([]byte, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode room %s: %w", snap.Code, err)
	}
	return raw, nil
}

func decodeSnapshot(code string, raw []byte) (wordy.Snapshot, error) {
	var snap wordy.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return wordy.Snapshot{}, fmt.Errorf("decode room %s: %w", code, err)
	}
	return snap, nil
}

func nullablePayload(p json.RawMessage) []byte {
	if len(p) == 0 {
		return []byte("null")
	}
	return p
}
