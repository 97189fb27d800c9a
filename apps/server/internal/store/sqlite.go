package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/FCamaggi/aLittleWordy/wordy"
)

type SQLiteService struct {
	db *sql.DB
}

func NewSQLiteService(dbPath string) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteService{db: db}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) CreateRoom(ctx context.Context, snap wordy.Snapshot) error {
	doc, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()
	_, err = s.db.ExecContext(ctx, `
INSERT INTO rooms (code, version, phase, document, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?, ?)
`, wordy.NormalizeCode(snap.Code), int64(snap.Version), string(snap.Phase), string(doc), nowMs, snap.UpdatedAt.UTC().UnixMilli())
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrExists
		}
		return fmt.Errorf("create room %s: %w", snap.Code, err)
	}
	return nil
}

func (s *SQLiteService) SaveRoom(ctx context.Context, snap wordy.Snapshot) error {
	doc, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()
	_, err = s.db.ExecContext(ctx, `
INSERT INTO rooms (code, version, phase, document, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (code) DO UPDATE
SET
    version = excluded.version,
    phase = excluded.phase,
    document = excluded.document,
    updated_at_ms = excluded.updated_at_ms
WHERE rooms.version <= excluded.version
`, wordy.NormalizeCode(snap.Code), int64(snap.Version), string(snap.Phase), string(doc), nowMs, snap.UpdatedAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save room %s: %w", snap.Code, err)
	}
	return nil
}

func (s *SQLiteService) LoadRoom(ctx context.Context, code string) (wordy.Snapshot, error) {
	code = wordy.NormalizeCode(code)
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM rooms WHERE code = ?`, code).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return wordy.Snapshot{}, ErrNotFound
		}
		return wordy.Snapshot{}, fmt.Errorf("load room %s: %w", code, err)
	}
	return decodeSnapshot(code, []byte(doc))
}

func (s *SQLiteService) DeleteRoom(ctx context.Context, code string) error {
	code = wordy.NormalizeCode(code)
	res, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("delete room %s: %w", code, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteService) AppendEvent(ctx context.Context, ev EventRecord) error {
	code := wordy.NormalizeCode(ev.Room)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO room_events (room_code, seq, event_type, payload_json, server_ts_ms, created_at_ms)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (room_code, seq) DO NOTHING
`, code, int64(ev.Seq), ev.Type, string(nullablePayload(ev.Payload)), ev.ServerTsMs, time.Now().UTC().UnixMilli())
	if err != nil {
		if isSQLiteForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("append event %s/%d: %w", code, ev.Seq, err)
	}
	return nil
}

func (s *SQLiteService) ListEvents(ctx context.Context, code string, after uint64, limit int) ([]EventRecord, error) {
	code = wordy.NormalizeCode(code)
	limit = normalizeLimit(limit)

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM rooms WHERE code = ?)`, code).Scan(&exists); err != nil {
		return nil, fmt.Errorf("list events %s: %w", code, err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT seq, event_type, payload_json, server_ts_ms
FROM room_events
WHERE room_code = ?
  AND seq > ?
ORDER BY seq ASC
LIMIT ?
`, code, int64(after), limit)
	if err != nil {
		return nil, fmt.Errorf("list events %s: %w", code, err)
	}
	defer rows.Close()

	events := make([]EventRecord, 0, limit)
	for rows.Next() {
		var (
			seq     int64
			payload string
			ev      = EventRecord{Room: code}
		)
		if err := rows.Scan(&seq, &ev.Type, &payload, &ev.ServerTsMs); err != nil {
			return nil, err
		}
		ev.Seq = uint64(seq)
		ev.Payload = []byte(payload)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *SQLiteService) PurgeIdle(ctx context.Context, before time.Time) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	cutoff := before.UTC().UnixMilli()
	rows, err := tx.QueryContext(ctx, `SELECT code FROM rooms WHERE updated_at_ms < ? ORDER BY code`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("purge idle rooms: %w", err)
	}
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			rows.Close()
			return nil, err
		}
		codes = append(codes, code)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE updated_at_ms < ?`, cutoff); err != nil {
		return nil, fmt.Errorf("purge idle rooms: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return codes, nil
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS rooms (
    code TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    phase TEXT NOT NULL,
    document TEXT NOT NULL,
    created_at_ms INTEGER NOT NULL,
    updated_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_rooms_updated_at ON rooms(updated_at_ms)`,
		`
CREATE TABLE IF NOT EXISTS room_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    room_code TEXT NOT NULL REFERENCES rooms(code) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    event_type TEXT NOT NULL,
    payload_json TEXT NOT NULL DEFAULT 'null',
    server_ts_ms INTEGER NOT NULL DEFAULT 0,
    created_at_ms INTEGER NOT NULL,
    UNIQUE (room_code, seq)
)`,
		`CREATE INDEX IF NOT EXISTS idx_room_events_room_seq ON room_events(room_code, seq)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func isSQLiteUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func isSQLiteForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}
