package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/FCamaggi/aLittleWordy/wordy"
)

type PostgresService struct {
	db *sql.DB
}

func NewPostgresService(dsn string) (*PostgresService, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("empty postgres dsn")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensurePostgresSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresService{db: db}, nil
}

func (s *PostgresService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresService) CreateRoom(ctx context.Context, snap wordy.Snapshot) error {
	doc, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO rooms (code, version, phase, document, updated_at)
VALUES ($1, $2, $3, $4::jsonb, $5)
`, wordy.NormalizeCode(snap.Code), int64(snap.Version), string(snap.Phase), string(doc), snap.UpdatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrExists
		}
		return fmt.Errorf("create room %s: %w", snap.Code, err)
	}
	return nil
}

func (s *PostgresService) SaveRoom(ctx context.Context, snap wordy.Snapshot) error {
	doc, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO rooms (code, version, phase, document, updated_at)
VALUES ($1, $2, $3, $4::jsonb, $5)
ON CONFLICT (code) DO UPDATE
SET
    version = EXCLUDED.version,
    phase = EXCLUDED.phase,
    document = EXCLUDED.document,
    updated_at = EXCLUDED.updated_at
WHERE rooms.version <= EXCLUDED.version
`, wordy.NormalizeCode(snap.Code), int64(snap.Version), string(snap.Phase), string(doc), snap.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("save room %s: %w", snap.Code, err)
	}
	return nil
}

func (s *PostgresService) LoadRoom(ctx context.Context, code string) (wordy.Snapshot, error) {
	code = wordy.NormalizeCode(code)
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM rooms WHERE code = $1`, code).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return wordy.Snapshot{}, ErrNotFound
		}
		return wordy.Snapshot{}, fmt.Errorf("load room %s: %w", code, err)
	}
	return decodeSnapshot(code, doc)
}

func (s *PostgresService) DeleteRoom(ctx context.Context, code string) error {
	code = wordy.NormalizeCode(code)
	res, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("delete room %s: %w", code, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresService) AppendEvent(ctx context.Context, ev EventRecord) error {
	code := wordy.NormalizeCode(ev.Room)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO room_events (room_code, seq, event_type, payload_json, server_ts_ms)
VALUES ($1, $2, $3, $4::jsonb, $5)
ON CONFLICT (room_code, seq) DO NOTHING
`, code, int64(ev.Seq), ev.Type, string(nullablePayload(ev.Payload)), ev.ServerTsMs)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("append event %s/%d: %w", code, ev.Seq, err)
	}
	return nil
}

func (s *PostgresService) ListEvents(ctx context.Context, code string, after uint64, limit int) ([]EventRecord, error) {
	code = wordy.NormalizeCode(code)
	limit = normalizeLimit(limit)

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM rooms WHERE code = $1)`, code).Scan(&exists); err != nil {
		return nil, fmt.Errorf("list events %s: %w", code, err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT seq, event_type, payload_json, server_ts_ms
FROM room_events
WHERE room_code = $1
  AND seq > $2
ORDER BY seq ASC
LIMIT $3
`, code, int64(after), limit)
	if err != nil {
		return nil, fmt.Errorf("list events %s: %w", code, err)
	}
	defer rows.Close()

	events := make([]EventRecord, 0, limit)
	for rows.Next() {
		var (
			seq int64
			ev  = EventRecord{Room: code}
		)
		if err := rows.Scan(&seq, &ev.Type, &ev.Payload, &ev.ServerTsMs); err != nil {
			return nil, err
		}
		ev.Seq = uint64(seq)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *PostgresService) PurgeIdle(ctx context.Context, before time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
DELETE FROM rooms
WHERE updated_at < $1
RETURNING code
`, before.UTC())
	if err != nil {
		return nil, fmt.Errorf("purge idle rooms: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func ensurePostgresSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS rooms (
    code TEXT PRIMARY KEY,
    version BIGINT NOT NULL,
    phase TEXT NOT NULL,
    document JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_rooms_updated_at ON rooms(updated_at)`,
		`
CREATE TABLE IF NOT EXISTS room_events (
    id BIGSERIAL PRIMARY KEY,
    room_code TEXT NOT NULL REFERENCES rooms(code) ON DELETE CASCADE,
    seq BIGINT NOT NULL,
    event_type TEXT NOT NULL,
    payload_json JSONB NOT NULL DEFAULT 'null'::jsonb,
    server_ts_ms BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (room_code, seq)
)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return false
}
