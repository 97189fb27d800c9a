package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/FCamaggi/aLittleWordy/wordy"
)

type memoryRoom struct {
	version   uint64
	doc       []byte
	updatedAt time.Time
	events    []EventRecord
}

// MemoryService keeps everything in process memory. Documents are stored
// encoded so callers never share state with the store.
type MemoryService struct {
	mu    sync.RWMutex
	rooms map[string]*memoryRoom
}

func NewMemoryService() *MemoryService {
	return &MemoryService{rooms: make(map[string]*memoryRoom)}
}

func (s *MemoryService) Close() error { return nil }

func (s *MemoryService) CreateRoom(_ context.Context, snap wordy.Snapshot) error {
	code := wordy.NormalizeCode(snap.Code)
	doc, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; ok {
		return ErrExists
	}
	s.rooms[code] = &memoryRoom{version: snap.Version, doc: doc, updatedAt: snap.UpdatedAt}
	return nil
}

func (s *MemoryService) SaveRoom(_ context.Context, snap wordy.Snapshot) error {
	code := wordy.NormalizeCode(snap.Code)
	doc, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[code]
	if !ok {
		s.rooms[code] = &memoryRoom{version: snap.Version, doc: doc, updatedAt: snap.UpdatedAt}
		return nil
	}
	if snap.Version < r.version {
		return nil
	}
	r.version = snap.Version
	r.doc = doc
	r.updatedAt = snap.UpdatedAt
	return nil
}

func (s *MemoryService) LoadRoom(_ context.Context, code string) (wordy.Snapshot, error) {
	code = wordy.NormalizeCode(code)
	s.mu.RLock()
	r, ok := s.rooms[code]
	var doc []byte
	if ok {
		doc = r.doc
	}
	s.mu.RUnlock()
	if !ok {
		return wordy.Snapshot{}, ErrNotFound
	}
	return decodeSnapshot(code, doc)
}

func (s *MemoryService) DeleteRoom(_ context.Context, code string) error {
	code = wordy.NormalizeCode(code)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; !ok {
		return ErrNotFound
	}
	delete(s.rooms, code)
	return nil
}

func (s *MemoryService) AppendEvent(_ context.Context, ev EventRecord) error {
	code := wordy.NormalizeCode(ev.Room)
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[code]
	if !ok {
		return ErrNotFound
	}
	for _, existing := range r.events {
		if existing.Seq == ev.Seq {
			return nil
		}
	}
	ev.Room = code
	ev.Payload = append([]byte(nil), nullablePayload(ev.Payload)...)
	r.events = append(r.events, ev)
	sort.Slice(r.events, func(i, j int) bool { return r.events[i].Seq < r.events[j].Seq })
	return nil
}

func (s *MemoryService) ListEvents(_ context.Context, code string, after uint64, limit int) ([]EventRecord, error) {
	code = wordy.NormalizeCode(code)
	limit = normalizeLimit(limit)
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[code]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]EventRecord, 0, limit)
	for _, ev := range r.events {
		if ev.Seq <= after {
			continue
		}
		out = append(out, ev)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryService) PurgeIdle(_ context.Context, before time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged []string
	for code, r := range s.rooms {
		if r.updatedAt.Before(before) {
			delete(s.rooms, code)
			purged = append(purged, code)
		}
	}
	sort.Strings(purged)
	return purged, nil
}
