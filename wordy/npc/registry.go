package npc

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// PersonaRegistry holds bot personas keyed by lowercase ID.
type PersonaRegistry struct {
	mu       sync.RWMutex
	personas map[string]*Persona
}

func NewRegistry() *PersonaRegistry {
	return &PersonaRegistry{personas: make(map[string]*Persona)}
}

// DefaultRegistry returns a registry seeded with the built-in personas.
func DefaultRegistry() *PersonaRegistry {
	r := NewRegistry()
	for _, p := range defaultPersonas {
		cp := *p
		r.personas[cp.ID] = &cp
	}
	return r
}

// LoadFromFile merges the personas listed in a JSON file.
func (r *PersonaRegistry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read personas file: %w", err)
	}
	return r.LoadFromJSON(data)
}

// LoadFromJSON merges a JSON array of personas. Entries replace built-ins
// with the same ID. Nothing is merged when any entry is invalid.
func (r *PersonaRegistry) LoadFromJSON(data []byte) error {
	var list []Persona
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse personas JSON: %w", err)
	}

	loaded := make(map[string]*Persona, len(list))
	for i := range list {
		p := list[i]
		if err := normalizePersona(&p); err != nil {
			return fmt.Errorf("persona %d: %w", i, err)
		}
		loaded[p.ID] = &p
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range loaded {
		r.personas[id] = p
	}
	return nil
}

func normalizePersona(p *Persona) error {
	p.ID = strings.ToLower(strings.TrimSpace(p.ID))
	if p.ID == "" {
		return fmt.Errorf("missing id")
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = p.ID
	}
	if p.Brain == (Profile{}) {
		p.Brain = DefaultProfile
	}
	b := p.Brain
	for _, v := range []float64{b.GuessBase, b.GuessPerEntry, b.Accuracy} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s: probabilities must be within [0, 1]", p.ID)
		}
	}
	if b.SureAfter < 0 {
		return fmt.Errorf("%s: sureAfter must be >= 0", p.ID)
	}
	return nil
}

// Get returns the persona with id, or nil.
func (r *PersonaRegistry) Get(id string) *Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.personas[strings.ToLower(strings.TrimSpace(id))]
}

// All returns every persona ordered by ID.
func (r *PersonaRegistry) All() []*Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Persona, 0, len(r.personas))
	for _, p := range r.personas {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *PersonaRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.personas)
}
