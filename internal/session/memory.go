package session

import (
	"context"
	"sync"
	"time"

	"github.com/matheusfarocha/NeuralFeedback/internal/persona"
)

type memorySession struct {
	personas  []persona.Review
	histories map[int][]persona.Turn
	expiresAt time.Time
}

// MemoryStore is the default backend: an in-process map with lazy TTL expiry.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
	ttl      time.Duration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		ttl:      DefaultTTL,
	}
}

func (m *MemoryStore) Personas(ctx context.Context, sid string) ([]persona.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.live(sid)
	if s == nil || len(s.personas) == 0 {
		return nil, ErrNoPersonas
	}
	out := make([]persona.Review, len(s.personas))
	copy(out, s.personas)
	return out, nil
}

func (m *MemoryStore) SetPersonas(ctx context.Context, sid string, reviews []persona.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]persona.Review, len(reviews))
	copy(stored, reviews)
	m.sessions[sid] = &memorySession{
		personas:  stored,
		histories: make(map[int][]persona.Turn),
		expiresAt: time.Now().Add(m.ttl),
	}
	return nil
}

func (m *MemoryStore) History(ctx context.Context, sid string, personaID int) ([]persona.Turn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.live(sid)
	if s == nil {
		return nil, nil
	}
	turns := s.histories[personaID]
	out := make([]persona.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (m *MemoryStore) AppendHistory(ctx context.Context, sid string, personaID int, turns ...persona.Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.live(sid)
	if s == nil {
		s = &memorySession{histories: make(map[int][]persona.Turn), expiresAt: time.Now().Add(m.ttl)}
		m.sessions[sid] = s
	}
	s.histories[personaID] = trimHistory(append(s.histories[personaID], turns...))
	s.expiresAt = time.Now().Add(m.ttl)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// live returns the session if it exists and has not expired. Expired entries
// are overwritten by the next SetPersonas or AppendHistory for the same id.
func (m *MemoryStore) live(sid string) *memorySession {
	s, ok := m.sessions[sid]
	if !ok || time.Now().After(s.expiresAt) {
		return nil
	}
	return s
}
