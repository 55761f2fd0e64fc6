package session

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain"
)

// MemoryStore keeps sessions in a process-local map. It is the default
// backing when no Redis address is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	stop     chan struct{}
	stopOnce sync.Once
}

func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{
		sessions: make(map[string]Session),
		stop:     make(chan struct{}),
	}
	go m.janitor()
	return m
}

func (m *MemoryStore) Create(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok || s.Expired(time.Now()) {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// Close stops the background eviction loop.
func (m *MemoryStore) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *MemoryStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for token, s := range m.sessions {
				if s.Expired(now) {
					delete(m.sessions, token)
				}
			}
			m.mu.Unlock()
		}
	}
}
