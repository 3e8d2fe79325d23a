package store

import (
	"context"
	"sync"

	"github.com/effective-security/dinefind/pkg/session"
)

type inMemory struct {
	mu      sync.RWMutex
	storage map[string][]Reservation
}

// NewMemoryStore creates an in-process reservation store. Reservations do
// not survive a restart.
func NewMemoryStore() ReservationStore {
	return &inMemory{}
}

func (m *inMemory) Add(ctx context.Context, res Reservation) error {
	sessionID := session.GetSessionID(ctx)
	if sessionID == "" {
		return ErrNoSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage == nil {
		// create on first use
		m.storage = make(map[string][]Reservation)
	}
	m.storage[sessionID] = append(m.storage[sessionID], res)
	return nil
}

func (m *inMemory) List(ctx context.Context) ([]Reservation, error) {
	sessionID := session.GetSessionID(ctx)
	if sessionID == "" {
		return nil, ErrNoSession
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.storage == nil {
		return nil, nil
	}
	return m.storage[sessionID], nil
}

func (m *inMemory) Reset(ctx context.Context) error {
	sessionID := session.GetSessionID(ctx)
	if sessionID == "" {
		return ErrNoSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage != nil {
		delete(m.storage, sessionID)
	}
	return nil
}
