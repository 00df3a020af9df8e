package realtime

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// Presence is what a connected user announced about themselves.
type Presence struct {
	UserID      string    `json:"userId"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Role        string    `json:"role"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// Envelope is an event addressed to a room. An empty Room means every
// connected session.
type Envelope struct {
	Room  string          `json:"room,omitempty"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// PresenceStore tracks who is online and fans events out to every instance
// of the server. Subscribe blocks until ctx is done.
type PresenceStore interface {
	Register(ctx context.Context, p Presence) error
	Unregister(ctx context.Context, userID string) error
	Lookup(ctx context.Context, userID string) (*Presence, error)
	List(ctx context.Context) ([]Presence, error)
	Broadcast(ctx context.Context, env Envelope) error
	Subscribe(ctx context.Context, handler func(Envelope)) error
}

// MemoryPresenceStore serves a single process.
type MemoryPresenceStore struct {
	mu       sync.RWMutex
	users    map[string]Presence
	handlers map[int]func(Envelope)
	nextID   int
}

func NewMemoryPresenceStore() *MemoryPresenceStore {
	return &MemoryPresenceStore{
		users:    map[string]Presence{},
		handlers: map[int]func(Envelope){},
	}
}

func (m *MemoryPresenceStore) Register(_ context.Context, p Presence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[p.UserID] = p
	return nil
}

func (m *MemoryPresenceStore) Unregister(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
	return nil
}

func (m *MemoryPresenceStore) Lookup(_ context.Context, userID string) (*Presence, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MemoryPresenceStore) List(_ context.Context) ([]Presence, error) {
	m.mu.RLock()
	list := make([]Presence, 0, len(m.users))
	for _, p := range m.users {
		list = append(list, p)
	}
	m.mu.RUnlock()

	sortPresence(list)
	return list, nil
}

func (m *MemoryPresenceStore) Broadcast(_ context.Context, env Envelope) error {
	m.mu.RLock()
	handlers := make([]func(Envelope), 0, len(m.handlers))
	for _, h := range m.handlers {
		handlers = append(handlers, h)
	}
	m.mu.RUnlock()

	for _, h := range handlers {
		h(env)
	}
	return nil
}

func (m *MemoryPresenceStore) Subscribe(ctx context.Context, handler func(Envelope)) error {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.handlers[id] = handler
	m.mu.Unlock()

	<-ctx.Done()

	m.mu.Lock()
	delete(m.handlers, id)
	m.mu.Unlock()
	return nil
}

func sortPresence(list []Presence) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].ConnectedAt.Before(list[j].ConnectedAt)
	})
}
