package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"padelcourt/cmd/internal/metrics"

	"github.com/labstack/gommon/log"
)

// Hub owns the sockets connected to this instance, grouped in rooms keyed by
// user id. Events go out through the PresenceStore and come back to every
// instance's hub, which delivers them to its local sockets.
type Hub struct {
	Store PresenceStore

	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub(store PresenceStore) *Hub {
	return &Hub{Store: store, rooms: map[string]map[*Client]struct{}{}}
}

// Run delivers store events to local sockets until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	return h.Store.Subscribe(ctx, h.deliver)
}

func (h *Hub) EmitToUser(ctx context.Context, userID, event string, payload any) error {
	return h.emit(ctx, userID, event, payload)
}

func (h *Hub) EmitAll(ctx context.Context, event string, payload any) error {
	return h.emit(ctx, "", event, payload)
}

func (h *Hub) OnlineUserIDs(ctx context.Context) ([]string, error) {
	list, err := h.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(list))
	for i, p := range list {
		ids[i] = p.UserID
	}
	return ids, nil
}

func (h *Hub) emit(ctx context.Context, room, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return h.Store.Broadcast(ctx, Envelope{Room: room, Event: event, Data: data})
}

func (h *Hub) deliver(env Envelope) {
	frame, err := json.Marshal(Frame{Event: env.Event, Data: env.Data})
	if err != nil {
		log.Warnf("failed to encode %s frame: %v", env.Event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if env.Room != "" {
		room, ok := h.rooms[env.Room]
		if !ok {
			log.Debugf("no local session for %s, dropping %s", env.Room, env.Event)
			return
		}
		for c := range room {
			c.enqueue(frame)
		}
		return
	}

	for _, room := range h.rooms {
		for c := range room {
			c.enqueue(frame)
		}
	}
}

// sendTo writes an event to a single socket without going through the store.
func (h *Hub) sendTo(c *Client, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Warnf("failed to encode %s payload: %v", event, err)
		return
	}
	frame, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		log.Warnf("failed to encode %s frame: %v", event, err)
		return
	}
	c.enqueue(frame)
}

func (h *Hub) join(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.UserID]
	if !ok {
		room = map[*Client]struct{}{}
		h.rooms[c.UserID] = room
	}
	room[c] = struct{}{}
	metrics.WebsocketSessions.Inc()
}

// leave removes c and reports how many local sessions its user still has.
func (h *Hub) leave(c *Client) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.UserID]
	if !ok {
		return 0
	}
	if _, ok = room[c]; ok {
		delete(room, c)
		metrics.WebsocketSessions.Dec()
	}
	if len(room) == 0 {
		delete(h.rooms, c.UserID)
	}
	return len(room)
}
