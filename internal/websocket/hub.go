package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Message is a notification pushed to a room's subscribers. It never carries
// message content; subscribers poll for updates when they receive one.
type Message struct {
	Type   string `json:"type"`
	Room   string `json:"room"`
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     int64  `json:"id,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(room, entity, action string, id int64) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Room:   room,
		Entity: entity,
		Action: action,
		ID:     id,
	}
}

// Hub tracks connected clients grouped by room.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

// Register adds a client to its room.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.rooms[c.room]
	if !ok {
		set = make(map[*Client]struct{})
		h.rooms[c.room] = set
	}
	set[c] = struct{}{}
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.rooms[c.room]
	if !ok {
		return
	}
	if _, ok := set[c]; ok {
		delete(set, c)
		close(c.send)
	}
	if len(set) == 0 {
		delete(h.rooms, c.room)
	}
}

// CloseRoom drops every client subscribed to room. Their connections are
// closed with StatusPolicyViolation, so they must reconnect and pass the
// room check again.
func (h *Hub) CloseRoom(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.rooms[room]
	for c := range set {
		c.revoked = true
		close(c.send)
	}
	delete(h.rooms, room)
	return len(set)
}

// BroadcastRoom sends msg to every client subscribed to msg.Room.
func (h *Hub) BroadcastRoom(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[msg.Room] {
		select {
		case c.send <- data:
		default:
			// Slow client; it will catch up on its next poll.
		}
	}
}

// ClientCount returns the number of connected clients across all rooms.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.rooms {
		n += len(set)
	}
	return n
}

// RoomClientCount returns the number of clients subscribed to room.
func (h *Hub) RoomClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
