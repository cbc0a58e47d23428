package ws

import (
	"sync"
)

// Hub tracks which clients are in which rooms and fans envelopes out to
// room members.
type Hub struct {
	rooms map[string]map[string]*Client // room -> clientID -> Client
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[string]*Client)}
}

func (h *Hub) Join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[string]*Client)
	}
	h.rooms[room][c.ID] = c
}

// Remove drops a client from every room it is in and reports which rooms
// it was a member of, so callers can clean up per-room state.
func (h *Hub) Remove(c *Client) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var rooms []string
	for room, members := range h.rooms {
		if _, ok := members[c.ID]; !ok {
			continue
		}
		delete(members, c.ID)
		rooms = append(rooms, room)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	return rooms
}

// Broadcast delivers an envelope to every member of a room except the
// sender, mirroring socket-style room emits.
func (h *Hub) Broadcast(room string, env Envelope, except *Client) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[room] {
		if except != nil && c.ID == except.ID {
			continue
		}
		c.Send(env)
	}
}

// RoomSize reports the current member count of a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
