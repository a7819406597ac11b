package broadcast

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/mkarpov/giftcircle/internal/model"
)

// RoomID identifies a broadcast room: one per live table, plus the admin room.
type RoomID string

// AdminRoom receives the admin-only event stream.
const AdminRoom RoomID = "admin"

// TableRoom returns the room for a table's subscribers.
func TableRoom(id model.TableID) RoomID {
	return RoomID("table:" + string(id))
}

// Hub fans events out to connected SSE clients grouped into rooms. Sends are
// fire-and-forget: a client whose buffer is full has the message dropped.
// Within a room, messages are delivered in the order they were emitted.
type Hub struct {
	mu        sync.RWMutex
	rooms     map[RoomID]map[*Client]bool
	bySession map[string]*Client
	logger    *slog.Logger
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:     make(map[RoomID]map[*Client]bool),
		bySession: make(map[string]*Client),
		logger:    logger.With(slog.String("component", "broadcast")),
	}
}

// Register adds a client to its room. A session has at most one live client;
// registering a new client for a session displaces the old one.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	if old, ok := h.bySession[client.sessionID]; ok && old != client {
		h.removeLocked(old)
	}
	if h.rooms[client.room] == nil {
		h.rooms[client.room] = make(map[*Client]bool)
	}
	h.rooms[client.room][client] = true
	h.bySession[client.sessionID] = client
	h.mu.Unlock()

	h.logger.Info("client registered",
		slog.String("session_id", client.sessionID),
		slog.String("room", string(client.room)))
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	removed := h.removeLocked(client)
	h.mu.Unlock()

	if removed {
		h.logger.Info("client unregistered",
			slog.String("session_id", client.sessionID),
			slog.String("room", string(client.room)))
	}
}

func (h *Hub) removeLocked(client *Client) bool {
	room, ok := h.rooms[client.room]
	if !ok || !room[client] {
		return false
	}
	delete(room, client)
	if len(room) == 0 {
		delete(h.rooms, client.room)
	}
	if h.bySession[client.sessionID] == client {
		delete(h.bySession, client.sessionID)
	}
	close(client.send)
	return true
}

// MoveSession rebinds a session's client to a different room. A session with
// no live client is a no-op; the client will land in the right room when it
// reconnects its stream.
func (h *Hub) MoveSession(sessionID string, room RoomID) {
	h.mu.Lock()
	client, ok := h.bySession[sessionID]
	if ok && client.room != room {
		delete(h.rooms[client.room], client)
		if len(h.rooms[client.room]) == 0 {
			delete(h.rooms, client.room)
		}
		client.room = room
		if h.rooms[room] == nil {
			h.rooms[room] = make(map[*Client]bool)
		}
		h.rooms[room][client] = true
	}
	h.mu.Unlock()
}

// BroadcastRoom sends an event to every client in the room.
func (h *Hub) BroadcastRoom(room RoomID, eventName, data string) {
	msg := formatSSEMessage(eventName, data)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		select {
		case client.send <- msg:
		default:
			h.logger.Warn("message dropped - client buffer full",
				slog.String("session_id", client.sessionID),
				slog.String("event", eventName))
		}
	}
}

// SendToSession delivers an event to one session's client, if connected.
func (h *Hub) SendToSession(sessionID, eventName, data string) {
	msg := formatSSEMessage(eventName, data)

	h.mu.RLock()
	client, ok := h.bySession[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case client.send <- msg:
	default:
		h.logger.Warn("message dropped - client buffer full",
			slog.String("session_id", sessionID),
			slog.String("event", eventName))
	}
}

// SessionConnected reports whether the session currently has a live client.
func (h *Hub) SessionConnected(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.bySession[sessionID]
	return ok
}

// RoomCount returns the number of clients in a room.
func (h *Hub) RoomCount(room RoomID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// formatSSEMessage formats an SSE message with event name and data.
// Multi-line data gets a "data: " prefix on each line.
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(eventName)
	b.WriteString("\n")
	for _, line := range strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}
