package broadcast

import (
	"net/http"
	"time"
)

const (
	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client represents a connected SSE client
type Client struct {
	sessionID string
	room      RoomID
	send      chan []byte
}

// NewClient creates a new SSE client bound to a room
func NewClient(sessionID string, room RoomID) *Client {
	return &Client{
		sessionID: sessionID,
		room:      room,
		send:      make(chan []byte, sendBufferSize),
	}
}

// Send exposes the client's outgoing event stream.
func (c *Client) Send() <-chan []byte {
	return c.send
}

// ServeSSE handles the SSE connection for a session. onReady runs once the
// client is registered, before any events flow; it is the place to replay
// snapshot state. The call blocks until the client goes away or the hub
// closes the stream, then runs onClose (if set) so the caller can treat
// stream teardown as a departure. A stream displaced by a newer one for the
// same session does not fire onClose.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, sessionID string, room RoomID, onReady, onClose func()) {
	// Check if SSE is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	// Create and register client
	client := NewClient(sessionID, room)
	hub.Register(client)

	// Ensure cleanup on disconnect
	defer func() {
		hub.Unregister(client)
		if onClose != nil && !hub.SessionConnected(sessionID) {
			onClose()
		}
	}()

	if onReady != nil {
		onReady()
	}

	// Send initial connection event
	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	// Create ticker for keepalive
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	// Handle client connection
	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				// Hub closed the channel
				return
			}
			_, err := w.Write(message)
			if err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			// Send keepalive comment
			_, err := w.Write([]byte(": keepalive\n\n"))
			if err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}
