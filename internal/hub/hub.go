package hub

import (
	"encoding/json"
	"sync"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client represents a single client connection (a player in a session).
// It's essentially a channel that the websocket write pump listens to.
type Client chan []byte

// Hub manages the live clients of all active sessions, keyed by session
// code and player id so events can skip their originator.
type Hub struct {
	sessions map[string]map[string]Client
	mu       sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]map[string]Client),
	}
}

// Register adds a player's client to a session.
func (h *Hub) Register(code, playerID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[code]; !ok {
		h.sessions[code] = make(map[string]Client)
	}
	h.sessions[code][playerID] = client
}

// Unregister removes a player's client from a session. The client channel
// is left open; the websocket layer owns its lifetime.
func (h *Hub) Unregister(code, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.sessions[code]; ok {
		delete(clients, playerID)
		if len(clients) == 0 {
			delete(h.sessions, code)
		}
	}
}

// Broadcast sends an event to every client in a session, including the
// originator.
func (h *Hub) Broadcast(code string, event Event) {
	h.broadcast(code, "", event)
}

// BroadcastExcept sends an event to every client in a session except the
// originator, so a sender never reprocesses its own state update.
func (h *Hub) BroadcastExcept(code, senderID string, event Event) {
	h.broadcast(code, senderID, event)
}

func (h *Hub) broadcast(code, skipID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.sessions[code]
	if !ok {
		return
	}
	messageBytes, err := json.Marshal(event)
	if err != nil {
		return
	}
	for playerID, client := range clients {
		if playerID == skipID {
			continue
		}
		// Non-blocking send: a slow or gone client drops the event
		// rather than stalling the sender.
		select {
		case client <- messageBytes:
		default:
		}
	}
}

// Send delivers an event to a single player in a session, used for
// targeted status and resync responses.
func (h *Hub) Send(code, playerID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.sessions[code]
	if !ok {
		return
	}
	client, ok := clients[playerID]
	if !ok {
		return
	}
	messageBytes, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case client <- messageBytes:
	default:
	}
}

// ConnectionCount reports the number of registered clients across all
// sessions.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, clients := range h.sessions {
		n += len(clients)
	}
	return n
}
