package hub

import (
	"encoding/json"
	"sync"
)

// Event types pushed over the notification channel.
const (
	EventFeedPost      = "feed.post"
	EventDirectMessage = "dm.message"
	EventFriendInvite  = "friend.invite"
	EventFriendAccept  = "friend.accept"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client represents a single listener connection for one user.
// It's essentially a channel that the SSE handler will listen to.
type Client chan []byte

// Hub fans events out to the currently connected listeners of each user.
// Delivery is best effort: no guarantees, no ordering across listeners,
// and a missed event must be recoverable by re-polling the list endpoints.
// The hub is never the source of truth.
type Hub struct {
	users map[uint]map[Client]bool
	mu    sync.RWMutex
}

// GlobalHub is the singleton instance of our Hub.
var GlobalHub = NewHub()

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		users: make(map[uint]map[Client]bool),
	}
}

// Subscribe adds a new listener for a user. One user may hold several
// listeners at once (multi-device).
func (h *Hub) Subscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[Client]bool)
	}
	h.users[userID][client] = true
}

// Unsubscribe removes a listener for a user.
func (h *Hub) Unsubscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.users[userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client) // Close the channel to signal the SSE handler to stop.
			if len(clients) == 0 {
				delete(h.users, userID)
			}
		}
	}
}

// Notify sends an event to all listeners of a single user.
func (h *Hub) Notify(userID uint, event Event) {
	h.NotifyAll([]uint{userID}, event)
}

// NotifyAll sends an event to all listeners of each of the given users.
func (h *Hub) NotifyAll(userIDs []uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	messageBytes, err := json.Marshal(event)
	if err != nil {
		return
	}

	for _, userID := range userIDs {
		for client := range h.users[userID] {
			// Non-blocking send so a slow listener never stalls the hub.
			select {
			case client <- messageBytes:
			default:
			}
		}
	}
}
