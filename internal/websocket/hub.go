package websocket

import (
	"log"
	"sync"

	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/models"
)

// Hub fans freshly computed rankings out to every connected observer. It
// carries no quiz logic; the session engine and aggregator stay ignorant of
// who is watching.
type Hub struct {
	clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	log.Printf("Leaderboard observer connected: user=%s", client.UserID)

	client.SendMessage(MessageTypeConnected, ConnectedPayload{UserID: client.UserID})
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
		log.Printf("Leaderboard observer disconnected: user=%s", client.UserID)
	}
}

// BroadcastLeaderboard pushes a recomputed ranking to every observer.
func (h *Hub) BroadcastLeaderboard(entries []models.LeaderboardEntry) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		client.SendMessage(MessageTypeLeaderboard, LeaderboardPayload{
			Leaderboard: entries,
		})
	}
}
