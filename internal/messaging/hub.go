// internal/messaging/hub.go

package messaging

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mommatch/mommatch-backend/internal/auth"
)

// Hub maintains active websocket connections, one per member
type Hub struct {
	clients    map[int64]*Client
	clientsMux sync.RWMutex

	broadcast  chan BroadcastMessage
	register   chan *Client
	unregister chan *Client

	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
}

type BroadcastMessage struct {
	UserIDs []int64
	Message WSMessage
}

// NewHub creates a hub. An empty allowedOrigins accepts any origin.
func NewHub(allowedOrigins []string) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &Hub{
		clients:    make(map[int64]*Client),
		broadcast:  make(chan BroadcastMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

func (h *Hub) Run() {
	defer h.cleanup()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-h.ctx.Done():
			return
		}
	}
}

// Shutdown stops Run and closes every connection
func (h *Hub) Shutdown() {
	h.cancel()
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	// Remove old connection for the same user
	if oldClient, exists := h.clients[client.userID]; exists {
		oldClient.close()
	}

	h.clients[client.userID] = client
	log.Printf("User %d connected. Total clients: %d", client.userID, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if current, exists := h.clients[client.userID]; exists && current == client {
		delete(h.clients, client.userID)
		log.Printf("User %d disconnected. Total clients: %d", client.userID, len(h.clients))
	}
	client.close()
}

func (h *Hub) broadcastMessage(message BroadcastMessage) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	for _, userID := range message.UserIDs {
		client, ok := h.clients[userID]
		if !ok {
			continue
		}

		msg := message.Message
		msg.UserID = userID
		data, err := json.Marshal(msg)
		if err != nil {
			log.Printf("Error marshaling %s event: %v", msg.Type, err)
			continue
		}

		select {
		case client.send <- data:
		default:
			// Slow consumer; drop the connection.
			client.close()
			delete(h.clients, userID)
		}
	}
}

func (h *Hub) cleanup() {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	for userID, client := range h.clients {
		client.close()
		delete(h.clients, userID)
	}
}

// Notify queues msg for every listed member that is connected. It never
// blocks; events are dropped when the hub is saturated.
func (h *Hub) Notify(userIDs []int64, msg WSMessage) {
	select {
	case h.broadcast <- BroadcastMessage{UserIDs: userIDs, Message: msg}:
	default:
		log.Printf("Hub saturated, dropping %s event", msg.Type)
	}
}

// NotifyMatch tells both members about their new match
func (h *Hub) NotifyMatch(user1ID, user2ID int64, data interface{}) {
	h.Notify([]int64{user1ID, user2ID}, WSMessage{
		Type: WSTypeNewMatch,
		Data: data,
	})
}

// online reports whether the member has a live connection
func (h *Hub) online(userID int64) bool {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// ServeWS upgrades an authenticated request to a websocket
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.ActorIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := newClient(h, conn, userID)
	select {
	case h.register <- client:
	case <-h.ctx.Done():
		_ = conn.Close()
		return
	}
	client.start()
}
