package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
)

// Hub fans Messages out to the live subscribers of each group on this
// instance. Cross-instance delivery goes through the bus forwarder.
type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	subscriptions map[string]map[*Client]bool
}

type Client struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Groups   map[string]bool
	Outbound chan Message
	done     chan struct{}
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:           log.With("component", "RealtimeHub"),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

func (h *Hub) NewClient(userID uuid.UUID) *Client {
	return &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Groups:   make(map[string]bool),
		Outbound: make(chan Message, 16),
		done:     make(chan struct{}),
	}
}

func (h *Hub) Subscribe(client *Client, group string) {
	group = strings.TrimSpace(group)
	if group == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	client.Groups[group] = true
	clients, ok := h.subscriptions[group]
	if !ok {
		clients = make(map[*Client]bool)
		h.subscriptions[group] = clients
	}
	clients[client] = true
}

func (h *Hub) Unsubscribe(client *Client, group string) {
	group = strings.TrimSpace(group)
	if group == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(client.Groups, group)
	if clients, ok := h.subscriptions[group]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.subscriptions, group)
		}
	}
}

func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for g := range client.Groups {
		if clients, ok := h.subscriptions[g]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.subscriptions, g)
			}
		}
	}
	client.Groups = make(map[string]bool)
}

// Broadcast delivers to every live subscriber of msg.Group and returns how
// many clients received it.
func (h *Hub) Broadcast(msg Message) int {
	if msg.Group == "" {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.subscriptions[msg.Group]
	if !ok {
		return 0
	}
	received := 0
	for c := range clients {
		select {
		case c.Outbound <- msg:
			received++
		default:
			h.log.Warn("dropping realtime message; outbound buffer full", "client_id", c.ID, "group", msg.Group)
		}
	}
	return received
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request, client *Client) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-client.done:
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg := <-client.Outbound:
			raw, err := json.Marshal(msg)
			if err != nil {
				h.log.Warn("failed to marshal realtime message", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, raw)
			flusher.Flush()
		}
	}
}

func (h *Hub) CloseClient(client *Client) {
	close(client.done)
	h.RemoveClient(client)
	close(client.Outbound)
}
