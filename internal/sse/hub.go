package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pricewise/pricewise-api/internal/models"
)

// EventType defines the SSE event name.
type EventType string

const (
	EventAlertDropped    EventType = "alert.dropped"
	EventAlertOutOfStock EventType = "alert.out_of_stock"
)

// EventFor returns the event emitted when an alert enters status. Monitoring
// has no event.
func EventFor(status models.AlertStatus) (EventType, bool) {
	switch status {
	case models.AlertStatusDropped:
		return EventAlertDropped, true
	case models.AlertStatusOutOfStock:
		return EventAlertOutOfStock, true
	default:
		return "", false
	}
}

// AlertEvent is the payload pushed to a profile's connected clients.
type AlertEvent struct {
	Event     EventType         `json:"event"`
	ProfileID string            `json:"-"`
	Alert     models.PriceAlert `json:"alert"`
	Timestamp time.Time         `json:"timestamp"`
}

// Client represents a connected SSE client of one profile.
type Client struct {
	ID        string
	ProfileID string
	Events    chan []byte
}

// Hub manages SSE client connections and per-profile delivery.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new SSE hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a new client and returns it for streaming.
func (h *Hub) Register(clientID, profileID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &Client{
		ID:        clientID,
		ProfileID: profileID,
		Events:    make(chan []byte, 64),
	}
	h.clients[clientID] = c
	log.Info().Str("client_id", clientID).Str("profile_id", profileID).Int("total_clients", len(h.clients)).Msg("SSE client connected")
	return c
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.Events)
		delete(h.clients, clientID)
		log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client disconnected")
	}
}

// Publish sends an event to every client of the event's profile.
// Non-blocking: drops message if client buffer is full.
func (h *Hub) Publish(event *AlertEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal SSE event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		if c.ProfileID != event.ProfileID {
			continue
		}
		select {
		case c.Events <- data:
		default:
			log.Warn().Str("client_id", c.ID).Msg("SSE client buffer full, dropping event")
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
