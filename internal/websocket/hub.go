package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/lariosa/stockroom-be/internal/models"
)

// Hub maintains the set of connected clients and broadcasts inventory
// events to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound messages for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// NotifyStockChange broadcasts an audited stock change to all clients.
func (h *Hub) NotifyStockChange(entry models.InventoryLog) {
	h.notify(Message{Action: ActionStockChanged, Payload: entry})
}

// NotifyLowStock broadcasts a low-stock alert for a product.
func (h *Hub) NotifyLowStock(p models.Product) {
	h.notify(Message{Action: ActionStockLow, Payload: p})
}

func (h *Hub) notify(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("action", msg.Action).Msg("Failed to encode websocket message")
		return
	}
	h.Broadcast <- data
}
