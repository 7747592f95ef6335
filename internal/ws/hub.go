package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"
)

// Event types pushed to subscribers.
const (
	EventIdeaCreated = "idea_created"
	EventIdeaDeleted = "idea_deleted"
	EventLikeAdded   = "like_added"
	EventLikeRemoved = "like_removed"
)

// Message is the JSON frame every subscriber receives.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans broadcast frames out to every connected client.
type Hub struct {
	clients    map[*Client]bool
	Broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	connected  atomic.Int64
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run owns the client set. Start it in its own goroutine; it returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client; drop it rather than stall everyone else.
					close(client.send)
					delete(h.clients, client)
				}
			}
		case <-h.done:
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.connected.Store(0)
			return
		}
		h.connected.Store(int64(len(h.clients)))
	}
}

// Clients is the number of registered subscribers.
func (h *Hub) Clients() int {
	return int(h.connected.Load())
}

// Stop ends Run and disconnects every client.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Publish encodes an event and queues it for broadcast. It never blocks the
// caller: when the queue is full or the hub is stopped the event is dropped
// and false is returned.
func (h *Hub) Publish(eventType string, data interface{}) bool {
	if h == nil {
		return false
	}
	frame, err := json.Marshal(Message{Type: eventType, Data: data})
	if err != nil {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.Broadcast <- frame:
		return true
	default:
		return false
	}
}
