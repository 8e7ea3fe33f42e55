package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Hub routes feed events to the clients subscribed to each chat. Register,
// unregister, and broadcast all run through the single Run loop, so the
// subscription map needs no locking beyond the snapshot taken for counting.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	events     chan Event
	done       chan struct{}
	closeOnce  sync.Once
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan Event, 64),
		done:       make(chan struct{}),
	}
}

// Run is the hub's main loop. Start it in its own goroutine; it exits when
// Shutdown is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case event := <-h.events:
			h.broadcast(event)

		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Broadcast queues an event for delivery to the chat's subscribers. It never
// blocks the caller: if the hub is backed up the event is dropped, feed
// clients recover missed rows on their next history fetch.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.events <- event:
	case <-h.done:
	default:
		slog.Warn("feed hub event buffer full, dropping event", "chat_id", event.ChatID)
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Shutdown stops the run loop and disconnects every subscriber.
func (h *Hub) Shutdown() {
	h.closeOnce.Do(func() { close(h.done) })
}

// SubscriberCount reports how many clients are subscribed to a chat.
func (h *Hub) SubscriberCount(chatID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[chatID])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers, ok := h.clients[client.chatID]
	if !ok {
		subscribers = make(map[*Client]struct{})
		h.clients[client.chatID] = subscribers
	}
	subscribers[client] = struct{}{}

	slog.Info("feed subscriber registered", "chat_id", client.chatID, "subscribers", len(subscribers))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers, ok := h.clients[client.chatID]
	if !ok {
		return
	}
	if _, ok := subscribers[client]; !ok {
		return
	}

	delete(subscribers, client)
	if len(subscribers) == 0 {
		delete(h.clients, client.chatID)
	}
	client.close()

	slog.Info("feed subscriber unregistered", "chat_id", client.chatID, "subscribers", len(subscribers))
}

func (h *Hub) broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal feed event", "chat_id", event.ChatID, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[event.ChatID] {
		client.enqueue(data)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for chatID, subscribers := range h.clients {
		for client := range subscribers {
			client.close()
		}
		delete(h.clients, chatID)
	}
}
