package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"chat-backend/internal/auth"
	"chat-backend/internal/realtime"
)

// FeedService upgrades authenticated requests to websocket feed connections.
// Clients subscribe to one chat per connection and receive an INSERT event
// for every message row added to it.
type FeedService struct {
	chats    *ChatService
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewFeedService(chats *ChatService, hub *realtime.Hub) *FeedService {
	return &FeedService{
		chats: chats,
		hub:   hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin is already handled by the cors middleware; the
			// token check below is what gates the upgrade.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *FeedService) AddRoutes(r chi.Router) {
	r.Get("/feed/{chat_id}", s.Subscribe)
}

func (s *FeedService) Subscribe(w http.ResponseWriter, r *http.Request) {
	loaded, err := s.chats.requireChat(r)
	if err != nil {
		writeError(w, err)
		return
	}

	userID, _ := auth.UserID(r.Context())

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("error upgrading feed connection", "chat_id", loaded.ID, "error", err)
		return
	}

	realtime.NewClient(s.hub, conn, loaded.ID, userID).Serve()
}
