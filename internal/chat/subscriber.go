package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chat-backend/internal/realtime"
)

// Subscriber keeps the store current while a chat is open: it holds one feed
// connection per selected chat and appends rows other sessions insert. Rows
// this client inserted itself come back as echoes and are deduplicated by
// message ID.
type Subscriber struct {
	store  *Store
	client *Client
}

func NewSubscriber(store *Store, client *Client) *Subscriber {
	return &Subscriber{store: store, client: client}
}

// Subscription is a live feed connection. Close tears it down; callers must
// close the previous subscription before opening one for another chat.
type Subscription struct {
	conn      *websocket.Conn
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Subscribe opens the feed for a chat and starts consuming events until the
// context is cancelled or the subscription is closed.
func (s *Subscriber) Subscribe(ctx context.Context, chatID uuid.UUID) (*Subscription, error) {
	feedURL, err := s.feedURL(chatID)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, feedURL, nil)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{conn: conn, cancel: cancel}

	go func() {
		<-runCtx.Done()
		conn.Close()
	}()
	go s.consume(conn, chatID)

	return sub, nil
}

func (s *Subscriber) consume(conn *websocket.Conn, chatID uuid.UUID) {
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("feed subscription closed unexpectedly", "chat_id", chatID, "error", err)
			}
			return
		}

		var event realtime.Event
		if err := json.Unmarshal(data, &event); err != nil {
			slog.Error("failed to parse feed event", "chat_id", chatID, "error", err)
			continue
		}
		if event.Type != realtime.EventInsert {
			continue
		}

		// AddMessage drops rows already present, covering the echo of this
		// client's own inserts.
		s.store.AddMessage(event.Message)
	}
}

func (s *Subscriber) feedURL(chatID uuid.UUID) (string, error) {
	parsed, err := url.Parse(s.client.BaseURL())
	if err != nil {
		return "", err
	}

	switch parsed.Scheme {
	case "https":
		parsed.Scheme = "wss"
	default:
		parsed.Scheme = "ws"
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/") + "/feed/" + chatID.String()

	query := parsed.Query()
	query.Set("token", s.client.Token())
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.conn.Close()
	})
}
