// Package realtime fans message insert events out to websocket feed
// subscribers. Each chat has its own subscriber set; events originate from
// the messaging queue so every API replica sees inserts made by any of them.
package realtime

import (
	"github.com/google/uuid"

	"chat-backend/pkg/api"
)

const EventInsert = "INSERT"

// Event is the wire format pushed over a feed connection.
type Event struct {
	Type    string      `json:"type"`
	ChatID  uuid.UUID   `json:"chat_id"`
	Message api.Message `json:"message"`
}

func NewInsertEvent(message api.Message) Event {
	return Event{
		Type:    EventInsert,
		ChatID:  message.ChatID,
		Message: message,
	}
}
