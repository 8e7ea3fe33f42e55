package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"chat-backend/pkg/api"
)

const (
	MessageEventQueue = "message_events_queue"
	RetryDelay        = 5 * time.Second
	MaxConnectRetry   = 5
)

type Task interface {
	Type() string

	Payload() []byte

	Ack() error

	Nack() error

	Reject() error
}

// MessageEventPayload announces a message row inserted into a chat. The full
// row rides along so subscribers can fan it out without a database read.
type MessageEventPayload struct {
	ChatID  uuid.UUID   `json:"chat_id"`
	Message api.Message `json:"message"`
}

func ParseTaskPayload[T any](task Task) (T, error) {
	var payload T
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("error parsing %s payload: %w", task.Type(), err)
	}
	return payload, nil
}

type Publisher interface {
	PublishMessageEvent(ctx context.Context, payload MessageEventPayload) error

	Close()
}

type Receiver interface {
	Tasks() <-chan Task

	Close()
}
