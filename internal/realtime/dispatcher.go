package realtime

import (
	"context"
	"log/slog"

	"chat-backend/internal/messaging"
)

// Dispatcher pipes message events from the queue into the hub.
type Dispatcher struct {
	receiver messaging.Receiver
	hub      *Hub
}

func NewDispatcher(receiver messaging.Receiver, hub *Hub) *Dispatcher {
	return &Dispatcher{receiver: receiver, hub: hub}
}

// Run consumes tasks until the context is cancelled or the receiver's channel
// closes. Malformed payloads are rejected, everything else is acked: feed
// delivery is best-effort and a redelivered event would only duplicate work.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case task, ok := <-d.receiver.Tasks():
			if !ok {
				return
			}

			payload, err := messaging.ParseTaskPayload[messaging.MessageEventPayload](task)
			if err != nil {
				slog.Error("failed to parse message event payload", "queue", task.Type(), "error", err)
				if err := task.Reject(); err != nil {
					slog.Error("failed to reject task", "error", err)
				}
				continue
			}

			d.hub.Broadcast(NewInsertEvent(payload.Message))

			if err := task.Ack(); err != nil {
				slog.Error("failed to ack message event", "chat_id", payload.ChatID, "error", err)
			}
		}
	}
}
