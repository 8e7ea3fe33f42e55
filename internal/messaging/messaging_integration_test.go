//go:build integration
// +build integration

package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"

	"chat-backend/pkg/api"
)

func TestPublishConsumeMessageEvent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := rabbitmq.Run(ctx, "rabbitmq:3.12-management")
	require.NoError(t, err, "failed to start rabbitmq container")
	defer func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	}()

	connStr, err := container.AmqpURL(ctx)
	require.NoError(t, err)

	publisher, err := NewRabbitMQPublisher(connStr)
	require.NoError(t, err)
	defer publisher.Close()

	receiver, err := NewRabbitMQReceiver(connStr)
	require.NoError(t, err)
	defer receiver.Close()

	chatID := uuid.New()
	messageID := uuid.New()
	event := MessageEventPayload{
		ChatID: chatID,
		Message: api.Message{
			ID:     messageID,
			ChatID: chatID,
			Role:   api.RoleAssistant,
			Text:   "Positive (Score: 0.9)",
		},
	}

	require.NoError(t, publisher.PublishMessageEvent(ctx, event))

	select {
	case task := <-receiver.Tasks():
		assert.Equal(t, MessageEventQueue, task.Type())

		var received MessageEventPayload
		require.NoError(t, json.Unmarshal(task.Payload(), &received))
		assert.Equal(t, event, received)

		require.NoError(t, task.Ack())
	case <-ctx.Done():
		t.Fatal("timed out waiting for message event")
	}
}
