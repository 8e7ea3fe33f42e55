package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"chat-backend/internal/inference"
	"chat-backend/pkg/api"
)

const (
	autoTitleAtCount = 2
	autoTitleMaxLen  = 50
)

// Attachment is a file picked in the composer, validated and read into
// memory before Send.
type Attachment struct {
	FileName string
	MimeType string
	Contents []byte
}

// Composer runs the send pipeline: insert the user message, ask the selected
// model for a reply, insert the assistant message, and auto-title new chats.
type Composer struct {
	store    *Store
	client   *Client
	backends map[string]inference.Backend
}

func NewComposer(store *Store, client *Client, backends map[string]inference.Backend) *Composer {
	return &Composer{store: store, client: client, backends: backends}
}

// Send submits the composer contents. Blank input with no attachment, a
// missing chat selection, or an already in-flight send are all silent no-ops,
// matching how the input box behaves.
func (c *Composer) Send(ctx context.Context, text string, attachment *Attachment) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" && attachment == nil {
		return nil
	}

	chatID := c.store.CurrentChatID()
	if chatID == uuid.Nil {
		return nil
	}

	backend, ok := c.backends[c.store.Model()]
	if !ok {
		return fmt.Errorf("unknown model '%s'", c.store.Model())
	}

	// Single flight: a second Send while one is running is dropped.
	if !c.store.setBusy(true) {
		return nil
	}
	defer c.store.setBusy(false)

	userReq := api.CreateMessageRequest{Role: api.RoleUser, Text: trimmed}

	if attachment != nil {
		if err := ValidateAttachment(attachment.MimeType, int64(len(attachment.Contents))); err != nil {
			return err
		}

		uploaded, err := c.client.UploadAttachment(ctx, chatID, attachment.FileName, attachment.MimeType, attachment.Contents)
		if err != nil {
			return fmt.Errorf("failed to upload attachment: %w", err)
		}

		userReq.Text = AttachmentText(trimmed, attachment.FileName, attachment.MimeType, attachment.Contents)
		userReq.FileName = uploaded.FileName
		userReq.FileType = uploaded.FileType
		userReq.FileSize = uploaded.FileSize
	}

	userMessage, err := c.client.CreateMessage(ctx, chatID, userReq)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	c.store.AddMessage(userMessage)

	reply, err := backend.Reply(ctx, inference.Request{
		Text:     userMessage.Text,
		ChatID:   chatID,
		HasFile:  attachment != nil,
		FileName: userReq.FileName,
		FileType: userReq.FileType,
	})
	if err != nil {
		return fmt.Errorf("failed to get model reply: %w", err)
	}

	assistantMessage, err := c.client.CreateMessage(ctx, chatID, api.CreateMessageRequest{
		Role: api.RoleAssistant,
		Text: reply.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to store reply: %w", err)
	}
	c.store.AddMessage(assistantMessage)

	c.maybeAutoTitle(ctx, chatID, userMessage, attachment)

	return nil
}

// maybeAutoTitle names the chat after its first exchange: exactly when the
// message count reaches two. Text chats take the first 50 characters of the
// opening message; file-led chats become "File: <name>".
func (c *Composer) maybeAutoTitle(ctx context.Context, chatID uuid.UUID, first api.Message, attachment *Attachment) {
	if c.store.MessageCount() != autoTitleAtCount {
		return
	}

	var title string
	if attachment != nil {
		title = "File: " + attachment.FileName
	} else {
		title = first.Text
		// Truncation counts characters, not bytes, so multibyte text keeps
		// its first 50 characters intact.
		if runes := []rune(title); len(runes) > autoTitleMaxLen {
			title = string(runes[:autoTitleMaxLen]) + "..."
		}
	}

	if err := c.client.RenameChat(ctx, chatID, title); err != nil {
		slog.Warn("failed to auto-title chat", "chat_id", chatID, "error", err)
		return
	}
	c.store.SetChatTitle(chatID, title)
}
