package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Directory manages the chat list: loading, creating, selecting, renaming,
// and deleting chats, keeping the store in sync with the backend.
type Directory struct {
	store  *Store
	client *Client
}

func NewDirectory(store *Store, client *Client) *Directory {
	return &Directory{store: store, client: client}
}

// Load fetches the chat list, most recently updated first.
func (d *Directory) Load(ctx context.Context) error {
	chats, err := d.client.GetChats(ctx)
	if err != nil {
		return err
	}
	d.store.SetChats(chats)
	return nil
}

// CreateChat starts a fresh chat, puts it at the top of the list, and
// selects it with an empty message pane.
func (d *Directory) CreateChat(ctx context.Context) (uuid.UUID, error) {
	chat, err := d.client.CreateChat(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	d.store.PrependChat(chat)
	d.store.SelectChat(chat.ID, nil)
	return chat.ID, nil
}

// SelectChat switches to a chat and loads its full history, oldest first.
func (d *Directory) SelectChat(ctx context.Context, chatID uuid.UUID) error {
	messages, err := d.client.GetMessages(ctx, chatID, 0, 0)
	if err != nil {
		return err
	}
	d.store.SelectChat(chatID, messages)
	return nil
}

// RenameChat updates a chat title. Blank titles cancel the rename rather
// than erroring; surrounding whitespace is trimmed before saving.
func (d *Directory) RenameChat(ctx context.Context, chatID uuid.UUID, title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil
	}

	if err := d.client.RenameChat(ctx, chatID, trimmed); err != nil {
		return err
	}
	d.store.SetChatTitle(chatID, trimmed)
	return nil
}

// DeleteChat removes a chat and its messages. Deleting the selected chat
// clears the message pane; other chats stay untouched.
func (d *Directory) DeleteChat(ctx context.Context, chatID uuid.UUID) error {
	if err := d.client.DeleteChat(ctx, chatID); err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}

	d.store.RemoveChat(chatID)
	if d.store.CurrentChatID() == chatID {
		d.store.Reset()
	}
	return nil
}
