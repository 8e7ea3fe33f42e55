package chat

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"chat-backend/pkg/api"
)

func TestStoreSelectAndAddMessages(t *testing.T) {
	store := NewStore()
	chatID := uuid.New()

	first := api.Message{ID: uuid.New(), ChatID: chatID, Role: api.RoleUser, Text: "hi"}
	store.SelectChat(chatID, []api.Message{first})

	assert.Equal(t, chatID, store.CurrentChatID())
	assert.Equal(t, 1, store.MessageCount())
	assert.True(t, store.HasMessage(first.ID))

	second := api.Message{ID: uuid.New(), ChatID: chatID, Role: api.RoleAssistant, Text: "Positive (Score: 0.9)"}
	assert.True(t, store.AddMessage(second))
	assert.Equal(t, 2, store.MessageCount())

	// Feed echo of an already loaded row is dropped.
	assert.False(t, store.AddMessage(second))
	assert.Equal(t, 2, store.MessageCount())

	// Rows for other chats are ignored.
	stray := api.Message{ID: uuid.New(), ChatID: uuid.New(), Role: api.RoleUser, Text: "wrong chat"}
	assert.False(t, store.AddMessage(stray))
	assert.Equal(t, 2, store.MessageCount())
}

func TestStoreResetKeepsChats(t *testing.T) {
	store := NewStore()
	chats := []api.Chat{
		{ID: uuid.New(), Title: "First"},
		{ID: uuid.New(), Title: "Second"},
	}
	store.SetChats(chats)
	store.SelectChat(chats[0].ID, []api.Message{{ID: uuid.New(), ChatID: chats[0].ID, Role: api.RoleUser, Text: "hi"}})

	store.Reset()

	assert.Equal(t, uuid.Nil, store.CurrentChatID())
	assert.Empty(t, store.Messages())
	assert.False(t, store.Busy())
	assert.Len(t, store.Chats(), 2, "reset keeps the chat directory")
}

func TestStoreChatListMutations(t *testing.T) {
	store := NewStore()
	existing := api.Chat{ID: uuid.New(), Title: "Old"}
	store.SetChats([]api.Chat{existing})

	fresh := api.Chat{ID: uuid.New(), Title: "New Chat"}
	store.PrependChat(fresh)

	chats := store.Chats()
	assert.Equal(t, fresh.ID, chats[0].ID, "new chats go to the top")
	assert.Equal(t, existing.ID, chats[1].ID)

	store.SetChatTitle(fresh.ID, "Renamed")
	assert.Equal(t, "Renamed", store.Chats()[0].Title)

	store.RemoveChat(existing.ID)
	chats = store.Chats()
	assert.Len(t, chats, 1)
	assert.Equal(t, fresh.ID, chats[0].ID)
}

func TestStoreNotifiesListeners(t *testing.T) {
	store := NewStore()

	var calls int
	store.Subscribe(func() { calls++ })

	store.SetChats(nil)
	store.SetModel("aanum")
	store.SelectChat(uuid.New(), nil)

	assert.Equal(t, 3, calls)
	assert.Equal(t, "aanum", store.Model())
}

func TestStoreDefaultModel(t *testing.T) {
	assert.Equal(t, "anum", NewStore().Model())
}

func TestStoreDropsUnknownModel(t *testing.T) {
	store := NewStore()

	var calls int
	store.Subscribe(func() { calls++ })

	store.SetModel("gpt-99")

	assert.Equal(t, "anum", store.Model())
	assert.Zero(t, calls, "dropped selection must not notify")
}
