package api

import (
	"chat-backend/internal/database"
	"chat-backend/pkg/api"
)

func convertUser(user database.User) api.User {
	return api.User{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

func convertChat(chat database.Chat) api.Chat {
	return api.Chat{
		ID:        chat.ID,
		Title:     chat.Title,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
	}
}

func convertChats(chats []database.Chat) []api.Chat {
	converted := make([]api.Chat, 0, len(chats))
	for _, chat := range chats {
		converted = append(converted, convertChat(chat))
	}
	return converted
}

func convertMessage(message database.Message) api.Message {
	converted := api.Message{
		ID:        message.ID,
		ChatID:    message.ChatID,
		Role:      message.Role,
		Text:      message.Text,
		CreatedAt: message.CreatedAt,
	}
	if message.FileName.Valid {
		converted.FileName = message.FileName.String
	}
	if message.FileType.Valid {
		converted.FileType = message.FileType.String
	}
	if message.FileSize.Valid {
		converted.FileSize = message.FileSize.Int64
	}
	return converted
}

func convertMessages(messages []database.Message) []api.Message {
	converted := make([]api.Message, 0, len(messages))
	for _, message := range messages {
		converted = append(converted, convertMessage(message))
	}
	return converted
}
