package api

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Chat struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID        uuid.UUID `json:"id"`
	ChatID    uuid.UUID `json:"chat_id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	FileName  string    `json:"file_name,omitempty"`
	FileType  string    `json:"file_type,omitempty"`
	FileSize  int64     `json:"file_size,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type GetChatsResponse struct {
	Chats []Chat `json:"chats"`
}

type RenameChatRequest struct {
	Title string `json:"title"`
}

type GetMessagesRequest struct {
	Limit  int `schema:"limit"`
	Offset int `schema:"offset"`
}

type GetMessagesResponse struct {
	Messages []Message `json:"messages"`
}

type CreateMessageRequest struct {
	Role     string `json:"role"`
	Text     string `json:"text"`
	FileName string `json:"file_name,omitempty"`
	FileType string `json:"file_type,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

// InvokeGatewayRequest is the payload for the serverless-style gateway
// function. The reply always comes back with HTTP 200: backend exhaustion is
// reported through the Error field alongside a conversational apology.
type InvokeGatewayRequest struct {
	Message string    `json:"message"`
	ChatID  uuid.UUID `json:"chat_id"`
}

type InvokeGatewayResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

type UploadAttachmentResponse struct {
	Key      string `json:"key"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
}
