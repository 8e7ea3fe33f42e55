package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"chat-backend/internal/auth"
	"chat-backend/internal/database"
	"chat-backend/internal/messaging"
	"chat-backend/internal/storage"
	"chat-backend/pkg/api"
)

const defaultChatTitle = "New Chat"

type ChatService struct {
	db        *gorm.DB
	publisher messaging.Publisher
	objects   storage.ObjectStore
}

func NewChatService(db *gorm.DB, publisher messaging.Publisher, objects storage.ObjectStore) *ChatService {
	return &ChatService{db: db, publisher: publisher, objects: objects}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Route("/chats", func(r chi.Router) {
		r.Get("/", RestHandler(s.GetChats))
		r.Post("/", RestHandler(s.CreateChat))
		r.Get("/{chat_id}", RestHandler(s.GetChat))
		r.Post("/{chat_id}/rename", RestHandler(s.RenameChat))
		r.Delete("/{chat_id}", RestHandler(s.DeleteChat))
		r.Get("/{chat_id}/messages", RestHandler(s.GetMessages))
		r.Post("/{chat_id}/messages", RestHandler(s.CreateMessage))
	})
}

// requireChat loads the chat scoped to the requesting user. Chats owned by
// other users are indistinguishable from missing ones.
func (s *ChatService) requireChat(r *http.Request) (database.Chat, error) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		return database.Chat{}, CodedErrorf(http.StatusUnauthorized, "missing authenticated user")
	}

	chatID, err := URLParamUUID(r, "chat_id")
	if err != nil {
		return database.Chat{}, err
	}

	chat, err := database.GetChat(r.Context(), s.db, userID, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return database.Chat{}, CodedErrorf(http.StatusNotFound, "chat not found")
		}
		slog.Error("error loading chat", "chat_id", chatID, "error", err)
		return database.Chat{}, CodedErrorf(http.StatusInternalServerError, "error loading chat")
	}

	return chat, nil
}

func (s *ChatService) GetChats(r *http.Request) (any, error) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		return nil, CodedErrorf(http.StatusUnauthorized, "missing authenticated user")
	}

	chats, err := database.GetChats(r.Context(), s.db, userID)
	if err != nil {
		slog.Error("error listing chats", "user_id", userID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error listing chats")
	}

	return api.GetChatsResponse{Chats: convertChats(chats)}, nil
}

func (s *ChatService) CreateChat(r *http.Request) (any, error) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		return nil, CodedErrorf(http.StatusUnauthorized, "missing authenticated user")
	}

	chat := database.Chat{
		ID:     uuid.New(),
		UserID: userID,
		Title:  defaultChatTitle,
	}

	if err := database.CreateChat(r.Context(), s.db, &chat); err != nil {
		slog.Error("error creating chat", "user_id", userID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error creating chat")
	}

	return convertChat(chat), nil
}

func (s *ChatService) GetChat(r *http.Request) (any, error) {
	chat, err := s.requireChat(r)
	if err != nil {
		return nil, err
	}
	return convertChat(chat), nil
}

func (s *ChatService) RenameChat(r *http.Request) (any, error) {
	chat, err := s.requireChat(r)
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.RenameChatRequest](r)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "chat title cannot be blank")
	}

	if err := database.UpdateChatTitle(r.Context(), s.db, chat.ID, title); err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "error renaming chat")
	}

	return nil, nil
}

func (s *ChatService) DeleteChat(r *http.Request) (any, error) {
	chat, err := s.requireChat(r)
	if err != nil {
		return nil, err
	}

	if err := database.DeleteChat(r.Context(), s.db, chat.ID); err != nil {
		slog.Error("error deleting chat", "chat_id", chat.ID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error deleting chat")
	}

	// Attachment cleanup is best-effort; an orphaned prefix is harmless and
	// retried on the next delete of the same key space.
	if err := s.objects.DeleteObjects(r.Context(), storage.ChatPrefix(chat.ID)); err != nil {
		slog.Error("error deleting chat attachments", "chat_id", chat.ID, "error", err)
	}

	slog.Info("chat deleted", "chat_id", chat.ID)

	return nil, nil
}

func (s *ChatService) GetMessages(r *http.Request) (any, error) {
	chat, err := s.requireChat(r)
	if err != nil {
		return nil, err
	}

	params, err := ParseRequestQueryParams[api.GetMessagesRequest](r)
	if err != nil {
		return nil, err
	}

	messages, err := database.GetMessages(r.Context(), s.db, chat.ID, params.Limit, params.Offset)
	if err != nil {
		slog.Error("error listing messages", "chat_id", chat.ID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error listing messages")
	}

	return api.GetMessagesResponse{Messages: convertMessages(messages)}, nil
}

func (s *ChatService) CreateMessage(r *http.Request) (any, error) {
	chat, err := s.requireChat(r)
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.CreateMessageRequest](r)
	if err != nil {
		return nil, err
	}

	if req.Role != api.RoleUser && req.Role != api.RoleAssistant {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "invalid message role '%s'", req.Role)
	}
	if strings.TrimSpace(req.Text) == "" && req.FileName == "" {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "message text cannot be blank")
	}

	message := database.Message{
		ID:     uuid.New(),
		ChatID: chat.ID,
		Role:   req.Role,
		Text:   req.Text,
	}
	if req.FileName != "" {
		message.FileName = sql.NullString{String: req.FileName, Valid: true}
		message.FileType = sql.NullString{String: req.FileType, Valid: true}
		message.FileSize = sql.NullInt64{Int64: req.FileSize, Valid: true}
	}

	if err := database.CreateMessage(r.Context(), s.db, &message); err != nil {
		slog.Error("error creating message", "chat_id", chat.ID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error creating message")
	}

	converted := convertMessage(message)

	// Feed delivery must not fail the insert: subscribers fall back to
	// re-fetching history if an event goes missing.
	if err := s.publisher.PublishMessageEvent(r.Context(), messaging.MessageEventPayload{
		ChatID:  chat.ID,
		Message: converted,
	}); err != nil {
		slog.Error("error publishing message event", "chat_id", chat.ID, "error", err)
	}

	return converted, nil
}
