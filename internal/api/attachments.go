package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chat-backend/internal/chat"
	"chat-backend/internal/storage"
	"chat-backend/pkg/api"
)

// AttachmentService accepts file uploads for a chat and stores the raw bytes
// in the object store. Message rows reference the file by metadata only.
type AttachmentService struct {
	chats   *ChatService
	objects storage.ObjectStore
}

func NewAttachmentService(chats *ChatService, objects storage.ObjectStore) *AttachmentService {
	return &AttachmentService{chats: chats, objects: objects}
}

func (s *AttachmentService) AddRoutes(r chi.Router) {
	r.Post("/chats/{chat_id}/attachments", RestHandler(s.Upload))
}

func (s *AttachmentService) Upload(r *http.Request) (any, error) {
	loaded, err := s.chats.requireChat(r)
	if err != nil {
		return nil, err
	}

	if err := r.ParseMultipartForm(chat.MaxAttachmentSize); err != nil {
		return nil, CodedErrorf(http.StatusBadRequest, "unable to parse upload")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, CodedErrorf(http.StatusBadRequest, "missing 'file' form field")
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if err := chat.ValidateAttachment(mimeType, header.Size); err != nil {
		return nil, CodedError(http.StatusUnprocessableEntity, err)
	}

	key := storage.AttachmentKey(loaded.ID, uuid.New(), header.Filename)
	if err := s.objects.PutObject(r.Context(), key, file); err != nil {
		slog.Error("error storing attachment", "chat_id", loaded.ID, "key", key, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error storing attachment")
	}

	slog.Info("attachment stored", "chat_id", loaded.ID, "key", key, "size", header.Size)

	return api.UploadAttachmentResponse{
		Key:      key,
		FileName: header.Filename,
		FileType: mimeType,
		FileSize: header.Size,
	}, nil
}
