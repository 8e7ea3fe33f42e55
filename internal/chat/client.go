// Package chat implements the client side of the application: an observable
// message store, the chat directory, the composer pipeline, and the realtime
// feed subscriber, all speaking to the backend over HTTP and websocket.
package chat

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"chat-backend/pkg/api"
)

// Client wraps the backend's REST API.
type Client struct {
	http    *resty.Client
	baseURL string
	token   string
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		http:    resty.New().SetBaseURL(baseURL).SetAuthToken(token),
		baseURL: baseURL,
		token:   token,
	}
}

// BaseURL and Token are exposed for the feed subscriber, which dials its own
// websocket connection.
func (c *Client) BaseURL() string { return c.baseURL }
func (c *Client) Token() string   { return c.token }

func (c *Client) GetChats(ctx context.Context) ([]api.Chat, error) {
	var result api.GetChatsResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/chats")
	if err := restError(res, err); err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return result.Chats, nil
}

func (c *Client) CreateChat(ctx context.Context) (api.Chat, error) {
	var result api.Chat
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Post("/chats")
	if err := restError(res, err); err != nil {
		return api.Chat{}, fmt.Errorf("failed to create chat: %w", err)
	}
	return result, nil
}

func (c *Client) RenameChat(ctx context.Context, chatID uuid.UUID, title string) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(api.RenameChatRequest{Title: title}).
		Post("/chats/" + chatID.String() + "/rename")
	if err := restError(res, err); err != nil {
		return fmt.Errorf("failed to rename chat: %w", err)
	}
	return nil
}

func (c *Client) DeleteChat(ctx context.Context, chatID uuid.UUID) error {
	res, err := c.http.R().
		SetContext(ctx).
		Delete("/chats/" + chatID.String())
	if err := restError(res, err); err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	return nil
}

func (c *Client) GetMessages(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]api.Message, error) {
	var result api.GetMessagesResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetQueryParam("offset", strconv.Itoa(offset)).
		SetResult(&result).
		Get("/chats/" + chatID.String() + "/messages")
	if err := restError(res, err); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return result.Messages, nil
}

func (c *Client) CreateMessage(ctx context.Context, chatID uuid.UUID, req api.CreateMessageRequest) (api.Message, error) {
	var result api.Message
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/chats/" + chatID.String() + "/messages")
	if err := restError(res, err); err != nil {
		return api.Message{}, fmt.Errorf("failed to create message: %w", err)
	}
	return result, nil
}

func (c *Client) UploadAttachment(ctx context.Context, chatID uuid.UUID, fileName, mimeType string, contents []byte) (api.UploadAttachmentResponse, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return api.UploadAttachmentResponse{}, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(contents); err != nil {
		return api.UploadAttachmentResponse{}, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return api.UploadAttachmentResponse{}, fmt.Errorf("failed to build upload: %w", err)
	}

	var result api.UploadAttachmentResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", writer.FormDataContentType()).
		SetBody(body.Bytes()).
		SetResult(&result).
		Post("/chats/" + chatID.String() + "/attachments")
	if err := restError(res, err); err != nil {
		return api.UploadAttachmentResponse{}, fmt.Errorf("failed to upload attachment: %w", err)
	}
	return result, nil
}

func restError(res *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("server returned status %d: %s", res.StatusCode(), bytes.TrimSpace(res.Body()))
	}
	return nil
}
