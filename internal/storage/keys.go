package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

const attachmentRoot = "attachments"

// AttachmentKey builds the object key for one uploaded file. Keys nest under
// the chat so ChatPrefix covers everything a chat ever uploaded.
func AttachmentKey(chatID, uploadID uuid.UUID, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return path.Join(attachmentRoot, chatID.String(), uploadID.String()+"_"+base)
}

// ChatPrefix is the key prefix of every attachment in a chat.
func ChatPrefix(chatID uuid.UUID) string {
	return path.Join(attachmentRoot, chatID.String()) + "/"
}
