package chat

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxAttachmentSize caps uploads at 5 MiB.
const MaxAttachmentSize = 5 * 1024 * 1024

// allowedFileTypes is the attachment allow-list: plain text, PDF, common
// image formats, CSV, and Word documents.
var allowedFileTypes = map[string]struct{}{
	"text/plain":         {},
	"application/pdf":    {},
	"image/png":          {},
	"image/jpeg":         {},
	"image/jpg":          {},
	"image/gif":          {},
	"image/webp":         {},
	"text/csv":           {},
	"application/csv":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

func AllowedFileType(mimeType string) bool {
	base := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	_, ok := allowedFileTypes[base]
	return ok
}

// ValidateAttachment applies the allow-list and size cap before any bytes
// leave the composer.
func ValidateAttachment(mimeType string, size int64) error {
	if !AllowedFileType(mimeType) {
		return fmt.Errorf("file type '%s' is not supported", mimeType)
	}
	if size > MaxAttachmentSize {
		return fmt.Errorf("file exceeds the %d MB size limit", MaxAttachmentSize/(1024*1024))
	}
	return nil
}

// inlineable reports whether a file's contents ride along in the message
// text. Only text and CSV files are inlined; binary formats are summarized
// by a metadata placeholder.
func inlineable(mimeType string) bool {
	base := strings.ToLower(mimeType)
	return strings.HasPrefix(base, "text/plain") ||
		strings.HasPrefix(base, "text/csv") ||
		strings.HasPrefix(base, "application/csv")
}

// AttachmentText builds the message text for an uploaded file. Text and CSV
// contents are appended under a separator heading; anything else gets a
// bracketed placeholder naming the file.
func AttachmentText(userText, fileName, mimeType string, contents []byte) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(userText))

	if inlineable(mimeType) && utf8.Valid(contents) {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("--- Attached file: ")
		b.WriteString(fileName)
		b.WriteString(" ---\n")
		b.Write(contents)
		return b.String()
	}

	if b.Len() > 0 {
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "[Attached file: %s (%s, %d bytes)]", fileName, mimeType, len(contents))
	return b.String()
}
