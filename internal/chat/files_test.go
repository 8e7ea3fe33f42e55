package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedFileType(t *testing.T) {
	allowed := []string{
		"text/plain",
		"text/plain; charset=utf-8",
		"application/pdf",
		"image/png",
		"image/jpeg",
		"image/gif",
		"image/webp",
		"text/csv",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	for _, mimeType := range allowed {
		assert.True(t, AllowedFileType(mimeType), mimeType)
	}

	denied := []string{
		"application/zip",
		"application/x-executable",
		"video/mp4",
		"text/html",
		"",
	}
	for _, mimeType := range denied {
		assert.False(t, AllowedFileType(mimeType), mimeType)
	}
}

func TestValidateAttachment(t *testing.T) {
	assert.NoError(t, ValidateAttachment("text/plain", 1024))
	assert.NoError(t, ValidateAttachment("image/png", MaxAttachmentSize))

	err := ValidateAttachment("image/png", MaxAttachmentSize+1)
	assert.ErrorContains(t, err, "size limit")

	err = ValidateAttachment("application/zip", 10)
	assert.ErrorContains(t, err, "not supported")
}

func TestAttachmentTextInlinesText(t *testing.T) {
	text := AttachmentText("look at this", "notes.txt", "text/plain", []byte("first line\nsecond line"))

	assert.True(t, strings.HasPrefix(text, "look at this\n\n"))
	assert.Contains(t, text, "--- Attached file: notes.txt ---\n")
	assert.True(t, strings.HasSuffix(text, "second line"))
}

func TestAttachmentTextInlinesCSV(t *testing.T) {
	text := AttachmentText("", "data.csv", "text/csv", []byte("a,b\n1,2"))

	assert.True(t, strings.HasPrefix(text, "--- Attached file: data.csv ---\n"))
	assert.Contains(t, text, "a,b\n1,2")
}

func TestAttachmentTextPlaceholderForBinary(t *testing.T) {
	contents := []byte{0x89, 0x50, 0x4e, 0x47}
	text := AttachmentText("check this image", "chart.png", "image/png", contents)

	assert.Equal(t, "check this image\n\n[Attached file: chart.png (image/png, 4 bytes)]", text)
	assert.NotContains(t, text, string(contents))
}

func TestAttachmentTextPlaceholderForInvalidUTF8(t *testing.T) {
	contents := []byte{0xff, 0xfe, 0x00}
	text := AttachmentText("", "weird.txt", "text/plain", contents)

	assert.Equal(t, "[Attached file: weird.txt (text/plain, 3 bytes)]", text)
}
