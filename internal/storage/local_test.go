package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestObjectStore(t *testing.T) (*LocalObjectStore, string) {
	t.Helper()
	dir := t.TempDir()
	objectStore, err := NewLocalObjectStore(dir)
	require.NoError(t, err)
	return objectStore, dir
}

func TestLocalObjectStorePutGet(t *testing.T) {
	objectStore, baseDir := setupTestObjectStore(t)
	ctx := context.Background()

	key := AttachmentKey(uuid.New(), uuid.New(), "notes.txt")
	require.NoError(t, objectStore.PutObject(ctx, key, bytes.NewReader([]byte("hello world"))))

	_, err := os.Stat(filepath.Join(baseDir, filepath.FromSlash(key)))
	require.NoError(t, err)

	data, err := objectStore.GetObject(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), data)

	_, err = objectStore.GetObject(ctx, "attachments/missing")
	assert.Error(t, err)
}

func TestLocalObjectStoreListAndDeletePrefix(t *testing.T) {
	objectStore, _ := setupTestObjectStore(t)
	ctx := context.Background()

	chatID := uuid.New()
	otherChatID := uuid.New()

	keys := []string{
		AttachmentKey(chatID, uuid.New(), "a.txt"),
		AttachmentKey(chatID, uuid.New(), "b.csv"),
		AttachmentKey(otherChatID, uuid.New(), "c.png"),
	}
	for _, key := range keys {
		require.NoError(t, objectStore.PutObject(ctx, key, bytes.NewReader([]byte("x"))))
	}

	objects, err := objectStore.ListObjects(ctx, ChatPrefix(chatID))
	require.NoError(t, err)
	assert.Len(t, objects, 2)
	for _, obj := range objects {
		assert.Equal(t, int64(1), obj.Size)
	}

	require.NoError(t, objectStore.DeleteObjects(ctx, ChatPrefix(chatID)))

	objects, err = objectStore.ListObjects(ctx, ChatPrefix(chatID))
	require.NoError(t, err)
	assert.Empty(t, objects)

	// The other chat's attachments are untouched.
	objects, err = objectStore.ListObjects(ctx, ChatPrefix(otherChatID))
	require.NoError(t, err)
	assert.Len(t, objects, 1)
}

func TestAttachmentKeyStripsPathComponents(t *testing.T) {
	chatID := uuid.New()
	uploadID := uuid.New()

	key := AttachmentKey(chatID, uploadID, "../../etc/passwd")
	assert.Equal(t, "attachments/"+chatID.String()+"/"+uploadID.String()+"_passwd", key)

	key = AttachmentKey(chatID, uploadID, `C:\data\report.pdf`)
	assert.Equal(t, "attachments/"+chatID.String()+"/"+uploadID.String()+"_report.pdf", key)

	key = AttachmentKey(chatID, uploadID, "")
	assert.Equal(t, "attachments/"+chatID.String()+"/"+uploadID.String()+"_upload", key)
}
