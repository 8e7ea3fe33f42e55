// Package storage holds attachment bytes outside the database. Message rows
// carry only file metadata; the raw upload lands here under a per-chat
// prefix so deleting a chat can drop its attachments in one sweep.
package storage

import (
	"context"
	"io"
)

type Object struct {
	Name string
	Size int64
}

type ObjectStore interface {
	PutObject(ctx context.Context, key string, data io.Reader) error

	GetObject(ctx context.Context, key string) ([]byte, error)

	ListObjects(ctx context.Context, prefix string) ([]Object, error)

	DeleteObjects(ctx context.Context, prefix string) error
}
