// Package inference wraps the two selectable AI backends behind one
// interface: the local sentiment prediction server and the hosted gateway
// function.
package inference

import (
	"context"

	"github.com/google/uuid"
)

// Model identifiers, fixed closed set.
const (
	ModelAnum  = "anum"
	ModelAanum = "aanum"
)

type Request struct {
	Text    string
	ChatID  uuid.UUID
	HasFile bool
	// Metadata only. Attachment bytes never reach a backend.
	FileName string
	FileType string
}

// Response is the assistant reply. Err carries the machine-readable tag for
// soft failures (rate limit, payment required) that still produce a
// conversational Text.
type Response struct {
	Text string
	Err  string
}

type Backend interface {
	Reply(ctx context.Context, req Request) (Response, error)
}

// ValidModel reports whether id is one of the two selectable backends.
func ValidModel(id string) bool {
	return id == ModelAnum || id == ModelAanum
}
