package ports

import (
	"context"
	"io"

	"artifact-catalog-service/internal/core/domain"
)

// Upload is a file received from a client or read from an import folder.
type Upload struct {
	Filename string
	Content  io.Reader
}

// FileStorage stores media files by kind. Paths returned by Save and
// accepted by Open are relative to the storage root ("thumbnails/101.png").
type FileStorage interface {
	// Save writes the content under kind. When the name is taken a unique
	// name is chosen; the stored relative path is returned.
	Save(ctx context.Context, kind domain.MediaKind, filename string, content io.Reader) (string, error)
	Exists(kind domain.MediaKind, filename string) bool
	Open(path string) (io.ReadCloser, error)
	Path(kind domain.MediaKind, filename string) string
	URL(path string) string
}

// EventPublisher emits domain events to an external broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// ArtifactRequestedEvent is published after a download request is recorded.
type ArtifactRequestedEvent struct {
	RequesterID  int64  `json:"requester_id"`
	ArtifactID   int64  `json:"artifact_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Institution  string `json:"institution,omitempty"`
	IsRegistered bool   `json:"is_registered"`
	RequestedAt  string `json:"requested_at"`
}

const RoutingArtifactRequested = "artifact.requested"
