package storage

import (
	"context"
	"io"

	"github.com/nguyentantai21042004/reel-remix/internal/models"
)

// Store keeps pipeline artifacts on local disk, where ffmpeg can reach them.
type Store interface {
	// New reserves a durable artifact; nothing is written until Write.
	New(kind models.ArtifactKind, filename string) models.MediaArtifact
	// Ephemeral reserves a scratch audio artifact that callers must Remove.
	Ephemeral(filename string) models.MediaArtifact
	// Write stores r as the content of a and returns it with CreatedAt set.
	Write(ctx context.Context, a models.MediaArtifact, r io.Reader) (models.MediaArtifact, error)
	// Commit marks an artifact written by an external tool (ffmpeg) as created.
	Commit(ctx context.Context, a models.MediaArtifact) (models.MediaArtifact, error)
	// Remove deletes a; removing a missing artifact is not an error.
	Remove(ctx context.Context, a models.MediaArtifact) error
	// Dirs lists every directory the store writes to.
	Dirs() []string
}

// Mirror copies durable text artifacts somewhere the UI host does not depend on.
type Mirror interface {
	Mirror(ctx context.Context, a models.MediaArtifact) error
}
