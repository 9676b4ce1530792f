package resolver

import (
	"context"

	"github.com/nguyentantai21042004/reel-remix/internal/models"
)

// Resolver turns user-supplied post links into downloadable video URLs.
// Items without a usable URL are returned with empty URLs, not as errors.
type Resolver interface {
	Resolve(ctx context.Context, refs []string) ([]models.VideoItem, error)
}
