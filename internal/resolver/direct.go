package resolver

import (
	"context"

	"github.com/nguyentantai21042004/reel-remix/internal/models"
)

type directResolver struct{}

// NewDirect returns a Resolver that treats every reference as a media URL.
func NewDirect() Resolver {
	return directResolver{}
}

func (directResolver) Resolve(ctx context.Context, refs []string) ([]models.VideoItem, error) {
	items := make([]models.VideoItem, 0, len(refs))
	for _, ref := range refs {
		items = append(items, models.VideoItem{Reference: ref, VideoURL: ref})
	}
	return items, nil
}
