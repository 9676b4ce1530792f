package resolver

import (
	"fmt"

	"github.com/nguyentantai21042004/reel-remix/internal/config"
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
)

// New picks the resolver named by cfg.Provider.
func New(cfg config.ResolverConfig, log logger.Logger) (Resolver, error) {
	switch cfg.Provider {
	case "apify":
		return NewApify(cfg, nil, log), nil
	case "direct":
		return NewDirect(), nil
	default:
		return nil, fmt.Errorf("unknown resolver provider %q", cfg.Provider)
	}
}
