package textgen

import (
	"fmt"

	"github.com/nguyentantai21042004/reel-remix/internal/config"
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
	"github.com/sashabaranov/go-openai"
)

// New picks the text backend named by cfg.TextGen.Provider.
func New(cfg *config.Config, log logger.Logger) (Generator, error) {
	switch cfg.TextGen.Provider {
	case "gemini":
		return NewGemini(cfg.Gemini.APIKeys, cfg.Gemini.Model, log), nil
	case "openai":
		oc := openai.DefaultConfig(cfg.OpenAI.APIKey)
		if cfg.OpenAI.BaseURL != "" {
			oc.BaseURL = cfg.OpenAI.BaseURL
		}
		return NewOpenAI(openai.NewClientWithConfig(oc), cfg.OpenAI.ChatModel, log), nil
	default:
		return nil, fmt.Errorf("unknown textgen provider %q", cfg.TextGen.Provider)
	}
}
