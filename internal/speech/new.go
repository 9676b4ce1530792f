package speech

import (
	"fmt"
	"net/http"

	"github.com/nguyentantai21042004/reel-remix/internal/config"
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
	"github.com/sashabaranov/go-openai"
)

// New picks the speech backend named by cfg.Speech.Provider.
func New(cfg *config.Config, log logger.Logger) (Transcriber, error) {
	switch cfg.Speech.Provider {
	case "sarvam":
		return NewSarvam(cfg.Speech, &http.Client{Timeout: cfg.Speech.Timeout}, log), nil
	case "openai":
		oc := openai.DefaultConfig(cfg.OpenAI.APIKey)
		if cfg.OpenAI.BaseURL != "" {
			oc.BaseURL = cfg.OpenAI.BaseURL
		}
		return NewWhisper(openai.NewClientWithConfig(oc), cfg.OpenAI.WhisperModel, log), nil
	default:
		return nil, fmt.Errorf("unknown speech provider %q", cfg.Speech.Provider)
	}
}
