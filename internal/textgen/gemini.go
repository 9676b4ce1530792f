package textgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/reel-remix/internal/logger"
	"google.golang.org/genai"
)

type callFunc func(ctx context.Context, apiKey, model, prompt string) (string, error)

type geminiGenerator struct {
	apiKeys []string
	model   string
	logger  logger.Logger
	call    callFunc

	mu         sync.Mutex
	currentKey int
}

// NewGemini creates a Generator that rotates through the supplied Gemini API
// keys whenever one of them is rate limited.
func NewGemini(apiKeys []string, model string, log logger.Logger) Generator {
	return &geminiGenerator{
		apiKeys: apiKeys,
		model:   model,
		logger:  log,
		call:    callGemini,
	}
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if len(g.apiKeys) == 0 {
		return "", fmt.Errorf("no Gemini API keys configured")
	}

	var lastErr error
	for range len(g.apiKeys) {
		idx, key := g.key()

		text, err := g.call(ctx, key, g.model, prompt)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !isQuotaError(err) {
			return "", fmt.Errorf("generate content: %w", err)
		}

		g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
		g.rotateKey(idx)
		lastErr = err
	}

	return "", fmt.Errorf("%w: all %d API keys exhausted: %v", ErrQuotaExceeded, len(g.apiKeys), lastErr)
}

func (g *geminiGenerator) key() (int, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey, g.apiKeys[g.currentKey]
}

// rotateKey advances past idx unless another caller already moved on.
func (g *geminiGenerator) rotateKey(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == idx {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}

func callGemini(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var sb strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
		return sb.String(), nil
	}
	return "", fmt.Errorf("empty response from Gemini")
}

func isQuotaError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr.Code == http.StatusTooManyRequests {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
