package textgen

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned when every configured credential is rate limited.
var ErrQuotaExceeded = errors.New("text generation quota exceeded")

// Generator produces free text for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
