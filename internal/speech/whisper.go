package speech

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nguyentantai21042004/reel-remix/internal/logger"
	"github.com/sashabaranov/go-openai"
)

type audioClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

type whisperTranscriber struct {
	client audioClient
	model  string
	logger logger.Logger
}

// NewWhisper returns a Transcriber backed by the OpenAI audio API.
func NewWhisper(client *openai.Client, model string, log logger.Logger) Transcriber {
	return &whisperTranscriber{client: client, model: model, logger: log}
}

func (w *whisperTranscriber) Name() string { return "openai" }

func (w *whisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcribe %s: %w", filepath.Base(audioPath), err)
	}
	w.logger.Debug(ctx, "Whisper transcribed %s (%d chars)", filepath.Base(audioPath), len(resp.Text))
	return resp.Text, nil
}
