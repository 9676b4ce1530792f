package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/reel-remix/internal/config"
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
)

type sarvamTranscriber struct {
	cfg    config.SpeechConfig
	client *http.Client
	logger logger.Logger
}

type sarvamResponse struct {
	Transcript   string `json:"transcript"`
	LanguageCode string `json:"language_code"`
}

// NewSarvam returns a Transcriber that posts audio to the Sarvam speech-to-text API.
func NewSarvam(cfg config.SpeechConfig, client *http.Client, log logger.Logger) Transcriber {
	if client == nil {
		client = http.DefaultClient
	}
	return &sarvamTranscriber{cfg: cfg, client: client, logger: log}
}

func (s *sarvamTranscriber) Name() string { return "sarvam" }

func (s *sarvamTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	body, contentType, err := s.buildForm(audioPath)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, body)
	if err != nil {
		return "", fmt.Errorf("build sarvam request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("api-subscription-key", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sarvam request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("sarvam status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out sarvamResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode sarvam response: %w", err)
	}

	s.logger.Debug(ctx, "Sarvam transcribed %s (%d chars, lang=%s)",
		filepath.Base(audioPath), len(out.Transcript), out.LanguageCode)
	return out.Transcript, nil
}

func (s *sarvamTranscriber) buildForm(audioPath string) (io.Reader, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("copy audio: %w", err)
	}
	if err := w.WriteField("model", s.cfg.Model); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("language_code", s.cfg.LanguageCode); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
