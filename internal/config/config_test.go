package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Paths:    PathsConfig{Downloads: "downloads"},
		Resolver: ResolverConfig{Provider: "direct"},
		Speech:   SpeechConfig{Provider: "sarvam", APIKey: "sarvam-key"},
		TextGen:  TextGenConfig{Provider: "gemini"},
		Gemini:   GeminiConfig{APIKeys: []string{"k1"}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing downloads path",
			mutate:  func(c *Config) { c.Paths.Downloads = "" },
			wantErr: true,
		},
		{
			name:    "apify without token",
			mutate:  func(c *Config) { c.Resolver.Provider = "apify" },
			wantErr: true,
		},
		{
			name:    "unknown resolver",
			mutate:  func(c *Config) { c.Resolver.Provider = "tiktok" },
			wantErr: true,
		},
		{
			name:    "sarvam without key",
			mutate:  func(c *Config) { c.Speech.APIKey = "" },
			wantErr: true,
		},
		{
			name: "openai speech with key",
			mutate: func(c *Config) {
				c.Speech.Provider = "openai"
				c.OpenAI.APIKey = "sk"
			},
			wantErr: false,
		},
		{
			name:    "gemini without keys",
			mutate:  func(c *Config) { c.Gemini.APIKeys = nil },
			wantErr: true,
		},
		{
			name:    "openai textgen without key",
			mutate:  func(c *Config) { c.TextGen.Provider = "openai" },
			wantErr: true,
		},
		{
			name:    "negative chunk length",
			mutate:  func(c *Config) { c.Chunking.MaxChunkLength = -time.Second },
			wantErr: true,
		},
		{
			name:    "minio enabled without bucket",
			mutate:  func(c *Config) { c.Storage.MinIO = MinIOConfig{Enabled: true, Endpoint: "localhost:9000"} },
			wantErr: true,
		},
		{
			name:    "history enabled without dsn",
			mutate:  func(c *Config) { c.History.Enabled = true },
			wantErr: true,
		},
		{
			name:    "inbox without output",
			mutate:  func(c *Config) { c.Paths.Inbox = "jobs/inbox" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Chunking.MaxChunkLength != 25*time.Second {
		t.Errorf("MaxChunkLength = %v, want 25s", cfg.Chunking.MaxChunkLength)
	}
	if cfg.Performance.MaxConcurrent != 2 || cfg.Performance.MaxChunkConcurrent != 2 {
		t.Errorf("Performance = %+v", cfg.Performance)
	}
	if cfg.Paths.Temp != "downloads/tmp" {
		t.Errorf("Temp = %q", cfg.Paths.Temp)
	}
	if cfg.Speech.Model != "saarika:v2.5" || cfg.Speech.LanguageCode != "unknown" {
		t.Errorf("Speech = %+v", cfg.Speech)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Gemini.Model = %q", cfg.Gemini.Model)
	}
	if cfg.FFmpeg.AudioFormat != "mp3" {
		t.Errorf("AudioFormat = %q", cfg.FFmpeg.AudioFormat)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	content := `
server:
  port: "8080"
  request_timeout: 90s

paths:
  downloads: "data/downloads"

chunking:
  max_chunk_length: 20s

resolver:
  provider: direct

speech:
  provider: sarvam

textgen:
  provider: gemini

logging:
  level: "debug"
  format: "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PORT", "")
	t.Setenv("SARVAM_API_KEY", "sarvam-secret")
	t.Setenv("GEMINI_API_KEYS", "a, b ,,c")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Paths.Downloads != "data/downloads" {
		t.Errorf("Downloads = %v, want %v", cfg.Paths.Downloads, "data/downloads")
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %v, want 8080", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 90*time.Second {
		t.Errorf("RequestTimeout = %v, want 90s", cfg.Server.RequestTimeout)
	}
	if cfg.Chunking.MaxChunkLength != 20*time.Second {
		t.Errorf("MaxChunkLength = %v, want 20s", cfg.Chunking.MaxChunkLength)
	}
	if cfg.Speech.APIKey != "sarvam-secret" {
		t.Errorf("Speech.APIKey = %q", cfg.Speech.APIKey)
	}
	if len(cfg.Gemini.APIKeys) != 3 || cfg.Gemini.APIKeys[1] != "b" {
		t.Errorf("Gemini.APIKeys = %v", cfg.Gemini.APIKeys)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}
