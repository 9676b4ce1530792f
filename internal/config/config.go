package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Paths       PathsConfig       `yaml:"paths"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Chunking    ChunkingConfig    `yaml:"chunking"`
	Performance PerformanceConfig `yaml:"performance"`
	Resolver    ResolverConfig    `yaml:"resolver"`
	Speech      SpeechConfig      `yaml:"speech"`
	TextGen     TextGenConfig     `yaml:"textgen"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Storage     StorageConfig     `yaml:"storage"`
	History     HistoryConfig     `yaml:"history"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Port           string        `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type PathsConfig struct {
	Downloads string `yaml:"downloads"`
	Temp      string `yaml:"temp"`
	Inbox     string `yaml:"inbox"`
	Output    string `yaml:"output"`
	Archived  string `yaml:"archived"`
}

type FFmpegConfig struct {
	BinaryPath  string `yaml:"binary_path"`
	ProbePath   string `yaml:"probe_path"`
	AudioCodec  string `yaml:"audio_codec"`
	AudioFormat string `yaml:"audio_format"`
}

type ChunkingConfig struct {
	MaxChunkLength time.Duration `yaml:"max_chunk_length"`
}

type PerformanceConfig struct {
	MaxConcurrent      int `yaml:"max_concurrent"`
	MaxChunkConcurrent int `yaml:"max_chunk_concurrent"`
}

type ResolverConfig struct {
	Provider string        `yaml:"provider"`
	Actor    string        `yaml:"actor"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	Token    string        `yaml:"-"`
}

type SpeechConfig struct {
	Provider     string        `yaml:"provider"`
	Endpoint     string        `yaml:"endpoint"`
	Model        string        `yaml:"model"`
	LanguageCode string        `yaml:"language_code"`
	Timeout      time.Duration `yaml:"timeout"`
	APIKey       string        `yaml:"-"`
}

type TextGenConfig struct {
	Provider string `yaml:"provider"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"-"`
}

type OpenAIConfig struct {
	BaseURL      string `yaml:"base_url"`
	ChatModel    string `yaml:"chat_model"`
	WhisperModel string `yaml:"whisper_model"`
	APIKey       string `yaml:"-"`
}

type StorageConfig struct {
	MinIO MinIOConfig `yaml:"minio"`
}

type MinIOConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	BucketName      string `yaml:"bucket"`
	UseSSL          bool   `yaml:"use_ssl"`
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"-"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML file at path, overlays secrets from the environment
// (a .env file next to the working directory is honoured) and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Missing .env is fine, the process environment is used as is.
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Resolver.Token = getEnv("APIFY_API_TOKEN", c.Resolver.Token)
	c.Speech.APIKey = getEnv("SARVAM_API_KEY", c.Speech.APIKey)
	c.OpenAI.APIKey = getEnv("OPENAI_API_KEY", c.OpenAI.APIKey)
	c.Storage.MinIO.AccessKeyID = getEnv("MINIO_ACCESS_KEY", c.Storage.MinIO.AccessKeyID)
	c.Storage.MinIO.SecretAccessKey = getEnv("MINIO_SECRET_KEY", c.Storage.MinIO.SecretAccessKey)
	c.History.DSN = getEnv("DATABASE_DSN", c.History.DSN)

	if keys := splitKeys(os.Getenv("GEMINI_API_KEYS")); len(keys) > 0 {
		c.Gemini.APIKeys = keys
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKeys = []string{key}
	}
}

func (c *Config) Validate() error {
	if c.Paths.Downloads == "" {
		return fmt.Errorf("paths.downloads is required")
	}
	if c.Paths.Inbox != "" && c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required when paths.inbox is set")
	}

	if c.Server.Port == "" {
		c.Server.Port = "3000"
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 15 * time.Minute
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = c.Paths.Downloads + "/tmp"
	}
	if c.Paths.Inbox != "" && c.Paths.Archived == "" {
		c.Paths.Archived = "jobs/archived"
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.ProbePath == "" {
		c.FFmpeg.ProbePath = "ffprobe"
	}
	if c.FFmpeg.AudioFormat == "" {
		c.FFmpeg.AudioFormat = "mp3"
	}
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = "libmp3lame"
	}
	if c.Chunking.MaxChunkLength < 0 {
		return fmt.Errorf("chunking.max_chunk_length must not be negative")
	}
	if c.Chunking.MaxChunkLength == 0 {
		c.Chunking.MaxChunkLength = 25 * time.Second
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Performance.MaxChunkConcurrent == 0 {
		c.Performance.MaxChunkConcurrent = 2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	if err := c.validateTextGen(); err != nil {
		return err
	}

	if c.Storage.MinIO.Enabled {
		if c.Storage.MinIO.Endpoint == "" || c.Storage.MinIO.BucketName == "" {
			return fmt.Errorf("storage.minio.endpoint and storage.minio.bucket are required when minio is enabled")
		}
	}
	if c.History.Enabled && c.History.DSN == "" {
		return fmt.Errorf("DATABASE_DSN is required when history is enabled")
	}

	return nil
}

func (c *Config) validateResolver() error {
	if c.Resolver.Provider == "" {
		c.Resolver.Provider = "apify"
	}
	if c.Resolver.Timeout == 0 {
		c.Resolver.Timeout = 5 * time.Minute
	}
	switch c.Resolver.Provider {
	case "apify":
		if c.Resolver.Token == "" {
			return fmt.Errorf("APIFY_API_TOKEN is required for resolver.provider apify")
		}
		if c.Resolver.Actor == "" {
			c.Resolver.Actor = "apify~instagram-scraper"
		}
		if c.Resolver.BaseURL == "" {
			c.Resolver.BaseURL = "https://api.apify.com"
		}
	case "direct":
	default:
		return fmt.Errorf("unknown resolver.provider %q", c.Resolver.Provider)
	}
	return nil
}

func (c *Config) validateSpeech() error {
	if c.Speech.Provider == "" {
		c.Speech.Provider = "sarvam"
	}
	if c.Speech.Timeout == 0 {
		c.Speech.Timeout = 2 * time.Minute
	}
	switch c.Speech.Provider {
	case "sarvam":
		if c.Speech.APIKey == "" {
			return fmt.Errorf("SARVAM_API_KEY is required for speech.provider sarvam")
		}
		if c.Speech.Endpoint == "" {
			c.Speech.Endpoint = "https://api.sarvam.ai/speech-to-text"
		}
		if c.Speech.Model == "" {
			c.Speech.Model = "saarika:v2.5"
		}
		if c.Speech.LanguageCode == "" {
			c.Speech.LanguageCode = "unknown"
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for speech.provider openai")
		}
		if c.OpenAI.WhisperModel == "" {
			c.OpenAI.WhisperModel = "whisper-1"
		}
	default:
		return fmt.Errorf("unknown speech.provider %q", c.Speech.Provider)
	}
	return nil
}

func (c *Config) validateTextGen() error {
	if c.TextGen.Provider == "" {
		c.TextGen.Provider = "gemini"
	}
	switch c.TextGen.Provider {
	case "gemini":
		if len(c.Gemini.APIKeys) == 0 {
			return fmt.Errorf("GEMINI_API_KEYS or GEMINI_API_KEY is required for textgen.provider gemini")
		}
		if c.Gemini.Model == "" {
			c.Gemini.Model = "gemini-2.5-flash"
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for textgen.provider openai")
		}
		if c.OpenAI.ChatModel == "" {
			c.OpenAI.ChatModel = "gpt-4o-mini"
		}
	default:
		return fmt.Errorf("unknown textgen.provider %q", c.TextGen.Provider)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
