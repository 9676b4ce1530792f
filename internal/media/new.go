package media

import (
	"github.com/nguyentantai21042004/reel-remix/internal/config"
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
	"github.com/nguyentantai21042004/reel-remix/pkg/executor"
)

type implTranscoder struct {
	cfg      config.FFmpegConfig
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Transcoder backed by the ffmpeg and ffprobe binaries.
func New(cfg config.FFmpegConfig, exec executor.Executor, log logger.Logger) Transcoder {
	return &implTranscoder{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}
