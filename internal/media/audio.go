package media

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/reel-remix/internal/chunk"
)

// ErrProbeFailure means the duration of an artifact could not be measured.
var ErrProbeFailure = errors.New("probe failure")

// ExtractAudio drops the video stream and encodes audio with the configured codec.
func (t *implTranscoder) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	t.logger.Debug(ctx, "Extracting audio: %s -> %s", videoPath, audioPath)

	// -vn: no video, -threads 0: all cores, -y: overwrite
	args := []string{
		"-y",
		"-i", videoPath,
		"-vn",
		"-c:a", t.cfg.AudioCodec,
		"-threads", "0",
		audioPath,
	}

	if _, err := t.executor.Execute(ctx, t.cfg.BinaryPath, args...); err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w", err)
	}
	return nil
}

// Clip seeks on the input so only the window is decoded.
func (t *implTranscoder) Clip(ctx context.Context, audioPath string, w chunk.Window, outPath string) error {
	t.logger.Debug(ctx, "Clipping %s %s -> %s", audioPath, w, outPath)

	args := []string{
		"-y",
		"-ss", formatSeconds(w.Start),
		"-t", formatSeconds(w.Length),
		"-i", audioPath,
		"-c:a", t.cfg.AudioCodec,
		outPath,
	}

	if _, err := t.executor.Execute(ctx, t.cfg.BinaryPath, args...); err != nil {
		return fmt.Errorf("ffmpeg clip %s: %w", w, err)
	}
	return nil
}

func (t *implTranscoder) ProbeDuration(ctx context.Context, audioPath string) (time.Duration, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	}

	out, err := t.executor.Execute(ctx, t.cfg.ProbePath, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe %s: %w", ErrProbeFailure, audioPath, err)
	}

	raw := strings.TrimSpace(out)
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unreadable duration %q for %s", ErrProbeFailure, raw, audioPath)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return 0, fmt.Errorf("%w: no measurable duration for %s", ErrProbeFailure, audioPath)
	}

	return chunk.Seconds(seconds), nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
