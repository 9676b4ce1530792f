package media

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/reel-remix/internal/chunk"
)

// Transcoder wraps the media operations the pipeline needs from ffmpeg.
type Transcoder interface {
	// ExtractAudio writes the audio track of videoPath to audioPath.
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
	// Clip writes the part of audioPath covered by w to outPath.
	// Windows past the end of the input are cut short, not rejected.
	Clip(ctx context.Context, audioPath string, w chunk.Window, outPath string) error
	// ProbeDuration reports the length of an audio file.
	ProbeDuration(ctx context.Context, audioPath string) (time.Duration, error)
}
